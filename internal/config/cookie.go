package config

import (
	"fmt"
	"net/http"
	"strings"
)

type CookieSameSite string

const (
	CookieSameSiteNone   CookieSameSite = "none"
	CookieSameSiteLax    CookieSameSite = "lax"
	CookieSameSiteStrict CookieSameSite = "strict"
)

// CookieTemplate describes the session cookie the HTTP surface issues.
type CookieTemplate struct {
	Name     string         `yaml:"name"`
	MaxAge   int            `yaml:"maxAge"`
	Path     string         `yaml:"path"`
	Domain   string         `yaml:"domain"`
	Secure   bool           `yaml:"secure"`
	HTTPOnly bool           `yaml:"httpOnly"`
	SameSite CookieSameSite `yaml:"sameSite"`
}

// Check reports template combinations browsers reject, e.g. a __Host-
// prefixed name without Secure. They are surfaced as startup warnings, not
// errors.
func (ct *CookieTemplate) Check() []string {
	var warnings []string

	if strings.HasPrefix(ct.Name, "__Host-") {
		if !ct.Secure {
			warnings = append(warnings, fmt.Sprintf("cookie %s: __Host- prefix requires Secure", ct.Name))
		}
		if ct.Path != "/" {
			warnings = append(warnings, fmt.Sprintf("cookie %s: __Host- prefix requires Path=/", ct.Name))
		}
		if ct.Domain != "" {
			warnings = append(warnings, fmt.Sprintf("cookie %s: __Host- prefix forbids a Domain", ct.Name))
		}
	}

	if ct.SameSite == CookieSameSiteNone && !ct.Secure {
		warnings = append(warnings, fmt.Sprintf("cookie %s: SameSite=None requires Secure", ct.Name))
	}

	return warnings
}

func (ct *CookieTemplate) ToCookie(value string) *http.Cookie {
	var sameSite http.SameSite
	switch ct.SameSite {
	case CookieSameSiteNone:
		sameSite = http.SameSiteNoneMode
	case CookieSameSiteLax:
		sameSite = http.SameSiteLaxMode
	case CookieSameSiteStrict:
		sameSite = http.SameSiteStrictMode
	}

	return &http.Cookie{
		Name:     ct.Name,
		Value:    value,
		MaxAge:   ct.MaxAge,
		Path:     ct.Path,
		Domain:   ct.Domain,
		Secure:   ct.Secure,
		HttpOnly: ct.HTTPOnly,
		SameSite: sameSite,
	}
}
