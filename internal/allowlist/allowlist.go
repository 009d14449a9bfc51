// Package allowlist holds the configured set of administrator email
// addresses. Membership in this set is the sole authorization input for
// admin routing.
package allowlist

import "strings"

// DefaultAdminEmails seeds the allow-list when the configuration does not
// override it.
var DefaultAdminEmails = []string{"zenoramgmt@gmail.com"}

type List struct {
	emails map[string]struct{}
}

// New builds a list from the given emails. Entries are normalized to lower
// case because email addresses are case-insensitive at the identity
// provider; comparing them verbatim would let a differently-cased login
// bypass admin detection.
func New(emails ...string) *List {
	l := &List{emails: make(map[string]struct{}, len(emails))}
	for _, email := range emails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			continue
		}
		l.emails[email] = struct{}{}
	}

	return l
}

// IsAdmin reports whether the email belongs to an administrator.
func (l *List) IsAdmin(email string) bool {
	_, ok := l.emails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

func (l *List) Len() int {
	return len(l.emails)
}
