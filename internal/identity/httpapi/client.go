// Package httpapi implements identity.Provider against the hosted auth
// REST API (password grant, signup, logout, refresh-token grant).
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	slogctx "github.com/veqryn/slog-context"

	"github.com/zenorapm/zenora/internal/identity"
	"github.com/zenorapm/zenora/internal/serviceerr"
)

type Client struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	hub        *identity.Hub

	mu      sync.Mutex
	current *identity.Session
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing auth API base URL: %w", err)
	}

	c := &Client{
		baseURL:    u,
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
		hub:        identity.NewHub(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c, nil
}

var _ identity.Provider = (*Client)(nil)

// GetSession returns the session held by this client, or nil when
// anonymous. The provider owns the session; this is the local mirror.
func (c *Client) GetSession(_ context.Context) (*identity.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil, nil
	}

	s := *c.current

	return &s, nil
}

func (c *Client) OnSessionChange(fn func(identity.Event)) identity.Subscription {
	return c.hub.Subscribe(fn)
}

type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	User         *userPayload `json:"user"`
}

type userPayload struct {
	ID       string            `json:"id"`
	Email    string            `json:"email"`
	Metadata map[string]string `json:"user_metadata"`
}

type apiError struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
}

func (e apiError) text() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.Message != "":
		return e.Message
	case e.ErrorDescription != "":
		return e.ErrorDescription
	default:
		return "authentication failed"
	}
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*identity.Session, error) {
	session, err := c.passwordGrant(ctx, "password", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	c.setCurrent(session)
	c.hub.Emit(identity.Event{Type: identity.EventSignedIn, Session: session})

	return session, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*identity.Session, error) {
	session, err := c.passwordGrant(ctx, "refresh_token", map[string]string{
		"refresh_token": refreshToken,
	})
	if err != nil {
		return nil, err
	}

	c.setCurrent(session)
	c.hub.Emit(identity.Event{Type: identity.EventTokenRefreshed, Session: session})

	return session, nil
}

func (c *Client) passwordGrant(ctx context.Context, grantType string, body map[string]string) (*identity.Session, error) {
	endpoint := c.endpoint("/token")
	endpoint += "?grant_type=" + url.QueryEscape(grantType)

	resp, err := c.post(ctx, endpoint, body, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)

		return nil, &serviceerr.AuthError{Message: apiErr.text()}
	}

	var tokens tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return nil, fmt.Errorf("decoding token response: %w", err)
	}

	session := &identity.Session{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    tokens.TokenType,
		Expiry:       time.Now().Add(time.Duration(tokens.ExpiresIn) * time.Second),
	}

	if tokens.User != nil {
		session.User = identity.User{
			ID:       tokens.User.ID,
			Email:    tokens.User.Email,
			FullName: tokens.User.Metadata["full_name"],
		}
	} else {
		// Some grant responses omit the user payload; derive it from the
		// access-token claims instead.
		user, err := userFromClaims(tokens.AccessToken)
		if err != nil {
			return nil, fmt.Errorf("deriving user from token claims: %w", err)
		}
		session.User = user
	}

	return session, nil
}

func (c *Client) SignUp(ctx context.Context, email, password string, meta identity.Metadata) (*identity.SignUpResult, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
	}
	if len(meta) > 0 {
		body["data"] = meta
	}

	resp, err := c.post(ctx, c.endpoint("/signup"), body, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)

		if isConflict(resp.StatusCode, apiErr.text()) {
			return nil, serviceerr.ErrConflict
		}

		return nil, &serviceerr.AuthError{Message: apiErr.text()}
	}

	var user userPayload
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decoding signup response: %w", err)
	}

	return &identity.SignUpResult{UserID: user.ID, Email: user.Email}, nil
}

func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	current := c.current
	c.mu.Unlock()

	if current != nil {
		resp, err := c.post(ctx, c.endpoint("/logout"), nil, current.AccessToken)
		if err != nil {
			return err
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
			slogctx.Warn(ctx, "Provider rejected the logout call, dropping the session anyway", "status", resp.StatusCode)
		}
	}

	c.setCurrent(nil)
	c.hub.Emit(identity.Event{Type: identity.EventSignedOut, Session: nil})

	return nil
}

// UpdateUser pushes metadata changes to the provider and emits
// EventUserUpdated with the refreshed session.
func (c *Client) UpdateUser(ctx context.Context, meta identity.Metadata) error {
	c.mu.Lock()
	current := c.current
	c.mu.Unlock()

	if current == nil {
		return serviceerr.ErrUnauthorized
	}

	resp, err := c.put(ctx, c.endpoint("/user"), map[string]any{"data": meta}, current.AccessToken)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)

		return &serviceerr.AuthError{Message: apiErr.text()}
	}

	var user userPayload
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return fmt.Errorf("decoding user response: %w", err)
	}

	c.mu.Lock()
	updated := *current
	updated.User = identity.User{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.Metadata["full_name"],
	}
	c.current = &updated
	c.mu.Unlock()

	c.hub.Emit(identity.Event{Type: identity.EventUserUpdated, Session: &updated})

	return nil
}

func (c *Client) setCurrent(s *identity.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = s
}

func (c *Client) endpoint(path string) string {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + path

	return u.String()
}

func (c *Client) post(ctx context.Context, endpoint string, body any, bearer string) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, endpoint, body, bearer)
}

func (c *Client) put(ctx context.Context, endpoint string, body any, bearer string) (*http.Response, error) {
	return c.do(ctx, http.MethodPut, endpoint, body, bearer)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, bearer string) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	return resp, nil
}

func isConflict(status int, msg string) bool {
	if status != http.StatusUnprocessableEntity && status != http.StatusConflict && status != http.StatusBadRequest {
		return false
	}

	return strings.Contains(strings.ToLower(msg), "already registered") ||
		strings.Contains(strings.ToLower(msg), "already exists")
}
