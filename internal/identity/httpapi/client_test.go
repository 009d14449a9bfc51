package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenorapm/zenora/internal/identity"
	"github.com/zenorapm/zenora/internal/identity/httpapi"
	"github.com/zenorapm/zenora/internal/serviceerr"
)

const testAPIKey = "anon-key"

func startAuthServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		switch r.URL.Query().Get("grant_type") {
		case "password":
			if body["password"] != "Zenora101!" {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]string{"error_description": "Invalid login credentials"})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token":  "access-1",
				"refresh_token": "refresh-1",
				"token_type":    "bearer",
				"expires_in":    3600,
				"user": map[string]any{
					"id":            "user-1",
					"email":         body["email"],
					"user_metadata": map[string]string{"full_name": "Jane Doe"},
				},
			})
		case "refresh_token":
			if body["refresh_token"] != "refresh-1" {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]string{"error_description": "Invalid Refresh Token"})
				return
			}
			// No user payload: the client has to fall back to the claims.
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token":  signTestToken(t),
				"refresh_token": "refresh-2",
				"token_type":    "bearer",
				"expires_in":    3600,
			})
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	})
	mux.HandleFunc("POST /signup", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		if body["email"] == "taken@example.com" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(map[string]string{"msg": "User already registered"})
			return
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":    "user-2",
			"email": body["email"],
		})
	})
	mux.HandleFunc("POST /logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func signTestToken(t *testing.T) string {
	t.Helper()

	key := []byte("0123456789abcdef0123456789abcdef")
	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.HS256, Key: key}, nil)
	require.NoError(t, err)

	raw, err := jwt.Signed(signer).Claims(map[string]any{
		"sub":           "user-1",
		"email":         "tenant@example.com",
		"user_metadata": map[string]string{"full_name": "Jane Doe"},
	}).Serialize()
	require.NoError(t, err)

	return raw
}

func TestClient_SignInWithPassword(t *testing.T) {
	server := startAuthServer(t)
	client, err := httpapi.NewClient(server.URL, testAPIKey)
	require.NoError(t, err)

	var events []identity.Event
	sub := client.OnSessionChange(func(e identity.Event) { events = append(events, e) })
	defer sub.Unsubscribe()

	session, err := client.SignInWithPassword(context.Background(), "tenant@example.com", "Zenora101!")
	require.NoError(t, err)

	assert.Equal(t, "access-1", session.AccessToken)
	assert.Equal(t, "user-1", session.User.ID)
	assert.Equal(t, "Jane Doe", session.User.FullName)

	require.Len(t, events, 1)
	assert.Equal(t, identity.EventSignedIn, events[0].Type)
	require.NotNil(t, events[0].Session)

	current, err := client.GetSession(context.Background())
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "tenant@example.com", current.User.Email)
}

func TestClient_SignInWithPassword_Rejected(t *testing.T) {
	server := startAuthServer(t)
	client, err := httpapi.NewClient(server.URL, testAPIKey)
	require.NoError(t, err)

	_, err = client.SignInWithPassword(context.Background(), "tenant@example.com", "wrong")

	var authErr *serviceerr.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Invalid login credentials", authErr.Message)

	current, err := client.GetSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestClient_SignUp(t *testing.T) {
	server := startAuthServer(t)
	client, err := httpapi.NewClient(server.URL, testAPIKey)
	require.NoError(t, err)

	result, err := client.SignUp(context.Background(), "new@x.com", "secret123", identity.Metadata{"full_name": "Jane Doe"})
	require.NoError(t, err)

	assert.Equal(t, "user-2", result.UserID)
	assert.Equal(t, "new@x.com", result.Email)
}

func TestClient_SignUp_Conflict(t *testing.T) {
	server := startAuthServer(t)
	client, err := httpapi.NewClient(server.URL, testAPIKey)
	require.NoError(t, err)

	_, err = client.SignUp(context.Background(), "taken@example.com", "secret123", nil)
	assert.ErrorIs(t, err, serviceerr.ErrConflict)
}

func TestClient_SignOut(t *testing.T) {
	server := startAuthServer(t)
	client, err := httpapi.NewClient(server.URL, testAPIKey)
	require.NoError(t, err)

	_, err = client.SignInWithPassword(context.Background(), "tenant@example.com", "Zenora101!")
	require.NoError(t, err)

	var events []identity.Event
	sub := client.OnSessionChange(func(e identity.Event) { events = append(events, e) })
	defer sub.Unsubscribe()

	require.NoError(t, client.SignOut(context.Background()))

	require.Len(t, events, 1)
	assert.Equal(t, identity.EventSignedOut, events[0].Type)
	assert.Nil(t, events[0].Session)

	current, err := client.GetSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestClient_Refresh_DerivesUserFromClaims(t *testing.T) {
	server := startAuthServer(t)
	client, err := httpapi.NewClient(server.URL, testAPIKey)
	require.NoError(t, err)

	var events []identity.Event
	sub := client.OnSessionChange(func(e identity.Event) { events = append(events, e) })
	defer sub.Unsubscribe()

	session, err := client.Refresh(context.Background(), "refresh-1")
	require.NoError(t, err)

	assert.Equal(t, "user-1", session.User.ID)
	assert.Equal(t, "tenant@example.com", session.User.Email)
	assert.Equal(t, "Jane Doe", session.User.FullName)
	assert.Equal(t, "refresh-2", session.RefreshToken)

	require.Len(t, events, 1)
	assert.Equal(t, identity.EventTokenRefreshed, events[0].Type)
}
