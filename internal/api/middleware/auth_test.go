package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, subject string, key []byte, expires time.Time) string {
	t.Helper()
	token, err := jwt.NewBuilder().
		Subject(subject).
		IssuedAt(time.Now()).
		Expiration(expires).
		Build()
	require.NoError(t, err)

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, key))
	require.NoError(t, err)
	return string(signed)
}

// echoUserID writes back the user id the middleware injected
func echoUserID() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserID(r) == 0 || GetJWTClaims(r) == nil {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_ValidToken(t *testing.T) {
	var gotID int64
	handler := NewAuthMiddleware(testSecret, false).RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = GetUserID(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/posts/feed", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "42", testSecret, time.Now().Add(time.Hour)))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(42), gotID)
}

func TestRequireAuth_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "not bearer", header: "Basic abc"},
		{name: "garbage token", header: "Bearer not-a-jwt"},
		{name: "wrong key", header: "Bearer " + signToken(t, "42", []byte("other"), time.Now().Add(time.Hour))},
		{name: "expired", header: "Bearer " + signToken(t, "42", testSecret, time.Now().Add(-time.Hour))},
		{name: "non numeric subject", header: "Bearer " + signToken(t, "alice", testSecret, time.Now().Add(time.Hour))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAuthMiddleware(testSecret, false).RequireAuth(echoUserID())

			req := httptest.NewRequest(http.MethodPost, "/posts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "AuthenticationRequired")
		})
	}
}

func TestRequireAuth_SkipVerifyAcceptsUnsignedKey(t *testing.T) {
	handler := NewAuthMiddleware(nil, true).RequireAuth(echoUserID())

	req := httptest.NewRequest(http.MethodGet, "/posts/feed", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "7", []byte("anything"), time.Now().Add(time.Hour)))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSetTestUserID(t *testing.T) {
	ctx := SetTestUserID(context.Background(), 9)
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	assert.Equal(t, int64(9), GetUserID(req))
}
