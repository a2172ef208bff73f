package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sharebloom-backend/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// JSONRequest builds a request with body encoded as JSON. A nil body sends no payload.
func JSONRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// DecodeBody reads the response envelope into a generic map.
func DecodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out), string(b))
	return out
}

// Data returns the "data" object of a success envelope.
func Data(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	out := DecodeBody(t, resp)
	data, ok := out["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %v", out)
	return data
}

// Token signs an HS256 identity token for u, as the external identity provider would.
func Token(t *testing.T, secret string, u *domain.User) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   u.ID.String(),
		"role":  u.Role,
		"email": u.Email,
		"name":  u.Name,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

// AuthRequest is JSONRequest with a bearer token for u.
func AuthRequest(t *testing.T, secret string, u *domain.User, method, path string, body interface{}) *http.Request {
	t.Helper()
	req := JSONRequest(t, method, path, body)
	req.Header.Set("Authorization", "Bearer "+Token(t, secret, u))
	return req
}
