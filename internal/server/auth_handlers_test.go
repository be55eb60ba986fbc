package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	_, app := newTestServer(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]any{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "Sup3rSecret",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.NotEmpty(t, body["token"])

	customer := body["customer"].(map[string]any)
	assert.Equal(t, "user", customer["role"])
	assert.Equal(t, "Ada", customer["display_name"])
	// The hash must never appear in responses.
	_, leaked := customer["password"]
	assert.False(t, leaked)

	// Same email again conflicts.
	status, _ = doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]any{
		"email":    "ada@example.com",
		"password": "Sup3rSecret",
	})
	assert.Equal(t, http.StatusConflict, status)
}

func TestSignup_AdminPolicy(t *testing.T) {
	_, app := newTestServer(t)

	// root@example.com is in the test policy's admin set.
	status, body := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]any{
		"email":    "root@example.com",
		"password": "Sup3rSecret",
	})
	require.Equal(t, http.StatusCreated, status)
	customer := body["customer"].(map[string]any)
	assert.Equal(t, "admin", customer["role"])
	// Blank name falls back to the email local part.
	assert.Equal(t, "root", customer["display_name"])
}

func TestSignup_Validation(t *testing.T) {
	_, app := newTestServer(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing password", map[string]any{"email": "x@example.com"}},
		{"bad email", map[string]any{"email": "not-an-email", "password": "Sup3rSecret"}},
		{"weak password", map[string]any{"email": "x@example.com", "password": "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
		})
	}
}

func TestLogin(t *testing.T) {
	_, app := newTestServer(t)
	signupCustomer(t, app, "casey@example.com")

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "casey@example.com",
		"password": "Sup3rSecret",
	})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])

	status, _ = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "casey@example.com",
		"password": "WrongPassw0rd",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "ghost@example.com",
		"password": "Sup3rSecret",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	_, app := newTestServer(t)

	status, _ := doJSON(t, app, http.MethodGet, "/api/customers/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doJSON(t, app, http.MethodGet, "/api/communities", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}
