package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"souq/internal/apperr"
	"souq/internal/model"
)

func TestPasswords(t *testing.T) {
	_, err := HashPassword("short")
	assert.ErrorIs(t, err, apperr.ErrInvalid)

	_, err = HashPassword(strings.Repeat("x", MaxPasswordLength+8))
	assert.ErrorIs(t, err, apperr.ErrInvalid)
	_, err = HashPassword(strings.Repeat("x", MaxPasswordLength))
	assert.NoError(t, err)

	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "wrong horse"))
}

func TestTokens_IssueParse(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tk := &Tokens{Secret: []byte("s3cret"), TTL: time.Hour, Now: func() time.Time { return now }}

	token, err := tk.Issue(model.User{ID: "u1", Role: model.RoleAdmin})
	require.NoError(t, err)

	c, err := tk.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", c.UserID)
	assert.Equal(t, model.RoleAdmin, c.Role)

	other := &Tokens{Secret: []byte("other"), Now: tk.Now}
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	now = now.Add(2 * time.Hour)
	_, err = tk.Parse(token)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	assert.Contains(t, err.Error(), "expired")
}

func TestAuthenticateAndCheck(t *testing.T) {
	tk := &Tokens{Secret: []byte("s3cret")}
	token, err := tk.Issue(model.User{ID: "u1", Role: model.RoleCustomer})
	require.NoError(t, err)

	var seen Claims
	var checkErr, adminErr error
	h := tk.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, checkErr = Check(r.Context())
		_, adminErr = Check(r.Context(), model.RoleAdmin)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.NoError(t, checkErr)
	assert.Equal(t, "u1", seen.UserID)
	assert.ErrorIs(t, adminErr, apperr.ErrForbidden)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.ErrorIs(t, checkErr, apperr.ErrUnauthorized)

	_, err = Check(context.Background())
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}
