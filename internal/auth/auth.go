// Package auth cuida de senha (bcrypt) e do token de sessão (JWT HS256).
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"souq/internal/apperr"
	"souq/internal/model"
)

const (
	MinPasswordLength = 8
	// MaxPasswordLength é o limite do bcrypt, em bytes.
	MaxPasswordLength = 72
)

func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", apperr.New(apperr.CodeInvalid, apperr.ErrInvalid,
			fmt.Sprintf("password must have at least %d characters", MinPasswordLength))
	}
	if len(password) > MaxPasswordLength {
		return "", apperr.New(apperr.CodeInvalid, apperr.ErrInvalid,
			fmt.Sprintf("password must have at most %d bytes", MaxPasswordLength))
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

type Claims struct {
	UserID string     `json:"-"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

type Tokens struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func (t *Tokens) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

func (t *Tokens) Issue(u model.User) (string, error) {
	ttl := t.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := t.now()
	claims := Claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    "souq",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (t *Tokens) Parse(token string) (Claims, error) {
	var c Claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return t.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithIssuer("souq"),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, apperr.New(apperr.CodeUnauthorized, apperr.ErrUnauthorized, "token expired")
		}
		return Claims{}, apperr.New(apperr.CodeUnauthorized, apperr.ErrUnauthorized, "invalid token")
	}
	if c.Subject == "" {
		return Claims{}, apperr.New(apperr.CodeUnauthorized, apperr.ErrUnauthorized, "invalid token")
	}
	c.UserID = c.Subject
	return c, nil
}

type ctxKey struct{}

func WithClaims(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

func FromContext(ctx context.Context) (Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(Claims)
	return c, ok
}

// Authenticate coloca as claims no contexto quando existe um Bearer válido.
// Token inválido é tratado como requisição anônima; quem exige login usa Check.
func (t *Tokens) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if raw, ok := strings.CutPrefix(h, "Bearer "); ok {
			if c, err := t.Parse(strings.TrimSpace(raw)); err == nil {
				r = r.WithContext(WithClaims(r.Context(), c))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Check valida a presença de login e, se roles não for vazio, o papel.
func Check(ctx context.Context, roles ...model.Role) (Claims, error) {
	c, ok := FromContext(ctx)
	if !ok {
		return Claims{}, apperr.New(apperr.CodeUnauthorized, apperr.ErrUnauthorized, "login required")
	}
	if len(roles) == 0 {
		return c, nil
	}
	for _, r := range roles {
		if c.Role == r {
			return c, nil
		}
	}
	return Claims{}, apperr.New(apperr.CodeForbidden, apperr.ErrForbidden, "not allowed")
}
