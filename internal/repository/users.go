package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"souq/internal/apperr"
	"souq/internal/model"
	"souq/internal/store"
)

type UserRepository struct {
	Store store.Store
	Now   func() time.Time
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepository) Get(ctx context.Context, id string) (model.User, error) {
	var u model.User
	if err := r.Store.Get(ctx, store.Users, id, &u); err != nil {
		return model.User{}, wrapNotFound(err, apperr.CodeNotFound, "user not found")
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	docs, err := r.Store.List(ctx, store.Users)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return store.DecodeAll[model.User](docs)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	email = NormalizeEmail(email)
	users, err := r.List(ctx)
	if err != nil {
		return model.User{}, err
	}
	for _, u := range users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, fmt.Errorf("user %s: %w", email, apperr.ErrNotFound)
}

// Save garante e-mail único entre usuários diferentes.
func (r *UserRepository) Save(ctx context.Context, u *model.User) error {
	u.Email = NormalizeEmail(u.Email)
	if u.Email == "" {
		return apperr.New(apperr.CodeInvalid, apperr.ErrInvalid, "email is required")
	}
	existing, err := r.FindByEmail(ctx, u.Email)
	switch {
	case err == nil && existing.ID != u.ID:
		return apperr.New(apperr.CodeEmailTaken, apperr.ErrConflict, "email already registered")
	case err != nil && apperr.CodeOf(err) != apperr.CodeNotFound:
		return err
	}

	t := now(r.Now)
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Role == "" {
		u.Role = model.RoleCustomer
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = t
	}
	u.UpdatedAt = t
	if err := r.Store.Put(ctx, store.Users, u.ID, u); err != nil {
		return fmt.Errorf("save user %s: %w", u.ID, err)
	}
	return nil
}
