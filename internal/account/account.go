// Package account reúne cadastro, login e a área do cliente.
package account

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"souq/internal/apperr"
	"souq/internal/auth"
	"souq/internal/logging"
	"souq/internal/model"
	"souq/internal/repository"
)

type Service struct {
	Users  *repository.UserRepository
	Orders *repository.OrderRepository
	Tokens *auth.Tokens
	Logger *zap.Logger
}

type Session struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

func (s *Service) Register(ctx context.Context, email, password, name string) (Session, error) {
	return s.create(ctx, email, password, name, model.RoleCustomer)
}

// CreateAdmin é usado pelo souqctl; não existe rota HTTP para isso.
func (s *Service) CreateAdmin(ctx context.Context, email, password, name string) (model.User, error) {
	sess, err := s.create(ctx, email, password, name, model.RoleAdmin)
	return sess.User, err
}

func (s *Service) create(ctx context.Context, email, password, name string, role model.Role) (Session, error) {
	email = repository.NormalizeEmail(email)
	if !strings.Contains(email, "@") {
		return Session{}, apperr.New(apperr.CodeInvalid, apperr.ErrInvalid, "invalid email")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return Session{}, err
	}
	u := model.User{Email: email, Name: strings.TrimSpace(name), PasswordHash: hash, Role: role}
	if err := s.Users.Save(ctx, &u); err != nil {
		return Session{}, err
	}
	logging.OrNop(s.Logger).Info("user registered", zap.String("user_id", u.ID), zap.String("role", string(role)))
	return s.issue(u)
}

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if apperr.CodeOf(err) == apperr.CodeNotFound {
			return Session{}, apperr.New(apperr.CodeBadCredentials, apperr.ErrUnauthorized, "invalid email or password")
		}
		return Session{}, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return Session{}, apperr.New(apperr.CodeBadCredentials, apperr.ErrUnauthorized, "invalid email or password")
	}
	return s.issue(u)
}

func (s *Service) issue(u model.User) (Session, error) {
	token, err := s.Tokens.Issue(u)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, User: u.Public()}, nil
}

func (s *Service) Profile(ctx context.Context, userID string) (model.User, error) {
	u, err := s.Users.Get(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	return u.Public(), nil
}

// ProfileUpdate só mexe nos campos informados (nil = manter).
type ProfileUpdate struct {
	Name      *string         `json:"name"`
	Phone     *string         `json:"phone"`
	Lang      *string         `json:"lang"`
	Addresses []model.Address `json:"addresses"`
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (model.User, error) {
	u, err := s.Users.Get(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	if upd.Name != nil {
		u.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Phone != nil {
		u.Phone = strings.TrimSpace(*upd.Phone)
	}
	if upd.Lang != nil {
		switch *upd.Lang {
		case "ar", "en":
			u.Lang = *upd.Lang
		default:
			return model.User{}, apperr.New(apperr.CodeInvalid, apperr.ErrInvalid, "lang must be ar or en")
		}
	}
	if upd.Addresses != nil {
		for _, a := range upd.Addresses {
			if !a.Complete() {
				return model.User{}, apperr.New(apperr.CodeInvalid, apperr.ErrInvalid, "address is incomplete")
			}
		}
		u.Addresses = upd.Addresses
	}
	if err := s.Users.Save(ctx, &u); err != nil {
		return model.User{}, err
	}
	return u.Public(), nil
}

// OrderHistory lista os pedidos do cliente, mais recentes primeiro.
func (s *Service) OrderHistory(ctx context.Context, userID string) ([]model.Order, error) {
	return s.Orders.ListByUser(ctx, userID)
}
