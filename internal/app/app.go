// Package app monta repositórios e serviços a partir da configuração. É
// compartilhado pelo servidor e pelo souqctl.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"souq/internal/account"
	"souq/internal/admin"
	"souq/internal/auth"
	"souq/internal/config"
	"souq/internal/httpapi"
	"souq/internal/logging"
	"souq/internal/orders"
	"souq/internal/repository"
	"souq/internal/reviews"
	"souq/internal/session"
	"souq/internal/store"
	"souq/internal/upload"
)

type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Store    store.Store
	Sessions session.Backend

	Products *repository.ProductRepository
	Orders   *repository.OrderRepository
	Users    *repository.UserRepository
	Reviews  *repository.ReviewRepository

	Carts     *session.Carts
	Wishlists *session.Wishlists
	Tokens    *auth.Tokens
	Checkout  *orders.Service
	Accounts  *account.Service
	Ratings   *reviews.Service
	Admin     *admin.Service

	closers []func() error
}

// New abre o store e as sessões. Sem REDIS_URL as sessões ficam em memória,
// o que só serve para um processo.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	logger = logging.OrNop(logger)

	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, Logger: logger, Store: st}
	a.closers = append(a.closers, st.Close)

	if cfg.RedisURL != "" {
		rb, err := session.NewRedis(cfg.RedisURL)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		if err := rb.Ping(ctx); err != nil {
			_ = rb.Close()
			_ = a.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		a.Sessions = rb
		a.closers = append(a.closers, rb.Close)
		logger.Info("sessions on redis")
	} else {
		a.Sessions = session.NewMemory()
		logger.Warn("REDIS_URL not set, sessions kept in memory")
	}

	a.Products = &repository.ProductRepository{Store: st}
	a.Orders = &repository.OrderRepository{Store: st}
	a.Users = &repository.UserRepository{Store: st}
	a.Reviews = &repository.ReviewRepository{Store: st}

	a.Carts = &session.Carts{Backend: a.Sessions, Products: a.Products, TTL: cfg.SessionTTL, Logger: logger}
	a.Wishlists = &session.Wishlists{Backend: a.Sessions}
	a.Tokens = &auth.Tokens{Secret: []byte(cfg.JWTSecret), TTL: cfg.TokenTTL}

	a.Checkout = &orders.Service{Orders: a.Orders, Products: a.Products, Carts: a.Carts, Logger: logger}
	a.Accounts = &account.Service{Users: a.Users, Orders: a.Orders, Tokens: a.Tokens, Logger: logger}
	a.Ratings = &reviews.Service{Reviews: a.Reviews, Products: a.Products, Users: a.Users, Logger: logger}
	a.Admin = &admin.Service{
		Products: a.Products,
		Orders:   a.Orders,
		Checkout: a.Checkout,
		Logger:   logger,
	}
	if cfg.UploadURL != "" {
		a.Admin.Uploader = &upload.Client{URL: cfg.UploadURL, APIKey: cfg.UploadAPIKey, Logger: logger}
	}
	return a, nil
}

func (a *App) Server() *httpapi.Server {
	return &httpapi.Server{
		Products:    a.Products,
		Carts:       a.Carts,
		Wishlists:   a.Wishlists,
		Orders:      a.Checkout,
		Accounts:    a.Accounts,
		Reviews:     a.Ratings,
		Admin:       a.Admin,
		Tokens:      a.Tokens,
		Logger:      a.Logger,
		DefaultLang: a.Config.DefaultLang,
	}
}

// Close fecha na ordem inversa da abertura e devolve o primeiro erro.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
