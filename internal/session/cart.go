package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"souq/internal/apperr"
	"souq/internal/logging"
	"souq/internal/model"
)

const DefaultTTL = 30 * time.Minute

type ProductLookup interface {
	Get(ctx context.Context, id string) (model.Product, error)
}

type Carts struct {
	Backend  Backend
	Products ProductLookup
	TTL      time.Duration
	Logger   *zap.Logger
}

func cartKey(sessionID string) string { return "cart:" + sessionID }

func ttlOr(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultTTL
	}
	return d
}

func validSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return apperr.New(apperr.CodeInvalid, apperr.ErrInvalid, "missing session id")
	}
	return nil
}

// Get devolve o carrinho e renova a expiração, como o histórico de sessão fazia.
func (c *Carts) Get(ctx context.Context, sessionID string) (model.Cart, error) {
	if err := validSession(sessionID); err != nil {
		return model.Cart{}, err
	}
	cart := model.Cart{SessionID: sessionID, Items: []model.CartItem{}}
	raw, err := c.Backend.Get(ctx, cartKey(sessionID))
	if errors.Is(err, errMiss) {
		return cart, nil
	}
	if err != nil {
		return model.Cart{}, fmt.Errorf("load cart: %w", err)
	}
	if err := json.Unmarshal(raw, &cart); err != nil {
		return model.Cart{}, fmt.Errorf("decode cart: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []model.CartItem{}
	}
	// falha ao renovar não impede a leitura; o carrinho só expira antes
	if err := c.Backend.Set(ctx, cartKey(sessionID), raw, ttlOr(c.TTL)); err != nil {
		logging.OrNop(c.Logger).Debug("refresh cart ttl failed", zap.String("session_id", sessionID), zap.Error(err))
	}
	return cart, nil
}

func (c *Carts) save(ctx context.Context, cart model.Cart) (model.Cart, error) {
	cart.UpdatedAt = time.Now().UTC()
	b, err := json.Marshal(cart)
	if err != nil {
		return model.Cart{}, fmt.Errorf("encode cart: %w", err)
	}
	if err := c.Backend.Set(ctx, cartKey(cart.SessionID), b, ttlOr(c.TTL)); err != nil {
		return model.Cart{}, fmt.Errorf("store cart: %w", err)
	}
	return cart, nil
}

// clamp limita a quantidade ao estoque conhecido do produto.
func (c *Carts) clamp(ctx context.Context, productID string, qty int) (int, error) {
	if c.Products == nil {
		return qty, nil
	}
	p, err := c.Products.Get(ctx, productID)
	if err != nil {
		return 0, err
	}
	if p.Stock <= 0 {
		return 0, apperr.New(apperr.CodeOutOfStock, apperr.ErrConflict, "product is out of stock")
	}
	if qty > p.Stock {
		qty = p.Stock
	}
	return qty, nil
}

// Add soma a quantidade ao item existente ou cria um novo item.
func (c *Carts) Add(ctx context.Context, sessionID, productID string, qty int) (model.Cart, error) {
	if qty <= 0 {
		qty = 1
	}
	cart, err := c.Get(ctx, sessionID)
	if err != nil {
		return model.Cart{}, err
	}
	idx := -1
	for i, it := range cart.Items {
		if it.ProductID == productID {
			idx = i
			qty += it.Quantity
			break
		}
	}
	qty, err = c.clamp(ctx, productID, qty)
	if err != nil {
		return model.Cart{}, err
	}
	if idx >= 0 {
		cart.Items[idx].Quantity = qty
	} else {
		cart.Items = append(cart.Items, model.CartItem{ProductID: productID, Quantity: qty})
	}
	return c.save(ctx, cart)
}

// Update define a quantidade; zero ou negativo remove o item.
func (c *Carts) Update(ctx context.Context, sessionID, productID string, qty int) (model.Cart, error) {
	if qty <= 0 {
		return c.Remove(ctx, sessionID, productID)
	}
	cart, err := c.Get(ctx, sessionID)
	if err != nil {
		return model.Cart{}, err
	}
	for i, it := range cart.Items {
		if it.ProductID != productID {
			continue
		}
		qty, err = c.clamp(ctx, productID, qty)
		if err != nil {
			return model.Cart{}, err
		}
		cart.Items[i].Quantity = qty
		return c.save(ctx, cart)
	}
	return model.Cart{}, apperr.New(apperr.CodeNotFound, apperr.ErrNotFound, "item not in cart")
}

func (c *Carts) Remove(ctx context.Context, sessionID, productID string) (model.Cart, error) {
	cart, err := c.Get(ctx, sessionID)
	if err != nil {
		return model.Cart{}, err
	}
	items := cart.Items[:0]
	for _, it := range cart.Items {
		if it.ProductID != productID {
			items = append(items, it)
		}
	}
	cart.Items = items
	return c.save(ctx, cart)
}

func (c *Carts) Clear(ctx context.Context, sessionID string) error {
	if err := validSession(sessionID); err != nil {
		return err
	}
	return c.Backend.Delete(ctx, cartKey(sessionID))
}
