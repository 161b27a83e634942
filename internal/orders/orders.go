// Package orders transforma o carrinho em pedido e acompanha o status até a entrega.
package orders

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"souq/internal/apperr"
	"souq/internal/logging"
	"souq/internal/model"
	"souq/internal/observability"
	"souq/internal/repository"
	"souq/internal/session"
)

const (
	ShippingFee           = 25.0
	FreeShippingThreshold = 500.0
)

type Service struct {
	Orders   *repository.OrderRepository
	Products *repository.ProductRepository
	Carts    *session.Carts
	Logger   *zap.Logger
	Now      func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) log() *zap.Logger { return logging.OrNop(s.Logger) }

// Shipping cobra frete fixo abaixo do valor mínimo para frete grátis.
func Shipping(subtotal float64) float64 {
	if subtotal <= 0 || subtotal >= FreeShippingThreshold {
		return 0
	}
	return ShippingFee
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

const numberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewNumber gera o número exibido ao cliente: SQ-AAAAMMDD-XXXXXX.
func NewNumber(t time.Time) string {
	b := make([]byte, 6)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = numberAlphabet[int(b[i])%len(numberAlphabet)]
	}
	return fmt.Sprintf("SQ-%s-%s", t.Format("20060102"), string(b))
}

// Place cria o pedido a partir do carrinho da sessão. O estoque é baixado
// item a item; se algum falhar, os itens já baixados voltam ao estoque.
func (s *Service) Place(ctx context.Context, userID, sessionID string, addr model.Address) (model.Order, error) {
	if !addr.Complete() {
		return model.Order{}, apperr.New(apperr.CodeInvalid, apperr.ErrInvalid, "shipping address is incomplete")
	}
	cart, err := s.Carts.Get(ctx, sessionID)
	if err != nil {
		return model.Order{}, err
	}
	if len(cart.Items) == 0 {
		return model.Order{}, apperr.New(apperr.CodeCartEmpty, apperr.ErrInvalid, "cart is empty")
	}

	var items []model.OrderItem
	var subtotal float64
	for _, ci := range cart.Items {
		p, err := s.Products.Get(ctx, ci.ProductID)
		if err != nil {
			return model.Order{}, err
		}
		if p.Stock < ci.Quantity {
			return model.Order{}, apperr.New(apperr.CodeOutOfStock, apperr.ErrConflict,
				fmt.Sprintf("only %d left of %s", p.Stock, p.Name))
		}
		item := model.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			NameAr:    p.NameAr,
			UnitPrice: p.EffectivePrice(),
			Quantity:  ci.Quantity,
		}
		if len(p.Images) > 0 {
			item.Image = p.Images[0]
		}
		items = append(items, item)
		subtotal += item.LineTotal()
	}

	var reserved []model.OrderItem
	for _, it := range items {
		if _, err := s.Products.AdjustStock(ctx, it.ProductID, -it.Quantity); err != nil {
			s.restock(ctx, reserved)
			return model.Order{}, err
		}
		reserved = append(reserved, it)
	}

	t := s.now()
	subtotal = round2(subtotal)
	shipping := Shipping(subtotal)
	order := model.Order{
		ID:        uuid.New().String(),
		Number:    NewNumber(t),
		UserID:    userID,
		Items:     items,
		Subtotal:  subtotal,
		Shipping:  shipping,
		Total:     round2(subtotal + shipping),
		Status:    model.StatusPending,
		Address:   addr,
		History:   []model.StatusChange{{Status: model.StatusPending, At: t}},
		CreatedAt: t,
		UpdatedAt: t,
	}
	if err := s.Orders.Save(ctx, &order); err != nil {
		s.restock(ctx, reserved)
		return model.Order{}, err
	}

	if err := s.Carts.Clear(ctx, sessionID); err != nil {
		s.log().Warn("failed to clear cart after order", zap.String("session_id", sessionID), zap.Error(err))
	}
	observability.OrdersPlaced.Inc()
	s.log().Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("number", order.Number),
		zap.Int("items", len(order.Items)),
		zap.Float64("total", order.Total),
	)
	return order, nil
}

func (s *Service) restock(ctx context.Context, items []model.OrderItem) {
	for _, it := range items {
		if _, err := s.Products.AdjustStock(ctx, it.ProductID, it.Quantity); err != nil {
			s.log().Error("restock failed", zap.String("product_id", it.ProductID), zap.Error(err))
		}
	}
}

// Track busca pelo número impresso no e-mail de confirmação.
func (s *Service) Track(ctx context.Context, number string) (model.Order, error) {
	number = strings.ToUpper(strings.TrimSpace(number))
	if number == "" {
		return model.Order{}, apperr.New(apperr.CodeInvalid, apperr.ErrInvalid, "order number is required")
	}
	return s.Orders.FindByNumber(ctx, number)
}

// UpdateStatus aplica a transição, registra no histórico e devolve o estoque
// quando o pedido é cancelado.
func (s *Service) UpdateStatus(ctx context.Context, id string, to model.OrderStatus, note string) (model.Order, error) {
	o, err := s.Orders.Get(ctx, id)
	if err != nil {
		return model.Order{}, err
	}
	if !model.CanTransition(o.Status, to) {
		return model.Order{}, apperr.New(apperr.CodeOrderInvalidTransition, apperr.ErrConflict,
			fmt.Sprintf("cannot move order from %s to %s", o.Status, to))
	}

	t := s.now()
	from := o.Status
	o.Status = to
	o.UpdatedAt = t
	o.History = append(o.History, model.StatusChange{Status: to, Note: note, At: t})
	if err := s.Orders.Save(ctx, &o); err != nil {
		return model.Order{}, err
	}
	if to == model.StatusCancelled {
		s.restock(ctx, o.Items)
	}

	observability.OrderTransitions.WithLabelValues(string(to)).Inc()
	s.log().Info("order status changed",
		zap.String("order_id", o.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return o, nil
}

// Cancel é a ação do próprio cliente: só o dono, e só enquanto pendente.
func (s *Service) Cancel(ctx context.Context, userID, id string) (model.Order, error) {
	o, err := s.Orders.Get(ctx, id)
	if err != nil {
		return model.Order{}, err
	}
	if o.UserID != userID {
		return model.Order{}, apperr.New(apperr.CodeOrderNotFound, apperr.ErrNotFound, "order not found")
	}
	if o.Status != model.StatusPending {
		return model.Order{}, apperr.New(apperr.CodeOrderNotCancellable, apperr.ErrConflict,
			"order can only be cancelled while pending")
	}
	return s.UpdateStatus(ctx, id, model.StatusCancelled, "cancelled by customer")
}
