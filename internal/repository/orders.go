package repository

import (
	"context"
	"fmt"
	"sort"

	"souq/internal/apperr"
	"souq/internal/model"
	"souq/internal/store"
)

type OrderRepository struct {
	Store store.Store
}

func (r *OrderRepository) Get(ctx context.Context, id string) (model.Order, error) {
	var o model.Order
	if err := r.Store.Get(ctx, store.Orders, id, &o); err != nil {
		return model.Order{}, wrapNotFound(err, apperr.CodeOrderNotFound, "order not found")
	}
	return o, nil
}

// List devolve os pedidos do mais recente para o mais antigo.
func (r *OrderRepository) List(ctx context.Context) ([]model.Order, error) {
	docs, err := r.Store.List(ctx, store.Orders)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	orders, err := store.DecodeAll[model.Order](docs)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []model.Order{}
	for _, o := range all {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *OrderRepository) FindByNumber(ctx context.Context, number string) (model.Order, error) {
	all, err := r.List(ctx)
	if err != nil {
		return model.Order{}, err
	}
	for _, o := range all {
		if o.Number == number {
			return o, nil
		}
	}
	return model.Order{}, apperr.New(apperr.CodeOrderNotFound, apperr.ErrNotFound, "order not found")
}

func (r *OrderRepository) Save(ctx context.Context, o *model.Order) error {
	if err := r.Store.Put(ctx, store.Orders, o.ID, o); err != nil {
		return fmt.Errorf("save order %s: %w", o.ID, err)
	}
	return nil
}
