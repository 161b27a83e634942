package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"souq/internal/apperr"
	"souq/internal/model"
	"souq/internal/store"
)

type ProductRepository struct {
	Store store.Store
	Now   func() time.Time
}

func now(f func() time.Time) time.Time {
	if f != nil {
		return f().UTC()
	}
	return time.Now().UTC()
}

func (r *ProductRepository) Get(ctx context.Context, id string) (model.Product, error) {
	var p model.Product
	if err := r.Store.Get(ctx, store.Products, id, &p); err != nil {
		return model.Product{}, wrapNotFound(err, apperr.CodeProductNotFound, "product not found")
	}
	return p, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]model.Product, error) {
	docs, err := r.Store.List(ctx, store.Products)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return store.DecodeAll[model.Product](docs)
}

// Save normaliza, gera ID quando vazio e marca as datas.
func (r *ProductRepository) Save(ctx context.Context, p *model.Product) error {
	p.Normalize()
	if p.Name == "" && p.NameAr == "" {
		return apperr.New(apperr.CodeProductInvalid, apperr.ErrInvalid, "product needs a name")
	}
	if p.Price < 0 || p.SalePrice < 0 {
		return apperr.New(apperr.CodeProductInvalid, apperr.ErrInvalid, "price must not be negative")
	}
	t := now(r.Now)
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = t
	}
	p.UpdatedAt = t
	if err := r.Store.Put(ctx, store.Products, p.ID, p); err != nil {
		return fmt.Errorf("save product %s: %w", p.ID, err)
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	if err := r.Store.Delete(ctx, store.Products, id); err != nil {
		return wrapNotFound(err, apperr.CodeProductNotFound, "product not found")
	}
	return nil
}

// AdjustStock soma delta ao estoque; estoque negativo é recusado.
func (r *ProductRepository) AdjustStock(ctx context.Context, id string, delta int) (model.Product, error) {
	p, err := r.Get(ctx, id)
	if err != nil {
		return model.Product{}, err
	}
	if p.Stock+delta < 0 {
		return model.Product{}, apperr.New(apperr.CodeOutOfStock, apperr.ErrConflict,
			fmt.Sprintf("not enough stock for %s", p.ID))
	}
	p.Stock += delta
	if err := r.Save(ctx, &p); err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func wrapNotFound(err error, code apperr.Code, msg string) error {
	if apperr.CodeOf(err) == apperr.CodeNotFound {
		return apperr.New(code, err, msg)
	}
	return err
}
