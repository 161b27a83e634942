package repository

import (
	"context"
	"fmt"
	"sort"

	"souq/internal/model"
	"souq/internal/store"
)

type ReviewRepository struct {
	Store store.Store
}

// ListByProduct devolve as avaliações do produto, mais recentes primeiro.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string) ([]model.Review, error) {
	docs, err := r.Store.List(ctx, store.Reviews)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	all, err := store.DecodeAll[model.Review](docs)
	if err != nil {
		return nil, err
	}
	out := []model.Review{}
	for _, rv := range all {
		if rv.ProductID == productID {
			out = append(out, rv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ReviewID é determinístico: uma avaliação por usuário e produto.
func ReviewID(productID, userID string) string {
	return productID + ":" + userID
}

func (r *ReviewRepository) Save(ctx context.Context, rv *model.Review) error {
	if rv.ID == "" {
		rv.ID = ReviewID(rv.ProductID, rv.UserID)
	}
	if err := r.Store.Put(ctx, store.Reviews, rv.ID, rv); err != nil {
		return fmt.Errorf("save review %s: %w", rv.ID, err)
	}
	return nil
}
