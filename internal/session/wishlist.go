package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"souq/internal/model"
)

type Wishlists struct {
	Backend Backend
	// TTL da lista de desejos; zero mantém sem expiração
	TTL time.Duration
}

func wishlistKey(sessionID string) string { return "wishlist:" + sessionID }

func (w *Wishlists) Get(ctx context.Context, sessionID string) (model.Wishlist, error) {
	if err := validSession(sessionID); err != nil {
		return model.Wishlist{}, err
	}
	list := model.Wishlist{SessionID: sessionID, ProductIDs: []string{}}
	raw, err := w.Backend.Get(ctx, wishlistKey(sessionID))
	if errors.Is(err, errMiss) {
		return list, nil
	}
	if err != nil {
		return model.Wishlist{}, fmt.Errorf("load wishlist: %w", err)
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		return model.Wishlist{}, fmt.Errorf("decode wishlist: %w", err)
	}
	if list.ProductIDs == nil {
		list.ProductIDs = []string{}
	}
	return list, nil
}

func (w *Wishlists) save(ctx context.Context, list model.Wishlist) (model.Wishlist, error) {
	list.UpdatedAt = time.Now().UTC()
	b, err := json.Marshal(list)
	if err != nil {
		return model.Wishlist{}, fmt.Errorf("encode wishlist: %w", err)
	}
	if err := w.Backend.Set(ctx, wishlistKey(list.SessionID), b, w.TTL); err != nil {
		return model.Wishlist{}, fmt.Errorf("store wishlist: %w", err)
	}
	return list, nil
}

// Toggle adiciona o produto se ausente ou remove se presente.
func (w *Wishlists) Toggle(ctx context.Context, sessionID, productID string) (model.Wishlist, bool, error) {
	list, err := w.Get(ctx, sessionID)
	if err != nil {
		return model.Wishlist{}, false, err
	}
	if list.Has(productID) {
		list, err = w.save(ctx, without(list, productID))
		return list, false, err
	}
	list.ProductIDs = append(list.ProductIDs, productID)
	list, err = w.save(ctx, list)
	return list, true, err
}

func (w *Wishlists) Remove(ctx context.Context, sessionID, productID string) (model.Wishlist, error) {
	list, err := w.Get(ctx, sessionID)
	if err != nil {
		return model.Wishlist{}, err
	}
	return w.save(ctx, without(list, productID))
}

func (w *Wishlists) Clear(ctx context.Context, sessionID string) error {
	if err := validSession(sessionID); err != nil {
		return err
	}
	return w.Backend.Delete(ctx, wishlistKey(sessionID))
}

func without(list model.Wishlist, productID string) model.Wishlist {
	ids := make([]string, 0, len(list.ProductIDs))
	for _, id := range list.ProductIDs {
		if id != productID {
			ids = append(ids, id)
		}
	}
	list.ProductIDs = ids
	return list
}
