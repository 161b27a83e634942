// Package store é a fachada de persistência de documentos. O mesmo contrato é
// atendido pelo arquivo local (substituto do localStorage), pelo Postgres
// (JSONB) e pelo MongoDB.
package store

import (
	"context"
	"encoding/json"
)

const (
	Products = "products"
	Orders   = "orders"
	Users    = "users"
	Reviews  = "reviews"
)

// Store guarda documentos JSON por coleção e ID. Documentos ausentes
// retornam apperr.ErrNotFound.
type Store interface {
	Get(ctx context.Context, collection, id string, out any) error
	Put(ctx context.Context, collection, id string, doc any) error
	Delete(ctx context.Context, collection, id string) error
	List(ctx context.Context, collection string) ([]json.RawMessage, error)
	Close() error
}

// DecodeAll converte o resultado de List para uma fatia tipada.
func DecodeAll[T any](docs []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		var v T
		if err := json.Unmarshal(d, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
