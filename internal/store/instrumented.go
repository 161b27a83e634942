package store

import (
	"context"
	"encoding/json"
	"errors"

	"souq/internal/apperr"
	"souq/internal/observability"
)

type instrumented struct {
	next    Store
	backend string
}

// Instrument conta cada operação por backend, operação e resultado.
func Instrument(s Store, backend string) Store {
	return &instrumented{next: s, backend: backend}
}

func (s *instrumented) observe(op string, err error) {
	result := "ok"
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	observability.StorageOps.WithLabelValues(s.backend, op, result).Inc()
}

func (s *instrumented) Get(ctx context.Context, collection, id string, out any) error {
	err := s.next.Get(ctx, collection, id, out)
	s.observe("get", err)
	return err
}

func (s *instrumented) Put(ctx context.Context, collection, id string, doc any) error {
	err := s.next.Put(ctx, collection, id, doc)
	s.observe("put", err)
	return err
}

func (s *instrumented) Delete(ctx context.Context, collection, id string) error {
	err := s.next.Delete(ctx, collection, id)
	s.observe("delete", err)
	return err
}

func (s *instrumented) List(ctx context.Context, collection string) ([]json.RawMessage, error) {
	docs, err := s.next.List(ctx, collection)
	s.observe("list", err)
	return docs, err
}

func (s *instrumented) Close() error { return s.next.Close() }
