package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"souq/internal/apperr"
	"souq/internal/config"
	"souq/internal/model"
	"souq/internal/observability"
	"souq/internal/store"
)

func TestOpen_LocalBackendIsInstrumented(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{StorageBackend: config.BackendLocal, LocalStorePath: filepath.Join(t.TempDir(), "s.json")}

	s, err := store.Open(ctx, cfg, nil)
	require.NoError(t, err)
	defer s.Close()

	before := testutil.ToFloat64(observability.StorageOps.WithLabelValues("local", "get", "not_found"))
	var p model.Product
	err = s.Get(ctx, store.Products, "nope", &p)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	after := testutil.ToFloat64(observability.StorageOps.WithLabelValues("local", "get", "not_found"))
	assert.Equal(t, before+1, after)
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := store.Open(context.Background(), &config.Config{StorageBackend: "firebase"}, nil)
	assert.Error(t, err)
}

func TestDecodeAll(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{StorageBackend: config.BackendLocal, LocalStorePath: filepath.Join(t.TempDir(), "s.json")}
	s, err := store.Open(ctx, cfg, nil)
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, store.Products, "p1", model.Product{ID: "p1", Name: "Kettle"}))
	require.NoError(t, s.Put(ctx, store.Products, "p2", model.Product{ID: "p2", Name: "Blender"}))

	docs, err := s.List(ctx, store.Products)
	require.NoError(t, err)
	products, err := store.DecodeAll[model.Product](docs)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Kettle", products[0].Name)
}
