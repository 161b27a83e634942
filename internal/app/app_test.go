package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"souq/internal/config"
	"souq/internal/model"
)

func TestNew_LocalBackend(t *testing.T) {
	cfg := &config.Config{
		StorageBackend: config.BackendLocal,
		LocalStorePath: filepath.Join(t.TempDir(), "store.json"),
		JWTSecret:      "test",
		DefaultLang:    "en",
	}
	ctx := context.Background()
	a, err := New(ctx, cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Admin.Uploader)
	require.NoError(t, a.Products.Save(ctx, &model.Product{ID: "kettle", Name: "Kettle", Price: 10}))

	rec := httptest.NewRecorder()
	a.Server().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/kettle", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "en", rec.Header().Get("Content-Language"))
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(context.Background(), &config.Config{StorageBackend: "sqlite"}, nil)
	assert.Error(t, err)
}
