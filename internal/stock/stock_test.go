package stock

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"souq/internal/model"
)

func TestClient_Level(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k1", r.Header.Get("x-Gateway-APIKey"))
		switch strings.TrimPrefix(r.URL.Path, "/stock/") {
		case "kettle":
			fmt.Fprint(w, `{"success":true,"result":{"id":"kettle","stockLevelTotal":10,"totalReserved":3}}`)
		case "oversold":
			fmt.Fprint(w, `{"success":true,"result":{"id":"oversold","stockLevelTotal":1,"totalReserved":4}}`)
		case "broken":
			fmt.Fprint(w, `{"success":false,"errors":["boom"]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := &Client{URL: srv.URL + "/stock/", APIKey: "k1"}
	ctx := context.Background()

	n, err := c.Level(ctx, "kettle")
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = c.Level(ctx, "oversold")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = c.Level(ctx, "broken")
	assert.Error(t, err)
	_, err = c.Level(ctx, "ghost")
	assert.ErrorContains(t, err, "404")
}

type fakeLevels map[string]int

func (f fakeLevels) Level(_ context.Context, id string) (int, error) {
	n, ok := f[id]
	if !ok {
		return 0, fmt.Errorf("no stock for %s", id)
	}
	return n, nil
}

type fakeCatalog struct {
	mu       sync.Mutex
	products []model.Product
	saved    map[string]int
}

func (f *fakeCatalog) List(context.Context) ([]model.Product, error) { return f.products, nil }

func (f *fakeCatalog) Save(_ context.Context, p *model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved[p.ID] = p.Stock
	return nil
}

func TestSync(t *testing.T) {
	repo := &fakeCatalog{
		products: []model.Product{
			{ID: "a", Stock: 1},
			{ID: "b", Stock: 5},
			{ID: "c", Stock: 2},
		},
		saved: map[string]int{},
	}
	res, err := Sync(context.Background(), repo, fakeLevels{"a": 4, "b": 5}, 3, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, Result{Checked: 3, Updated: 1, Failed: 1}, res)
	assert.Equal(t, map[string]int{"a": 4}, repo.saved)
}
