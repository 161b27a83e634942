package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"souq/internal/apperr"
	"souq/internal/model"
)

type products map[string]model.Product

func (p products) Get(_ context.Context, id string) (model.Product, error) {
	if pr, ok := p[id]; ok {
		return pr, nil
	}
	return model.Product{}, apperr.New(apperr.CodeProductNotFound, apperr.ErrNotFound, "product not found")
}

func newCarts() *Carts {
	return &Carts{
		Backend: NewMemory(),
		Products: products{
			"p1": {ID: "p1", Stock: 5},
			"p2": {ID: "p2", Stock: 0},
			"p3": {ID: "p3", Stock: 2},
		},
	}
}

// readOnly aceita leituras e recusa qualquer escrita.
type readOnly struct{ Backend }

func (readOnly) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("read-only replica")
}

func TestCarts_GetLogsFailedRefresh(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	seed := &Carts{Backend: mem, Products: products{"p1": {ID: "p1", Stock: 5}}}
	_, err := seed.Add(ctx, "s1", "p1", 2)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	c := &Carts{Backend: readOnly{mem}, Logger: zap.New(core)}
	cart, err := c.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	entries := logs.FilterMessage("refresh cart ttl failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "s1", entries[0].ContextMap()["session_id"])
}

func TestCarts_AddMergesAndClamps(t *testing.T) {
	ctx := context.Background()
	c := newCarts()

	cart, err := c.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	_, err = c.Add(ctx, "s1", "p1", 2)
	require.NoError(t, err)
	cart, err = c.Add(ctx, "s1", "p1", 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 4, cart.Items[0].Quantity)

	cart, err = c.Add(ctx, "s1", "p1", 10)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	cart, err = c.Add(ctx, "s1", "p3", 0)
	require.NoError(t, err)
	assert.Equal(t, 6, cart.Count())
}

func TestCarts_AddRejectsOutOfStockAndUnknown(t *testing.T) {
	ctx := context.Background()
	c := newCarts()

	_, err := c.Add(ctx, "s1", "p2", 1)
	assert.Equal(t, apperr.CodeOutOfStock, apperr.CodeOf(err))

	_, err = c.Add(ctx, "s1", "nope", 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = c.Add(ctx, "", "p1", 1)
	assert.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestCarts_UpdateRemoveClear(t *testing.T) {
	ctx := context.Background()
	c := newCarts()

	_, err := c.Add(ctx, "s1", "p1", 1)
	require.NoError(t, err)
	_, err = c.Add(ctx, "s1", "p3", 1)
	require.NoError(t, err)

	cart, err := c.Update(ctx, "s1", "p3", 9)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Items[1].Quantity)

	cart, err = c.Update(ctx, "s1", "p1", 0)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "p3", cart.Items[0].ProductID)

	_, err = c.Update(ctx, "s1", "p1", 3)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	cart, err = c.Remove(ctx, "s1", "p3")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	_, err = c.Add(ctx, "s1", "p1", 1)
	require.NoError(t, err)
	require.NoError(t, c.Clear(ctx, "s1"))
	cart, err = c.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCarts_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	c := newCarts()

	_, err := c.Add(ctx, "a", "p1", 1)
	require.NoError(t, err)
	cart, err := c.Get(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestMemoryBackend_Expires(t *testing.T) {
	ctx := context.Background()
	b := NewMemory()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	require.NoError(t, b.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	now = now.Add(2 * time.Minute)
	_, err = b.Get(ctx, "k")
	assert.ErrorIs(t, err, errMiss)

	require.NoError(t, b.Set(ctx, "forever", []byte("x"), 0))
	now = now.Add(24 * time.Hour)
	_, err = b.Get(ctx, "forever")
	assert.NoError(t, err)
}

func TestWishlists_Toggle(t *testing.T) {
	ctx := context.Background()
	w := &Wishlists{Backend: NewMemory()}

	list, added, err := w.Toggle(ctx, "s1", "p1")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, []string{"p1"}, list.ProductIDs)

	_, _, err = w.Toggle(ctx, "s1", "p2")
	require.NoError(t, err)

	list, added, err = w.Toggle(ctx, "s1", "p1")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, []string{"p2"}, list.ProductIDs)

	list, err = w.Remove(ctx, "s1", "p2")
	require.NoError(t, err)
	assert.Empty(t, list.ProductIDs)

	_, _, err = w.Toggle(ctx, "s1", "p9")
	require.NoError(t, err)
	require.NoError(t, w.Clear(ctx, "s1"))
	list, err = w.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, list.ProductIDs)
}
