package importer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"souq/internal/model"
)

type memSaver struct {
	saved []model.Product
}

func (m *memSaver) Save(_ context.Context, p *model.Product) error {
	if p.Name == "" {
		return errors.New("product needs a name")
	}
	m.saved = append(m.saved, *p)
	return nil
}

func TestToProduct(t *testing.T) {
	p := ToProduct(FeedProduct{
		ID:          " ac-9000 ",
		DisplayName: "Split AC 9000 BTU",
		LongDesc:    "<p>Inverter</p><p>Quiet</p>",
		Description: "short",
		ListPrice:   1500,
		SalePrice:   1299,
		Stock:       -2,
		PrimaryImg:  "/img/ac.jpg",
		Images:      []string{"/img/ac.jpg", " /img/ac-side.jpg "},
	})
	assert.Equal(t, "ac-9000", p.ID)
	assert.Equal(t, "Split AC 9000 BTU", p.Name)
	assert.Equal(t, "Inverter\nQuiet", p.Description)
	assert.Equal(t, 1500.0, p.Price)
	assert.Equal(t, 1299.0, p.SalePrice)
	assert.Zero(t, p.Stock)
	assert.Equal(t, []string{"/img/ac.jpg", "/img/ac-side.jpg"}, p.Images)
}

func TestDecode(t *testing.T) {
	items, err := Decode(strings.NewReader(`[{"id":"a","name":"A","price":10}]`))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 10.0, items[0].Price)

	items, err = Decode(strings.NewReader(`{"items":[{"id":"a"},{"id":"b"}]}`))
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = Decode(strings.NewReader(`not json`))
	assert.Error(t, err)
}

func TestFromReader_SkipsInvalid(t *testing.T) {
	saver := &memSaver{}
	im := &Importer{Products: saver}

	res, err := im.FromReader(context.Background(), strings.NewReader(
		`[{"id":"a","name":"Kettle","price":120,"category":"Kitchen"},{"id":"b"}]`))
	require.NoError(t, err)
	assert.Equal(t, Result{Imported: 1, Skipped: 1}, res)
	assert.Equal(t, "Kitchen", saver.saved[0].Category)
}

func TestFromURL_FollowsNextLinks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/feed", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "":
			fmt.Fprint(w, `{"items":[{"id":"1","displayName":"One"}],"links":[{"rel":"next","href":"/feed?page=2"}]}`)
		case "2":
			fmt.Fprint(w, `{"items":[{"id":"2","displayName":"Two"},{"id":"3","displayName":"Three"}],"links":[{"rel":"self","href":"/feed?page=2"}]}`)
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	saver := &memSaver{}
	im := &Importer{Products: saver}
	res, err := im.FromURL(context.Background(), srv.URL+"/feed")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Imported)
	assert.Equal(t, "Three", saver.saved[2].Name)
}

func TestFromURL_Errors(t *testing.T) {
	loop := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[],"links":[{"rel":"next","href":"/"}]}`)
	}))
	defer loop.Close()
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	im := &Importer{Products: &memSaver{}}

	_, err := im.FromURL(context.Background(), loop.URL+"/")
	assert.ErrorContains(t, err, "loop")

	_, err = im.FromURL(context.Background(), down.URL)
	assert.ErrorContains(t, err, "status 503")
}
