package catalog

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"souq/internal/model"
)

var base = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func fixtures() []model.Product {
	return []model.Product{
		{ID: "p1", Name: "Electric Kettle", NameAr: "غلاية كهربائية", Brand: "Philips", Category: "Home Appliances", Subcategory: "kitchen", Price: 120, Stock: 5, Rating: 4.5, ReviewCount: 10, CreatedAt: base},
		{ID: "p2", Name: "Smart Phone X", NameAr: "هاتف ذكي", Brand: "Samsung", Category: "electronics", Subcategory: "phones", Price: 2500, SalePrice: 2200, Stock: 0, Rating: 4.8, ReviewCount: 50, CreatedAt: base.Add(48 * time.Hour)},
		{ID: "p3", Name: "Laptop Pro", NameAr: "حاسوب محمول", Brand: "Lenovo", Category: "Electronics", Subcategory: "laptops", Price: 4000, Stock: 2, Rating: 4.2, ReviewCount: 7, Featured: true, CreatedAt: base.Add(24 * time.Hour)},
		{ID: "p4", Name: "Blender", NameAr: "خلاط", Brand: "philips", Category: "home_appliances", Subcategory: "Kitchen", Price: 300, SalePrice: 250, Stock: 9, Rating: 3.9, ReviewCount: 3, CreatedAt: base.Add(72 * time.Hour)},
	}
}

func ids(ps []model.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	products := fixtures()

	cases := []struct {
		name string
		q    Query
		want []string
	}{
		{"no filters", Query{}, []string{"p1", "p2", "p3", "p4"}},
		{"category normalized", Query{Category: "HOME appliances"}, []string{"p1", "p4"}},
		{"subcategory", Query{Category: "electronics", Subcategory: "Phones"}, []string{"p2"}},
		{"brand case-insensitive", Query{Brands: []string{"PHILIPS"}}, []string{"p1", "p4"}},
		{"price range uses sale price", Query{MinPrice: 200, MaxPrice: 2300}, []string{"p2", "p4"}},
		{"in stock", Query{InStock: true, Category: "electronics"}, []string{"p3"}},
		{"on sale", Query{OnSale: true}, []string{"p2", "p4"}},
		{"featured", Query{Featured: true}, []string{"p3"}},
		{"min rating", Query{MinRating: 4.5}, []string{"p1", "p2"}},
		{"search english substring", Query{Search: "laptop"}, []string{"p3"}},
		{"search arabic", Query{Search: "غلاية"}, []string{"p1"}},
		{"search brand", Query{Search: "samsung"}, []string{"p2"}},
		{"search typo", Query{Search: "ketle"}, []string{"p1"}},
		{"search miss", Query{Search: "zzzz"}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(Filter(products, tc.q)))
		})
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	products := fixtures()
	_ = List(products, Query{Sort: SortPriceDesc, Category: "electronics"})
	assert.Equal(t, fixtures(), products)
}

func TestSortProducts(t *testing.T) {
	products := fixtures()

	cases := []struct {
		key  string
		lang string
		want []string
	}{
		{SortNewest, "", []string{"p4", "p2", "p3", "p1"}},
		{"", "", []string{"p4", "p2", "p3", "p1"}},
		{"bogus", "", []string{"p4", "p2", "p3", "p1"}},
		{SortPriceAsc, "", []string{"p1", "p4", "p2", "p3"}},
		{SortPriceDesc, "", []string{"p3", "p2", "p4", "p1"}},
		{SortName, "en", []string{"p4", "p1", "p3", "p2"}},
		{SortRating, "", []string{"p2", "p1", "p3", "p4"}},
		{SortPopular, "", []string{"p2", "p1", "p3", "p4"}},
	}
	for _, tc := range cases {
		t.Run(tc.key+"/"+tc.lang, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(SortProducts(products, tc.key, tc.lang)))
		})
	}
}

func TestSortProducts_TiesBrokenByID(t *testing.T) {
	products := []model.Product{
		{ID: "b", Price: 10, CreatedAt: base},
		{ID: "a", Price: 10, CreatedAt: base},
		{ID: "c", Price: 10, CreatedAt: base},
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids(SortProducts(products, SortPriceAsc, "")))
	assert.Equal(t, []string{"a", "b", "c"}, ids(SortProducts(products, SortNewest, "")))
}

func TestPaginate(t *testing.T) {
	products := make([]model.Product, 25)
	for i := range products {
		products[i] = model.Product{ID: string(rune('a' + i))}
	}

	p := Paginate(products, 1, 10)
	assert.Len(t, p.Items, 10)
	assert.Equal(t, 25, p.Total)
	assert.Equal(t, 3, p.TotalPages)

	p = Paginate(products, 3, 10)
	assert.Len(t, p.Items, 5)
	assert.Equal(t, "u", p.Items[0].ID)

	p = Paginate(products, 9, 10)
	assert.Empty(t, p.Items)
	assert.NotNil(t, p.Items)
	assert.Equal(t, 9, p.Page)
	assert.Equal(t, 3, p.TotalPages)

	p = Paginate(products, 0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)

	p = Paginate(products, 1, 1000)
	assert.Equal(t, MaxPageSize, p.PageSize)
	assert.Len(t, p.Items, 25)

	p = Paginate(nil, 1, 10)
	assert.Equal(t, 0, p.TotalPages)
	assert.Empty(t, p.Items)
}

func TestPaginate_HugePageIsEmpty(t *testing.T) {
	ps := fixtures()
	var p Page
	require.NotPanics(t, func() { p = Paginate(ps, math.MaxInt64/50, 100) })
	assert.Empty(t, p.Items)
	assert.NotNil(t, p.Items)
	assert.Equal(t, len(ps), p.Total)

	require.NotPanics(t, func() { p = Paginate(ps, math.MaxInt64, MaxPageSize) })
	assert.Empty(t, p.Items)
}

func TestList(t *testing.T) {
	page := List(fixtures(), Query{Category: "electronics", Sort: SortPriceAsc, PageSize: 1, Page: 2})
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, []string{"p3"}, ids(page.Items))
}

func TestBuildFacets(t *testing.T) {
	f := BuildFacets(fixtures())
	require.Len(t, f.Categories, 2)
	assert.Equal(t, "electronics", f.Categories[0].Name)
	assert.Equal(t, 2, f.Categories[0].Count)
	assert.Equal(t, []string{"laptops", "phones"}, f.Categories[0].Subcategories)
	assert.Equal(t, "home-appliances", f.Categories[1].Name)
	assert.Equal(t, []string{"kitchen"}, f.Categories[1].Subcategories)
	assert.Len(t, f.Brands, 3)
	assert.Equal(t, 120.0, f.MinPrice)
	assert.Equal(t, 4000.0, f.MaxPrice)

	empty := BuildFacets(nil)
	assert.Equal(t, 0.0, empty.MinPrice)
	assert.Empty(t, empty.Categories)
}

func TestRelated(t *testing.T) {
	products := fixtures()
	rel := Related(products, products[1], 5)
	assert.Equal(t, []string{"p3"}, ids(rel))
	assert.Empty(t, Related(products, products[1], 0))
}

type fakeRepo struct {
	mu       sync.Mutex
	products []model.Product
	saved    map[string]model.Product
	failOn   string
}

func (f *fakeRepo) List(context.Context) ([]model.Product, error) { return f.products, nil }

func (f *fakeRepo) Save(_ context.Context, p *model.Product) error {
	if p.ID == f.failOn {
		return errors.New("disk full")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saved == nil {
		f.saved = map[string]model.Product{}
	}
	f.saved[p.ID] = *p
	return nil
}

func TestRenormalize(t *testing.T) {
	repo := &fakeRepo{products: fixtures()}
	n, err := Renormalize(context.Background(), repo, 3, nil)
	require.NoError(t, err)
	// p1 em "Home Appliances", p3 em "Electronics", p4 em "home_appliances" / "Kitchen"
	assert.Equal(t, 3, n)
	assert.Equal(t, "home-appliances", repo.saved["p1"].Category)
	assert.Equal(t, "kitchen", repo.saved["p4"].Subcategory)
	_, touched := repo.saved["p2"]
	assert.False(t, touched)
}

func TestRenormalize_PropagatesErrors(t *testing.T) {
	repo := &fakeRepo{products: fixtures(), failOn: "p3"}
	_, err := Renormalize(context.Background(), repo, 2, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "p3")
}
