package catalog

import (
	"math"
	"sort"
	"strings"

	"souq/internal/model"
)

type CategoryFacet struct {
	Name          string   `json:"name"`
	Count         int      `json:"count"`
	Subcategories []string `json:"subcategories,omitempty"`
}

type Facets struct {
	Categories []CategoryFacet `json:"categories"`
	Brands     []string        `json:"brands"`
	MinPrice   float64         `json:"min_price"`
	MaxPrice   float64         `json:"max_price"`
}

// BuildFacets resume categorias, marcas e faixa de preço para os filtros laterais.
func BuildFacets(products []model.Product) Facets {
	type acc struct {
		count int
		subs  map[string]bool
	}
	cats := map[string]*acc{}
	brands := map[string]string{}
	minP, maxP := math.MaxFloat64, 0.0

	for _, p := range products {
		c := model.NormalizeCategory(p.Category)
		if c != "" {
			a, ok := cats[c]
			if !ok {
				a = &acc{subs: map[string]bool{}}
				cats[c] = a
			}
			a.count++
			if s := model.NormalizeCategory(p.Subcategory); s != "" {
				a.subs[s] = true
			}
		}
		if b := strings.TrimSpace(p.Brand); b != "" {
			brands[strings.ToLower(b)] = b
		}
		price := p.EffectivePrice()
		if price < minP {
			minP = price
		}
		if price > maxP {
			maxP = price
		}
	}
	if len(products) == 0 {
		minP = 0
	}

	f := Facets{Categories: []CategoryFacet{}, Brands: []string{}, MinPrice: minP, MaxPrice: maxP}
	for name, a := range cats {
		cf := CategoryFacet{Name: name, Count: a.count}
		for s := range a.subs {
			cf.Subcategories = append(cf.Subcategories, s)
		}
		sort.Strings(cf.Subcategories)
		f.Categories = append(f.Categories, cf)
	}
	sort.Slice(f.Categories, func(i, j int) bool { return f.Categories[i].Name < f.Categories[j].Name })
	for _, b := range brands {
		f.Brands = append(f.Brands, b)
	}
	sort.Strings(f.Brands)
	return f
}

// Related devolve até n produtos da mesma categoria, melhores avaliados primeiro.
func Related(products []model.Product, p model.Product, n int) []model.Product {
	if n <= 0 {
		return []model.Product{}
	}
	same := Filter(products, Query{Category: p.Category})
	others := make([]model.Product, 0, len(same))
	for _, c := range same {
		if c.ID != p.ID {
			others = append(others, c)
		}
	}
	others = SortProducts(others, SortRating, "")
	if len(others) > n {
		others = others[:n]
	}
	return others
}
