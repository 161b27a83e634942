package catalog

import (
	"sort"
	"strings"

	"souq/internal/model"
)

// SortProducts devolve uma cópia ordenada. Empates são resolvidos pelo ID para
// que a paginação seja determinística.
func SortProducts(products []model.Product, key, lang string) []model.Product {
	out := make([]model.Product, len(products))
	copy(out, products)

	var less func(a, b model.Product) (bool, bool)
	switch SortKey(key) {
	case SortPriceAsc:
		less = func(a, b model.Product) (bool, bool) {
			pa, pb := a.EffectivePrice(), b.EffectivePrice()
			return pa < pb, pa == pb
		}
	case SortPriceDesc:
		less = func(a, b model.Product) (bool, bool) {
			pa, pb := a.EffectivePrice(), b.EffectivePrice()
			return pa > pb, pa == pb
		}
	case SortName:
		less = func(a, b model.Product) (bool, bool) {
			na := strings.ToLower(a.LocalizedName(lang))
			nb := strings.ToLower(b.LocalizedName(lang))
			return na < nb, na == nb
		}
	case SortRating:
		less = func(a, b model.Product) (bool, bool) {
			if a.Rating != b.Rating {
				return a.Rating > b.Rating, false
			}
			return a.ReviewCount > b.ReviewCount, a.ReviewCount == b.ReviewCount
		}
	case SortPopular:
		less = func(a, b model.Product) (bool, bool) {
			return a.ReviewCount > b.ReviewCount, a.ReviewCount == b.ReviewCount
		}
	default:
		less = func(a, b model.Product) (bool, bool) {
			return a.CreatedAt.After(b.CreatedAt), a.CreatedAt.Equal(b.CreatedAt)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		lt, eq := less(out[i], out[j])
		if eq {
			return out[i].ID < out[j].ID
		}
		return lt
	})
	return out
}
