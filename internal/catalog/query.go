// Package catalog implementa a listagem da vitrine: filtro, ordenação e
// paginação sobre uma fatia de produtos em memória. Nenhuma função altera a
// fatia recebida.
package catalog

import "strings"

const (
	SortNewest    = "newest"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortName      = "name"
	SortRating    = "rating"
	SortPopular   = "popular"

	DefaultPageSize = 12
	MaxPageSize     = 100
)

type Query struct {
	Search      string
	Category    string
	Subcategory string
	Brands      []string
	MinPrice    float64 // 0 = sem limite
	MaxPrice    float64 // 0 = sem limite
	InStock     bool
	OnSale      bool
	Featured    bool
	MinRating   float64
	Sort        string
	Page        int
	PageSize    int
	Lang        string
}

func validSort(s string) bool {
	switch s {
	case SortNewest, SortPriceAsc, SortPriceDesc, SortName, SortRating, SortPopular:
		return true
	}
	return false
}

// SortKey devolve a chave de ordenação normalizada; valores desconhecidos viram "newest".
func SortKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if validSort(s) {
		return s
	}
	return SortNewest
}
