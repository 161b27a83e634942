package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/xrash/smetrics"

	"souq/internal/model"
)

// fuzzyThreshold é o mínimo de Jaro-Winkler entre o termo e uma palavra do nome.
const fuzzyThreshold = 0.85

func Filter(products []model.Product, q Query) []model.Product {
	category := model.NormalizeCategory(q.Category)
	subcategory := model.NormalizeCategory(q.Subcategory)
	brands := make(map[string]bool, len(q.Brands))
	for _, b := range q.Brands {
		if b = strings.ToLower(strings.TrimSpace(b)); b != "" {
			brands[b] = true
		}
	}
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if category != "" && model.NormalizeCategory(p.Category) != category {
			continue
		}
		if subcategory != "" && model.NormalizeCategory(p.Subcategory) != subcategory {
			continue
		}
		if len(brands) > 0 && !brands[strings.ToLower(strings.TrimSpace(p.Brand))] {
			continue
		}
		price := p.EffectivePrice()
		if q.MinPrice > 0 && price < q.MinPrice {
			continue
		}
		if q.MaxPrice > 0 && price > q.MaxPrice {
			continue
		}
		if q.InStock && p.Stock <= 0 {
			continue
		}
		if q.OnSale && !p.OnSale() {
			continue
		}
		if q.Featured && !p.Featured {
			continue
		}
		if q.MinRating > 0 && p.Rating < q.MinRating {
			continue
		}
		if search != "" && !Matches(p, search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Matches aceita o produto quando o termo aparece em nome, descrição ou marca
// (inglês ou árabe) ou quando alguma palavra do nome é parecida o bastante
// com o termo, para tolerar erros de digitação.
func Matches(p model.Product, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	fields := []string{p.Name, p.NameAr, p.Description, p.DescriptionAr, p.Brand}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}

	// smetrics compara bytes, então a aproximação só vale para texto latino.
	// Termos em árabe dependem da busca por substring acima.
	words := append(strings.Fields(strings.ToLower(p.Name)), strings.ToLower(p.Brand))
	for _, qw := range strings.Fields(term) {
		if len(qw) < 3 || !isASCII(qw) {
			continue
		}
		for _, w := range words {
			if w == "" || !isASCII(w) {
				continue
			}
			if smetrics.JaroWinkler(qw, w, 0.7, 4) >= fuzzyThreshold {
				return true
			}
		}
	}
	return false
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
