package importer

import (
	"strings"

	"souq/internal/model"
	"souq/internal/sanitize"
)

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...float64) float64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

// ToProduct converte o item do feed. A descrição longa tem prioridade e chega
// ao catálogo já sem HTML.
func ToProduct(p FeedProduct) model.Product {
	out := model.Product{
		ID:            strings.TrimSpace(p.ID),
		Name:          firstNonEmpty(p.Name, p.DisplayName),
		NameAr:        strings.TrimSpace(p.NameAr),
		Description:   sanitize.Text(firstNonEmpty(p.LongDesc, p.Description)),
		DescriptionAr: sanitize.Text(p.DescriptionAr),
		Price:         firstPositive(p.Price, p.ListPrice),
		SalePrice:     firstPositive(p.SalePriceAlt, p.SalePrice),
		Category:      p.Category,
		Subcategory:   p.Subcategory,
		Brand:         strings.TrimSpace(p.Brand),
		Stock:         p.Stock,
		Featured:      p.Featured,
	}
	if out.Stock < 0 {
		out.Stock = 0
	}
	if img := strings.TrimSpace(p.PrimaryImg); img != "" {
		out.Images = append(out.Images, img)
	}
	for _, img := range p.Images {
		if img = strings.TrimSpace(img); img != "" && img != p.PrimaryImg {
			out.Images = append(out.Images, img)
		}
	}
	return out
}
