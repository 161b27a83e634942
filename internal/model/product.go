package model

import (
	"strings"
	"time"
)

type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	NameAr        string    `json:"name_ar,omitempty"`
	Description   string    `json:"description,omitempty"`
	DescriptionAr string    `json:"description_ar,omitempty"`
	Price         float64   `json:"price"`
	SalePrice     float64   `json:"sale_price,omitempty"` // 0 = sem promoção
	Category      string    `json:"category"`
	Subcategory   string    `json:"subcategory,omitempty"`
	Brand         string    `json:"brand,omitempty"`
	Images        []string  `json:"images,omitempty"`
	Stock         int       `json:"stock"`
	Rating        float64   `json:"rating"`
	ReviewCount   int       `json:"review_count"`
	Featured      bool      `json:"featured,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NormalizeCategory deixa categorias comparáveis: "  Home  Appliances" e
// "home_appliances" viram "home-appliances". Texto árabe passa inalterado
// exceto pelos espaços.
func NormalizeCategory(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), "-")
}

func (p *Product) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.NameAr = strings.TrimSpace(p.NameAr)
	p.Brand = strings.TrimSpace(p.Brand)
	p.Category = NormalizeCategory(p.Category)
	p.Subcategory = NormalizeCategory(p.Subcategory)
	if p.Stock < 0 {
		p.Stock = 0
	}
}

// NeedsNormalize indica se Normalize alteraria o produto.
func (p Product) NeedsNormalize() bool {
	n := p
	n.Normalize()
	return n.Name != p.Name || n.NameAr != p.NameAr || n.Brand != p.Brand ||
		n.Category != p.Category || n.Subcategory != p.Subcategory || n.Stock != p.Stock
}

func (p Product) OnSale() bool {
	return p.SalePrice > 0 && p.SalePrice < p.Price
}

func (p Product) EffectivePrice() float64 {
	if p.OnSale() {
		return p.SalePrice
	}
	return p.Price
}

func (p Product) LocalizedName(lang string) string {
	return pick(lang, p.Name, p.NameAr)
}

func (p Product) LocalizedDescription(lang string) string {
	return pick(lang, p.Description, p.DescriptionAr)
}

func pick(lang, en, ar string) string {
	if lang == "ar" {
		if ar != "" {
			return ar
		}
		return en
	}
	if en != "" {
		return en
	}
	return ar
}
