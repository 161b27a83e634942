package catalog

import "souq/internal/model"

type Page struct {
	Items      []model.Product `json:"items"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	Total      int             `json:"total"`
	TotalPages int             `json:"total_pages"`
}

func Paginate(products []model.Product, page, size int) Page {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	total := len(products)
	totalPages := (total + size - 1) / size

	res := Page{Items: []model.Product{}, Page: page, PageSize: size, Total: total, TotalPages: totalPages}
	// compara antes de multiplicar: page vem da query e pode estourar int
	if page > totalPages {
		return res
	}
	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	res.Items = append(res.Items, products[start:end]...)
	return res
}

// List é o pipeline completo da página da loja: filtra, ordena e pagina.
func List(products []model.Product, q Query) Page {
	filtered := Filter(products, q)
	sorted := SortProducts(filtered, q.Sort, q.Lang)
	return Paginate(sorted, q.Page, q.PageSize)
}
