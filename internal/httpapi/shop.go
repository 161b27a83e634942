package httpapi

import (
	"net/http"
	"strings"

	"souq/internal/auth"
	"souq/internal/catalog"
	"souq/internal/i18n"
	"souq/internal/model"
	"souq/internal/reviews"
)

func (s *Server) lang(w http.ResponseWriter, r *http.Request) string {
	l := i18n.Negotiate(r.Header.Get("Accept-Language"), r.URL.Query().Get("lang"), s.DefaultLang)
	w.Header().Set("Content-Language", l)
	return l
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseQuery converte a query string da vitrine; valores inválidos são ignorados.
func parseQuery(r *http.Request, lang string) catalog.Query {
	v := r.URL.Query()
	var brands []string
	for _, b := range v["brand"] {
		brands = append(brands, splitList(b)...)
	}
	return catalog.Query{
		Search:      strings.TrimSpace(v.Get("q")),
		Category:    v.Get("category"),
		Subcategory: v.Get("subcategory"),
		Brands:      brands,
		MinPrice:    queryFloat(r, "min_price"),
		MaxPrice:    queryFloat(r, "max_price"),
		InStock:     queryBool(r, "in_stock"),
		OnSale:      queryBool(r, "on_sale"),
		Featured:    queryBool(r, "featured"),
		MinRating:   queryFloat(r, "min_rating"),
		Sort:        catalog.SortKey(v.Get("sort")),
		Page:        queryInt(r, "page", 1),
		PageSize:    queryInt(r, "page_size", catalog.DefaultPageSize),
		Lang:        lang,
	}
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	lang := s.lang(w, r)
	all, err := s.Products.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, catalog.List(all, parseQuery(r, lang)))
}

type productResponse struct {
	Product model.Product   `json:"product"`
	Related []model.Product `json:"related"`
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	s.lang(w, r)
	ctx := r.Context()
	p, err := s.Products.Get(ctx, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	all, err := s.Products.List(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, productResponse{Product: p, Related: catalog.Related(all, p, relatedCount)})
}

func (s *Server) facets(w http.ResponseWriter, r *http.Request) {
	all, err := s.Products.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	// com category/q os filtros laterais refletem só o recorte atual
	q := catalog.Query{Search: r.URL.Query().Get("q"), Category: r.URL.Query().Get("category")}
	writeJSON(w, http.StatusOK, catalog.BuildFacets(catalog.Filter(all, q)))
}

type reviewsResponse struct {
	Reviews []model.Review `json:"reviews"`
	Average float64        `json:"average"`
	Count   int            `json:"count"`
}

func (s *Server) listReviews(w http.ResponseWriter, r *http.Request) {
	list, err := s.Reviews.List(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviewsResponse{Reviews: list, Average: reviews.Average(list), Count: len(list)})
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (s *Server) addReview(w http.ResponseWriter, r *http.Request) {
	c, err := auth.Check(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req reviewRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	rv, err := s.Reviews.Add(r.Context(), c.UserID, r.PathValue("id"), req.Rating, req.Comment)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rv)
}
