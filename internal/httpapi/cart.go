package httpapi

import (
	"math"
	"net/http"

	"go.uber.org/zap"

	"souq/internal/apperr"
	"souq/internal/model"
	"souq/internal/orders"
)

func sessionID(r *http.Request) string { return r.Header.Get(SessionHeader) }

type cartLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Image     string  `json:"image,omitempty"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
	Stock     int     `json:"stock"`
}

type cartView struct {
	Items    []cartLine `json:"items"`
	Count    int        `json:"count"`
	Subtotal float64    `json:"subtotal"`
	Shipping float64    `json:"shipping"`
	Total    float64    `json:"total"`
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// view junta os itens do carrinho com preço e nome atuais de cada produto.
func (s *Server) view(r *http.Request, cart model.Cart, lang string) cartView {
	v := cartView{Items: []cartLine{}, Count: cart.Count()}
	for _, it := range cart.Items {
		p, err := s.Products.Get(r.Context(), it.ProductID)
		if err != nil {
			s.log().Warn("cart references missing product", zap.String("product_id", it.ProductID), zap.Error(err))
			continue
		}
		line := cartLine{
			ProductID: p.ID,
			Name:      p.LocalizedName(lang),
			UnitPrice: p.EffectivePrice(),
			Quantity:  it.Quantity,
			Stock:     p.Stock,
		}
		if len(p.Images) > 0 {
			line.Image = p.Images[0]
		}
		line.LineTotal = round2(line.UnitPrice * float64(line.Quantity))
		v.Subtotal += line.LineTotal
		v.Items = append(v.Items, line)
	}
	v.Subtotal = round2(v.Subtotal)
	v.Shipping = orders.Shipping(v.Subtotal)
	v.Total = round2(v.Subtotal + v.Shipping)
	return v
}

func (s *Server) respondCart(w http.ResponseWriter, r *http.Request, cart model.Cart, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.view(r, cart, s.lang(w, r)))
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	cart, err := s.Carts.Get(r.Context(), sessionID(r))
	s.respondCart(w, r, cart, err)
}

type cartRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (s *Server) addToCart(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.ProductID == "" || req.Quantity < 0 {
		s.writeError(w, r, apperr.New(apperr.CodeInvalid, apperr.ErrInvalid, "product_id and a positive quantity are required"))
		return
	}
	cart, err := s.Carts.Add(r.Context(), sessionID(r), req.ProductID, req.Quantity)
	s.respondCart(w, r, cart, err)
}

func (s *Server) updateCart(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	cart, err := s.Carts.Update(r.Context(), sessionID(r), r.PathValue("productID"), req.Quantity)
	s.respondCart(w, r, cart, err)
}

func (s *Server) removeFromCart(w http.ResponseWriter, r *http.Request) {
	cart, err := s.Carts.Remove(r.Context(), sessionID(r), r.PathValue("productID"))
	s.respondCart(w, r, cart, err)
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := s.Carts.Clear(r.Context(), sessionID(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type wishlistResponse struct {
	model.Wishlist
	Added *bool `json:"added,omitempty"`
}

func (s *Server) getWishlist(w http.ResponseWriter, r *http.Request) {
	list, err := s.Wishlists.Get(r.Context(), sessionID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wishlistResponse{Wishlist: list})
}

func (s *Server) toggleWishlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("productID")
	if _, err := s.Products.Get(ctx, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	list, added, err := s.Wishlists.Toggle(ctx, sessionID(r), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wishlistResponse{Wishlist: list, Added: &added})
}

func (s *Server) removeFromWishlist(w http.ResponseWriter, r *http.Request) {
	list, err := s.Wishlists.Remove(r.Context(), sessionID(r), r.PathValue("productID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wishlistResponse{Wishlist: list})
}
