// Package httpapi expõe a loja como API JSON.
package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"souq/internal/account"
	"souq/internal/admin"
	"souq/internal/auth"
	"souq/internal/logging"
	"souq/internal/orders"
	"souq/internal/repository"
	"souq/internal/reviews"
	"souq/internal/session"
)

// SessionHeader identifica o carrinho e a lista de desejos do visitante.
const SessionHeader = "X-Session-ID"

const relatedCount = 4

type Server struct {
	Products    *repository.ProductRepository
	Carts       *session.Carts
	Wishlists   *session.Wishlists
	Orders      *orders.Service
	Accounts    *account.Service
	Reviews     *reviews.Service
	Admin       *admin.Service
	Tokens      *auth.Tokens
	Logger      *zap.Logger
	DefaultLang string
}

func (s *Server) log() *zap.Logger { return logging.OrNop(s.Logger) }

// Handler monta as rotas com autenticação, métricas e log de acesso.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /api/products", s.listProducts)
	mux.HandleFunc("GET /api/products/{id}", s.getProduct)
	mux.HandleFunc("GET /api/facets", s.facets)
	mux.HandleFunc("GET /api/products/{id}/reviews", s.listReviews)
	mux.HandleFunc("POST /api/products/{id}/reviews", s.addReview)

	mux.HandleFunc("GET /api/cart", s.getCart)
	mux.HandleFunc("POST /api/cart", s.addToCart)
	mux.HandleFunc("PATCH /api/cart/{productID}", s.updateCart)
	mux.HandleFunc("DELETE /api/cart/{productID}", s.removeFromCart)
	mux.HandleFunc("DELETE /api/cart", s.clearCart)

	mux.HandleFunc("GET /api/wishlist", s.getWishlist)
	mux.HandleFunc("POST /api/wishlist/{productID}", s.toggleWishlist)
	mux.HandleFunc("DELETE /api/wishlist/{productID}", s.removeFromWishlist)

	mux.HandleFunc("POST /api/orders", s.placeOrder)
	mux.HandleFunc("GET /api/orders/track/{number}", s.trackOrder)
	mux.HandleFunc("POST /api/orders/{id}/cancel", s.cancelOrder)

	mux.HandleFunc("POST /api/auth/register", s.register)
	mux.HandleFunc("POST /api/auth/login", s.login)
	mux.HandleFunc("GET /api/account", s.profile)
	mux.HandleFunc("PUT /api/account", s.updateProfile)
	mux.HandleFunc("GET /api/account/orders", s.accountOrders)

	mux.HandleFunc("POST /api/admin/products", s.adminCreateProduct)
	mux.HandleFunc("PUT /api/admin/products/{id}", s.adminUpdateProduct)
	mux.HandleFunc("DELETE /api/admin/products/{id}", s.adminDeleteProduct)
	mux.HandleFunc("POST /api/admin/uploads", s.adminUpload)
	mux.HandleFunc("GET /api/admin/orders", s.adminListOrders)
	mux.HandleFunc("PATCH /api/admin/orders/{id}/status", s.adminSetOrderStatus)
	mux.HandleFunc("GET /api/admin/stats", s.adminStats)

	var h http.Handler = mux
	if s.Tokens != nil {
		h = s.Tokens.Authenticate(h)
	}
	return instrument(mux, h, s.log())
}
