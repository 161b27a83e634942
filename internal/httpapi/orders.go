package httpapi

import (
	"net/http"

	"souq/internal/auth"
	"souq/internal/model"
)

type placeOrderRequest struct {
	Address model.Address `json:"address"`
}

func (s *Server) placeOrder(w http.ResponseWriter, r *http.Request) {
	c, err := auth.Check(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req placeOrderRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	o, err := s.Orders.Place(r.Context(), c.UserID, sessionID(r), req.Address)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

// trackOrder é público: quem tem o número do pedido pode acompanhar.
func (s *Server) trackOrder(w http.ResponseWriter, r *http.Request) {
	o, err := s.Orders.Track(r.Context(), r.PathValue("number"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) cancelOrder(w http.ResponseWriter, r *http.Request) {
	c, err := auth.Check(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	o, err := s.Orders.Cancel(r.Context(), c.UserID, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}
