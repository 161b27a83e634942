package httpapi

import (
	"net/http"

	"souq/internal/account"
	"souq/internal/auth"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, err := s.Accounts.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, err := s.Accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	c, err := auth.Check(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := s.Accounts.Profile(r.Context(), c.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	c, err := auth.Check(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var upd account.ProfileUpdate
	if err := decode(r, &upd); err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := s.Accounts.UpdateProfile(r.Context(), c.UserID, upd)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) accountOrders(w http.ResponseWriter, r *http.Request) {
	c, err := auth.Check(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	list, err := s.Accounts.OrderHistory(r.Context(), c.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
