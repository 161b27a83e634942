package httpapi

import (
	"net/http"

	"souq/internal/admin"
	"souq/internal/apperr"
	"souq/internal/auth"
	"souq/internal/model"
	"souq/internal/upload"
)

// requireAdmin escreve o erro e devolve false quando o usuário não é admin.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if _, err := auth.Check(r.Context(), model.RoleAdmin); err != nil {
		s.writeError(w, r, err)
		return false
	}
	return true
}

func (s *Server) adminCreateProduct(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	var p model.Product
	if err := decode(r, &p); err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := s.Admin.CreateProduct(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) adminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	var p model.Product
	if err := decode(r, &p); err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := s.Admin.UpdateProduct(r.Context(), r.PathValue("id"), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) adminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if err := s.Admin.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// adminUpload espera multipart com o arquivo no campo "image".
func (s *Server) adminUpload(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxImageSize+(1<<20))
	f, hdr, err := r.FormFile("image")
	if err != nil {
		s.writeError(w, r, apperr.New(apperr.CodeInvalid, apperr.ErrInvalid, "multipart field image is required"))
		return
	}
	defer f.Close()

	url, err := s.Admin.UploadImage(r.Context(), hdr.Filename, f)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func (s *Server) adminListOrders(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	list, err := s.Admin.ListOrders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type statusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

func (s *Server) adminSetOrderStatus(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	var req statusRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	o, err := s.Admin.SetOrderStatus(r.Context(), r.PathValue("id"), req.Status, req.Note)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) adminStats(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	st, err := s.Admin.Stats(r.Context(), queryInt(r, "low_stock", admin.DefaultLowStock))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
