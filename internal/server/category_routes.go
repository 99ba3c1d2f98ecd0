package server

import (
	"net/http"

	"github.com/Emes13/habittrax/internal/logger"
	"github.com/go-chi/chi/v5"
)

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		writeStoreError(w, err, "Failed to list categories")
		return
	}
	respond(w, http.StatusOK, CategoryListResponse{Categories: categories})
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeStoreError(w, err, "Invalid category")
		return
	}

	c, err := s.store.PutCategory(r.Context(), req.category(""))
	if err != nil {
		writeStoreError(w, err, "Failed to create category", "name", req.Name)
		return
	}
	logger.Info("Created category", "category_id", c.ID, "name", c.Name)
	respond(w, http.StatusCreated, c)
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "category_id")
	var req CategoryRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeStoreError(w, err, "Invalid category", "category_id", id)
		return
	}

	c, err := s.store.PutCategory(r.Context(), req.category(id))
	if err != nil {
		writeStoreError(w, err, "Failed to update category", "category_id", id)
		return
	}
	respond(w, http.StatusOK, c)
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "category_id")
	if err := s.store.DeleteCategory(r.Context(), id); err != nil {
		writeStoreError(w, err, "Failed to delete category", "category_id", id)
		return
	}
	logger.Info("Deleted category", "category_id", id)
	w.WriteHeader(http.StatusNoContent)
}
