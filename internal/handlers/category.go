package handlers

import (
	"net/http"

	"github.com/diewo77/go-pos/httpx"
	"github.com/diewo77/go-pos/internal/models"
	"github.com/diewo77/go-pos/internal/repository"
	"github.com/diewo77/go-pos/validation"
)

const defaultCategoryColor = "#5b68ff"

type CategoryHandler struct {
	Repos *repository.Registry
}

func NewCategoryHandler(repos *repository.Registry) *CategoryHandler {
	return &CategoryHandler{Repos: repos}
}

// List: GET /categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Repos.Categories.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": categories, "total": len(categories)})
}

// Create: POST /categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Color       string `json:"color"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", req.Name, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if req.Color == "" {
		req.Color = defaultCategoryColor
	}
	category := models.Category{Name: req.Name, Description: req.Description, Color: req.Color}
	if err := h.Repos.Categories.Add(r.Context(), &category); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, category)
}

// Update: POST /categories/update
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID          string  `json:"id"`
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Color       *string `json:"color"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.ID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"id": "required"})
		return
	}
	var updated models.Category
	err := h.Repos.Categories.Update(r.Context(), req.ID, func(c *models.Category) error {
		if req.Name != nil {
			c.Name = *req.Name
		}
		if req.Description != nil {
			c.Description = *req.Description
		}
		if req.Color != nil {
			c.Color = *req.Color
		}
		updated = *c
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

// Delete: POST /categories/delete. Returns 409 while any product references it.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := httpx.Decode(r, &req); err != nil || req.ID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if err := h.Repos.DeleteCategory(r.Context(), req.ID); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"deleted": req.ID})
}
