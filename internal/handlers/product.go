package handlers

import (
	"net/http"

	"github.com/diewo77/go-pos/httpx"
	"github.com/diewo77/go-pos/internal/models"
	"github.com/diewo77/go-pos/internal/repository"
	"github.com/diewo77/go-pos/validation"
)

type ProductHandler struct {
	Repos *repository.Registry
}

func NewProductHandler(repos *repository.Registry) *ProductHandler {
	return &ProductHandler{Repos: repos}
}

// List: GET /products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.Repos.Products.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": products, "total": len(products)})
}

// Create: POST /products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		Stock    int     `json:"stock"`
		Category string  `json:"category"`
		ImageURL string  `json:"imageUrl"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", req.Name, v)
	validation.NonNegativeFloat("price", req.Price, v)
	validation.NonNegativeInt("stock", req.Stock, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	product := models.Product{
		Name:     req.Name,
		Price:    models.Round2(req.Price),
		Stock:    req.Stock,
		Category: req.Category,
		ImageURL: req.ImageURL,
	}
	if err := h.Repos.Products.Add(r.Context(), &product); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, product)
}

// Update: POST /products/update. Only provided fields change.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID       string   `json:"id"`
		Name     *string  `json:"name"`
		Price    *float64 `json:"price"`
		Stock    *int     `json:"stock"`
		Category *string  `json:"category"`
		ImageURL *string  `json:"imageUrl"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("id", req.ID, v)
	if req.Price != nil {
		validation.NonNegativeFloat("price", *req.Price, v)
	}
	if req.Stock != nil {
		validation.NonNegativeInt("stock", *req.Stock, v)
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var updated models.Product
	err := h.Repos.Products.Update(r.Context(), req.ID, func(p *models.Product) error {
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Price != nil {
			p.Price = models.Round2(*req.Price)
		}
		if req.Stock != nil {
			p.Stock = *req.Stock
		}
		if req.Category != nil {
			p.Category = *req.Category
		}
		if req.ImageURL != nil {
			p.ImageURL = *req.ImageURL
		}
		updated = *p
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

// Delete: POST /products/delete
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := httpx.Decode(r, &req); err != nil || req.ID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if err := h.Repos.Products.Delete(r.Context(), req.ID); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"deleted": req.ID})
}
