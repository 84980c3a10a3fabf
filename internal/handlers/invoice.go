package handlers

import (
	"net/http"

	"github.com/diewo77/go-pos/httpx"
	"github.com/diewo77/go-pos/internal/repository"
	"github.com/diewo77/go-pos/internal/services"
)

// InvoiceHandler serves read-only views over the append-only sales log.
// A sale record is the invoice; there is no separate invoice collection.
type InvoiceHandler struct {
	Repos *repository.Registry
}

func NewInvoiceHandler(repos *repository.Registry) *InvoiceHandler {
	return &InvoiceHandler{Repos: repos}
}

// List: GET /invoices, newest first.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	sales, err := h.Repos.Sales.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	ordered := services.RecentSales(sales, 0)
	httpx.JSON(w, http.StatusOK, map[string]any{"items": ordered, "total": len(ordered)})
}

// Get: GET /invoices/get?id=
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"id": "required"})
		return
	}
	sale, err := h.Repos.Sales.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sale)
}
