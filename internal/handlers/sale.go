package handlers

import (
	"errors"
	"net/http"

	"github.com/diewo77/go-pos/auth"
	"github.com/diewo77/go-pos/httpx"
	"github.com/diewo77/go-pos/internal/errs"
	"github.com/diewo77/go-pos/internal/services"
	"github.com/diewo77/go-pos/validation"
)

// SaleHandler drives the per-user sale workflow.
type SaleHandler struct {
	Sales *services.SaleManager
}

func NewSaleHandler(sales *services.SaleManager) *SaleHandler {
	return &SaleHandler{Sales: sales}
}

func (h *SaleHandler) workflow(r *http.Request) *services.SaleWorkflow {
	uid, _ := auth.UserIDFromContext(r.Context())
	return h.Sales.Current(uid)
}

func saleView(w *services.SaleWorkflow) map[string]any {
	view := map[string]any{
		"state":  w.State().String(),
		"items":  w.Items(),
		"totals": w.Totals(),
	}
	if c := w.Customer(); c != nil {
		view["customer"] = c
	}
	return view
}

// Current: GET /sale
func (h *SaleHandler) Current(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, saleView(h.workflow(r)))
}

// SelectCustomer: POST /sale/customer
func (h *SaleHandler) SelectCustomer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID string `json:"customerId"`
	}
	if err := httpx.Decode(r, &req); err != nil || req.CustomerID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	wf := h.workflow(r)
	if err := wf.SelectCustomer(r.Context(), req.CustomerID); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, saleView(wf))
}

// AddItem: POST /sale/items
func (h *SaleHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := httpx.Decode(r, &req); err != nil || req.ProductID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	v := validation.Violations{}
	validation.MinInt("quantity", req.Quantity, 1, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	wf := h.workflow(r)
	if err := wf.AddItem(r.Context(), req.ProductID, req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, saleView(wf))
}

// UpdateQuantity: POST /sale/items/update
func (h *SaleHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := httpx.Decode(r, &req); err != nil || req.ProductID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.MinInt("quantity", req.Quantity, 1, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	wf := h.workflow(r)
	if err := wf.UpdateQuantity(r.Context(), req.ProductID, req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, saleView(wf))
}

// RemoveItem: POST /sale/items/remove
func (h *SaleHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := httpx.Decode(r, &req); err != nil || req.ProductID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	wf := h.workflow(r)
	if err := wf.RemoveItem(req.ProductID); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, saleView(wf))
}

// Cancel: POST /sale/cancel
func (h *SaleHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	wf := h.workflow(r)
	if err := wf.Cancel(); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"state": services.StateCancelled.String()})
}

// Complete: POST /sale/complete. A partial completion (best-effort mode
// with a late write failure) still returns the sale, flagged with a
// warning so the client can distinguish it from full success and from
// total failure.
func (h *SaleHandler) Complete(w http.ResponseWriter, r *http.Request) {
	wf := h.workflow(r)
	sale, err := wf.Complete(r.Context())
	if err != nil {
		var pe *errs.PartialCompletionError
		if errors.As(err, &pe) {
			httpx.JSON(w, http.StatusOK, map[string]any{
				"sale":    sale,
				"warning": "sale_partially_completed",
				"details": map[string]any{"completed": pe.Completed, "failed": pe.Failed},
			})
			return
		}
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, sale)
}
