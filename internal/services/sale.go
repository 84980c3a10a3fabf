// Package services holds the sale workflow, reporting aggregations and
// demo seeding on top of the repositories.
package services

import (
	"context"
	"sync"

	"github.com/diewo77/go-pos/internal/config"
	"github.com/diewo77/go-pos/internal/errs"
	"github.com/diewo77/go-pos/internal/models"
	"github.com/diewo77/go-pos/internal/repository"
	"github.com/shopspring/decimal"
)

// SaleState is the workflow position. ReadyToComplete is derived: a
// non-terminal sale with a selected customer and a non-empty cart.
type SaleState int

const (
	StateBuilding SaleState = iota
	StateReadyToComplete
	StateCompleted
	StateCancelled
)

func (s SaleState) String() string {
	switch s {
	case StateReadyToComplete:
		return "ready_to_complete"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return "building"
	}
}

// Totals is the money breakdown of a cart, all rounded to cents.
type Totals struct {
	Subtotal        float64 `json:"subtotal"`
	DiscountPercent float64 `json:"discountPercent"`
	DiscountAmount  float64 `json:"discountAmount"`
	Total           float64 `json:"total"`
}

// SaleWorkflow assembles one in-progress sale. It holds no persisted state
// until Complete; Cancel just discards the cart.
type SaleWorkflow struct {
	mu       sync.Mutex
	repos    *repository.Registry
	cfg      config.Config
	customer *models.Customer
	items    []models.CartItem
	terminal SaleState // zero while the sale is still open
}

func NewSaleWorkflow(repos *repository.Registry, cfg config.Config) *SaleWorkflow {
	return &SaleWorkflow{repos: repos, cfg: cfg}
}

func (w *SaleWorkflow) State() SaleState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stateLocked()
}

func (w *SaleWorkflow) stateLocked() SaleState {
	if w.terminal != 0 {
		return w.terminal
	}
	if w.customer != nil && len(w.items) > 0 {
		return StateReadyToComplete
	}
	return StateBuilding
}

// Items returns a copy of the cart lines.
func (w *SaleWorkflow) Items() []models.CartItem {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.CartItem(nil), w.items...)
}

func (w *SaleWorkflow) Customer() *models.Customer {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.customer == nil {
		return nil
	}
	c := *w.customer
	return &c
}

// Totals computes the breakdown for the current cart and customer.
func (w *SaleWorkflow) Totals() Totals {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.totalsLocked()
}

func (w *SaleWorkflow) totalsLocked() Totals {
	sum := decimal.Zero
	for _, it := range w.items {
		sum = sum.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	subtotal := sum.Round(2)
	pct := decimal.Zero
	if w.customer != nil && w.customer.TotalPaidAmount >= w.cfg.LoyaltyThreshold {
		pct = decimal.NewFromFloat(w.cfg.LoyaltyDiscount)
	}
	factor := decimal.NewFromInt(1).Sub(pct.Div(decimal.NewFromInt(100)))
	total := subtotal.Mul(factor).Round(2)
	t := Totals{}
	t.Subtotal, _ = subtotal.Float64()
	t.DiscountPercent, _ = pct.Float64()
	t.Total, _ = total.Float64()
	t.DiscountAmount, _ = subtotal.Sub(total).Float64()
	return t
}

func (w *SaleWorkflow) guardOpen() error {
	if w.terminal != 0 {
		return errs.Validation("sale", "closed")
	}
	return nil
}

// SelectCustomer loads the customer by id and attaches it to the sale.
func (w *SaleWorkflow) SelectCustomer(ctx context.Context, customerID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guardOpen(); err != nil {
		return err
	}
	customer, err := w.repos.Customers.Get(ctx, customerID)
	if err != nil {
		return err
	}
	w.customer = customer
	return nil
}

// AddItem inserts or increments a cart line, snapshotting the product's
// current name and price on insert. Rejected without state change when the
// resulting quantity would exceed current stock.
func (w *SaleWorkflow) AddItem(ctx context.Context, productID string, qty int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guardOpen(); err != nil {
		return err
	}
	if qty < 1 {
		return errs.Validation("quantity", "must_be_at_least_1")
	}
	product, err := w.repos.Products.Get(ctx, productID)
	if err != nil {
		return err
	}
	current := 0
	for i := range w.items {
		if w.items[i].ID == productID {
			current = w.items[i].Quantity
			break
		}
	}
	if current+qty > product.Stock {
		return errs.Validation("quantity", "insufficient_stock")
	}
	for i := range w.items {
		if w.items[i].ID == productID {
			w.items[i].Quantity += qty
			return nil
		}
	}
	w.items = append(w.items, models.CartItem{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		Quantity: qty,
	})
	return nil
}

// UpdateQuantity sets a line's quantity outright, with the same bounds.
func (w *SaleWorkflow) UpdateQuantity(ctx context.Context, productID string, qty int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guardOpen(); err != nil {
		return err
	}
	if qty < 1 {
		return errs.Validation("quantity", "must_be_at_least_1")
	}
	product, err := w.repos.Products.Get(ctx, productID)
	if err != nil {
		return err
	}
	if qty > product.Stock {
		return errs.Validation("quantity", "insufficient_stock")
	}
	for i := range w.items {
		if w.items[i].ID == productID {
			w.items[i].Quantity = qty
			return nil
		}
	}
	return errs.NotFound("cart item", productID)
}

// RemoveItem drops a line; permitted in any open state, no-op when absent.
func (w *SaleWorkflow) RemoveItem(productID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guardOpen(); err != nil {
		return err
	}
	for i := range w.items {
		if w.items[i].ID == productID {
			w.items = append(w.items[:i], w.items[i+1:]...)
			return nil
		}
	}
	return nil
}

// Cancel discards the cart without touching persisted data.
func (w *SaleWorkflow) Cancel() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guardOpen(); err != nil {
		return err
	}
	w.items = nil
	w.terminal = StateCancelled
	return nil
}

// Complete validates the sale, computes totals, then performs the three
// writes: append the sale record, decrement product stock, bump the
// customer aggregates.
//
// Default mode reproduces the historical best-effort behavior: a failure at
// a later step leaves earlier writes committed and returns
// *errs.PartialCompletionError. With cfg.AtomicSales the writes run inside
// the store's transaction and either all land or none do.
func (w *SaleWorkflow) Complete(ctx context.Context) (*models.Sale, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guardOpen(); err != nil {
		return nil, err
	}
	if w.customer == nil {
		return nil, errs.Validation("customer", "required")
	}
	if len(w.items) == 0 {
		return nil, errs.Validation("cart", "empty")
	}

	// Pre-check stock across all lines so a doomed sale writes nothing.
	for _, it := range w.items {
		product, err := w.repos.Products.Get(ctx, it.ID)
		if err != nil {
			return nil, err
		}
		if it.Quantity > product.Stock {
			return nil, errs.Validation("quantity", "insufficient_stock")
		}
	}

	t := w.totalsLocked()
	sale := &models.Sale{
		CustomerID:      w.customer.ID,
		CustomerName:    w.customer.Name,
		Items:           append([]models.CartItem(nil), w.items...),
		Subtotal:        t.Subtotal,
		DiscountPercent: t.DiscountPercent,
		DiscountAmount:  t.DiscountAmount,
		Total:           t.Total,
	}

	if w.cfg.AtomicSales {
		err := w.repos.WithTx(ctx, func(tx *repository.Registry) error {
			_, err := commitSale(ctx, tx, sale, w.customer.ID, t.Total)
			return err
		})
		if err != nil {
			return nil, err
		}
		w.terminal = StateCompleted
		return sale, nil
	}

	completed, err := commitSale(ctx, w.repos, sale, w.customer.ID, t.Total)
	if err != nil {
		if len(completed) == 0 {
			return nil, err // nothing written: total failure
		}
		w.terminal = StateCompleted // the sale record is durable
		return sale, &errs.PartialCompletionError{
			SaleID:    sale.ID,
			Completed: completed,
			Failed:    nextStep(completed),
			Err:       err,
		}
	}
	w.terminal = StateCompleted
	return sale, nil
}

// commitSale performs the three persistence steps in order and reports the
// steps that were durably written before any failure.
func commitSale(ctx context.Context, reg *repository.Registry, sale *models.Sale, customerID string, total float64) ([]string, error) {
	var completed []string

	if err := reg.Sales.Append(ctx, sale); err != nil {
		return completed, err
	}
	completed = append(completed, "sale_log")

	for _, it := range sale.Items {
		qty := it.Quantity
		err := reg.Products.Update(ctx, it.ID, func(p *models.Product) error {
			if p.Stock < qty {
				return errs.Validation("quantity", "insufficient_stock")
			}
			p.Stock -= qty
			return nil
		})
		if err != nil {
			return completed, err
		}
	}
	completed = append(completed, "product_stock")

	err := reg.Customers.Update(ctx, customerID, func(c *models.Customer) error {
		c.TotalOrders++
		c.TotalPaidAmount = models.Round2(c.TotalPaidAmount + total)
		return nil
	})
	if err != nil {
		return completed, err
	}
	completed = append(completed, "customer_totals")
	return completed, nil
}

func nextStep(completed []string) string {
	switch len(completed) {
	case 0:
		return "sale_log"
	case 1:
		return "product_stock"
	default:
		return "customer_totals"
	}
}
