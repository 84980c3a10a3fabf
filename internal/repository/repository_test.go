package repository

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/diewo77/go-pos/internal/errs"
	"github.com/diewo77/go-pos/internal/models"
	"github.com/diewo77/go-pos/internal/store"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := New(store.NewMemory())
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	return r
}

func TestProductAddGetList(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	p := &models.Product{Name: "Laptop", Price: 999.99, Stock: 50, Category: "electronics"}
	if err := r.Products.Add(ctx, p); err != nil {
		t.Fatalf("add: %v", err)
	}
	if p.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps set")
	}

	got, err := r.Products.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Laptop" || got.Price != 999.99 {
		t.Fatalf("unexpected product: %+v", got)
	}

	items, err := r.Products.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 product got %d", len(items))
	}
}

func TestListAbsentKeyIsEmpty(t *testing.T) {
	r := newTestRegistry(t)
	items, err := r.Customers.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty slice, got %#v", items)
	}
}

func TestListUndecodablePayloadTreatedAsEmpty(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	if err := r.Store.Set(ctx, store.KeyProducts, json.RawMessage(`{"not":"an array"`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	items, err := r.Products.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty slice for corrupt payload, got %d items", len(items))
	}
}

func TestIDsAreUniqueAndMonotonic(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	var prev string
	for i := 0; i < 20; i++ {
		c := &models.Customer{Name: "c"}
		if err := r.Customers.Add(ctx, c); err != nil {
			t.Fatalf("add: %v", err)
		}
		if c.ID == prev {
			t.Fatalf("duplicate id %s", c.ID)
		}
		if prev != "" && !(len(c.ID) > len(prev) || c.ID > prev) {
			t.Fatalf("ids not increasing: %s then %s", prev, c.ID)
		}
		prev = c.ID
	}
}

func TestUpdatePatchesAndBumpsUpdatedAt(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	p := &models.Product{Name: "Mouse", Price: 29.99, Stock: 10}
	if err := r.Products.Add(ctx, p); err != nil {
		t.Fatalf("add: %v", err)
	}
	created := p.CreatedAt

	err := r.Products.Update(ctx, p.ID, func(p *models.Product) error {
		p.Price = 24.99
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := r.Products.Get(ctx, p.ID)
	if got.Price != 24.99 {
		t.Fatalf("patch not applied: %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("createdAt must not change on update")
	}
	if got.UpdatedAt.Before(created) {
		t.Fatalf("updatedAt should be bumped")
	}
}

func TestUpdateAbortsOnPatchError(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	p := &models.Product{Name: "Keyboard", Price: 49.99, Stock: 5}
	if err := r.Products.Add(ctx, p); err != nil {
		t.Fatalf("add: %v", err)
	}
	boom := errors.New("boom")
	err := r.Products.Update(ctx, p.ID, func(p *models.Product) error {
		p.Stock = 0
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	got, _ := r.Products.Get(ctx, p.ID)
	if got.Stock != 5 {
		t.Fatalf("failed patch must not persist, stock=%d", got.Stock)
	}
}

func TestGetUpdateDeleteNotFound(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	if _, err := r.Products.Get(ctx, "nope"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("get: expected ErrNotFound, got %v", err)
	}
	err := r.Products.Update(ctx, "nope", func(*models.Product) error { return nil })
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("update: expected ErrNotFound, got %v", err)
	}
	if err := r.Products.Delete(ctx, "nope"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("delete: expected ErrNotFound, got %v", err)
	}
}

func TestDeleteRemovesOnlyTarget(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	a := &models.Customer{Name: "A"}
	b := &models.Customer{Name: "B"}
	if err := r.Customers.Add(ctx, a); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := r.Customers.Add(ctx, b); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := r.Customers.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	items, _ := r.Customers.List(ctx)
	if len(items) != 1 || items[0].ID != b.ID {
		t.Fatalf("expected only B left, got %+v", items)
	}
}

func TestDeleteCategoryReferenced(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	cat := &models.Category{Name: "Electronics"}
	if err := r.Categories.Add(ctx, cat); err != nil {
		t.Fatalf("add category: %v", err)
	}
	p := &models.Product{Name: "Laptop", Price: 999.99, Stock: 1, Category: cat.ID}
	if err := r.Products.Add(ctx, p); err != nil {
		t.Fatalf("add product: %v", err)
	}

	err := r.DeleteCategory(ctx, cat.ID)
	if !errors.Is(err, errs.ErrReferenced) {
		t.Fatalf("expected ErrReferenced, got %v", err)
	}
	// Both sides unchanged.
	if _, err := r.Categories.Get(ctx, cat.ID); err != nil {
		t.Fatalf("category should survive: %v", err)
	}
	got, _ := r.Products.Get(ctx, p.ID)
	if got.Category != cat.ID {
		t.Fatalf("product reference changed: %+v", got)
	}

	if err := r.Products.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	if err := r.DeleteCategory(ctx, cat.ID); err != nil {
		t.Fatalf("delete category after unreference: %v", err)
	}
}

func TestSalesLogAppendAndNormalize(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	sale := &models.Sale{
		CustomerID:   "c1",
		CustomerName: "John",
		Items:        []models.CartItem{{ID: "p1", Name: "Laptop", Price: 999.99, Quantity: 1}},
		Subtotal:     999.99,
		Total:        999.99,
	}
	if err := r.Sales.Append(ctx, sale); err != nil {
		t.Fatalf("append: %v", err)
	}
	if sale.ID == "" || sale.Date.IsZero() {
		t.Fatalf("expected id and date assigned: %+v", sale)
	}

	// Legacy record missing derived money fields gets them filled on load.
	raw := json.RawMessage(`[{"id":"legacy","items":[{"id":"p1","name":"Mouse","price":10,"quantity":2}],"total":20}]`)
	if err := r.Store.Set(ctx, store.KeySales, raw); err != nil {
		t.Fatalf("set: %v", err)
	}
	sales, err := r.Sales.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sales) != 1 {
		t.Fatalf("expected 1 sale got %d", len(sales))
	}
	if sales[0].Subtotal != 20 {
		t.Fatalf("expected subtotal defaulted to 20, got %v", sales[0].Subtotal)
	}
}

func TestFindUserByEmailCaseInsensitive(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	u := &models.User{Email: "Admin@Example.com", Name: "Admin"}
	if err := r.Users.Add(ctx, u); err != nil {
		t.Fatalf("add: %v", err)
	}
	got, err := r.FindUserByEmail(ctx, "admin@example.COM")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("wrong user: %+v", got)
	}
	if _, err := r.FindUserByEmail(ctx, "other@example.com"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWithTxRequiresTransactor(t *testing.T) {
	// A store without WithTx support.
	r, err := New(flatStore{store.NewMemory()})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	err = r.WithTx(context.Background(), func(*Registry) error { return nil })
	if !errors.Is(err, ErrNoTransactions) {
		t.Fatalf("expected ErrNoTransactions, got %v", err)
	}
}

func TestWithTxRollsBackAllCollections(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	p := &models.Product{Name: "Laptop", Price: 999.99, Stock: 2}
	if err := r.Products.Add(ctx, p); err != nil {
		t.Fatalf("add: %v", err)
	}
	boom := errors.New("boom")
	err := r.WithTx(ctx, func(tx *Registry) error {
		if err := tx.Products.Update(ctx, p.ID, func(p *models.Product) error {
			p.Stock = 0
			return nil
		}); err != nil {
			return err
		}
		if err := tx.Customers.Add(ctx, &models.Customer{Name: "ghost"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	got, _ := r.Products.Get(ctx, p.ID)
	if got.Stock != 2 {
		t.Fatalf("stock write should be rolled back, got %d", got.Stock)
	}
	customers, _ := r.Customers.List(ctx)
	if len(customers) != 0 {
		t.Fatalf("customer write should be rolled back, got %d", len(customers))
	}
}

// flatStore hides the memory store's transaction capability: only the
// embedded interface's methods are promoted.
type flatStore struct {
	store.Store
}

func TestWithTxDoesNotDeadlockConcurrentWrites(t *testing.T) {
	st, err := store.OpenBolt(filepath.Join(t.TempDir(), "pos.db"))
	if err != nil {
		t.Fatalf("open bolt: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	r, err := New(st)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	ctx := context.Background()

	// A plain Add races a transaction that also writes products. With the
	// bolt backend both paths end in the file's single write lock, so any
	// inconsistency in lock ordering parks both goroutines forever.
	inTx := make(chan struct{})
	done := make(chan error, 2)
	go func() {
		done <- r.WithTx(ctx, func(tx *Registry) error {
			close(inTx)
			// Let the plain Add reach its lock acquisition first.
			time.Sleep(50 * time.Millisecond)
			return tx.Products.Add(ctx, &models.Product{Name: "InTx", Price: 1, Stock: 1})
		})
	}()
	go func() {
		<-inTx
		done <- r.Products.Add(ctx, &models.Product{Name: "Plain", Price: 2, Stock: 2})
	}()

	for i := 0; i < 2; i++ {
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("write %d: %v", i, err)
			}
		case <-time.After(10 * time.Second):
			t.Fatalf("deadlock: concurrent write did not finish")
		}
	}
	products, err := r.Products.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected both writes to land, got %d", len(products))
	}
}
