package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/diewo77/go-pos/internal/models"
	"github.com/diewo77/go-pos/internal/repository"
	"github.com/diewo77/go-pos/internal/store"
	"go.uber.org/zap"
)

// SeedDemo writes the demo dataset into any collection whose key
// is absent. Existing data is never overwritten.
func SeedDemo(ctx context.Context, reg *repository.Registry) error {
	seeded := 0

	if absent, err := keyAbsent(ctx, reg, store.KeyProducts); err != nil {
		return err
	} else if absent {
		if err := reg.Products.ReplaceAll(ctx, demoProducts()); err != nil {
			return err
		}
		seeded++
	}

	if absent, err := keyAbsent(ctx, reg, store.KeyCustomers); err != nil {
		return err
	} else if absent {
		if err := reg.Customers.ReplaceAll(ctx, demoCustomers()); err != nil {
			return err
		}
		seeded++
	}

	if absent, err := keyAbsent(ctx, reg, store.KeySales); err != nil {
		return err
	} else if absent {
		// The sales log has no bulk write on purpose; seeding goes through
		// the store directly.
		raw, err := json.Marshal(demoSales())
		if err != nil {
			return err
		}
		if err := reg.Store.Set(ctx, store.KeySales, raw); err != nil {
			return err
		}
		seeded++
	}

	if seeded > 0 {
		zap.L().Info("seeded demo data", zap.Int("collections", seeded))
	}
	return nil
}

func keyAbsent(ctx context.Context, reg *repository.Registry, key string) (bool, error) {
	_, ok, err := reg.Store.Get(ctx, key)
	return !ok, err
}

func demoProducts() []models.Product {
	return []models.Product{
		{ID: "1", Name: "Laptop", Price: 999.99, Stock: 50, Category: "Electronics"},
		{ID: "2", Name: "Smartphone", Price: 599.99, Stock: 100, Category: "Electronics"},
		{ID: "3", Name: "Headphones", Price: 99.99, Stock: 200, Category: "Accessories"},
		{ID: "4", Name: "Mouse", Price: 29.99, Stock: 150, Category: "Accessories"},
		{ID: "5", Name: "Keyboard", Price: 49.99, Stock: 100, Category: "Accessories"},
	}
}

func demoCustomers() []models.Customer {
	return []models.Customer{
		{ID: "1", Name: "John Doe", Email: "john@example.com", Phone: "123-456-7890", TotalOrders: 5, TotalPaidAmount: 2999.95},
		{ID: "2", Name: "Jane Smith", Email: "jane@example.com", Phone: "098-765-4321", TotalOrders: 3, TotalPaidAmount: 1799.97},
	}
}

func demoSales() []models.Sale {
	now := time.Now()
	return []models.Sale{
		{
			ID: "1", CustomerID: "1", CustomerName: "John Doe",
			Items: []models.CartItem{
				{ID: "1", Name: "Laptop", Price: 999.99, Quantity: 2},
				{ID: "3", Name: "Headphones", Price: 99.99, Quantity: 1},
			},
			Subtotal: 2099.97, DiscountPercent: 5, DiscountAmount: 105.00, Total: 1994.97,
			Date: now.Add(-24 * time.Hour),
		},
		{
			ID: "2", CustomerID: "2", CustomerName: "Jane Smith",
			Items: []models.CartItem{
				{ID: "2", Name: "Smartphone", Price: 599.99, Quantity: 1},
				{ID: "4", Name: "Mouse", Price: 29.99, Quantity: 1},
			},
			Subtotal: 629.98, DiscountPercent: 0, DiscountAmount: 0, Total: 629.98,
			Date: now,
		},
	}
}
