package services

import (
	"testing"
	"time"

	"github.com/diewo77/go-pos/internal/models"
)

func saleOn(day time.Time, total float64, items ...models.CartItem) models.Sale {
	return models.Sale{Items: items, Total: total, Date: day}
}

func TestSummarize(t *testing.T) {
	if got := Summarize(nil); got.TotalSales != 0 || got.TotalOrders != 0 || got.AverageOrder != 0 {
		t.Fatalf("empty log should be all zeros, got %+v", got)
	}
	sales := []models.Sale{
		saleOn(time.Now(), 10.50),
		saleOn(time.Now(), 20.25),
		saleOn(time.Now(), 30.25),
	}
	got := Summarize(sales)
	if got.TotalSales != 61.00 {
		t.Fatalf("total: want 61.00 got %v", got.TotalSales)
	}
	if got.TotalOrders != 3 {
		t.Fatalf("orders: want 3 got %d", got.TotalOrders)
	}
	if got.AverageOrder != 20.33 {
		t.Fatalf("average: want 20.33 got %v", got.AverageOrder)
	}
}

func TestDailyTotalsEmptyPlaceholder(t *testing.T) {
	got := DailyTotals(nil, 7)
	if len(got) != 1 || got[0].Label != "No data" || got[0].Amount != 0 {
		t.Fatalf("expected the No data placeholder, got %+v", got)
	}
}

func TestDailyTotalsGroupsAndWindows(t *testing.T) {
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.Local)
	var sales []models.Sale
	// Ten consecutive days, two sales on the last one.
	for i := 0; i < 10; i++ {
		sales = append(sales, saleOn(base.AddDate(0, 0, i), 100))
	}
	sales = append(sales, saleOn(base.AddDate(0, 0, 9).Add(3*time.Hour), 50))

	got := DailyTotals(sales, 7)
	if len(got) != 7 {
		t.Fatalf("expected 7 points, got %d", len(got))
	}
	if got[0].Label != "Mar 13" {
		t.Fatalf("window should start at Mar 13, got %s", got[0].Label)
	}
	last := got[len(got)-1]
	if last.Label != "Mar 19" || last.Amount != 150 {
		t.Fatalf("last day should sum both sales: %+v", last)
	}
}

func TestTopProducts(t *testing.T) {
	sales := []models.Sale{
		{Items: []models.CartItem{
			{Name: "Laptop", Quantity: 2},
			{Name: "Mouse", Quantity: 5},
		}},
		{Items: []models.CartItem{
			{Name: "Laptop", Quantity: 4},
			{Name: "Keyboard", Quantity: 5},
		}},
	}
	got := TopProducts(sales, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Name != "Laptop" || got[0].Quantity != 6 {
		t.Fatalf("expected Laptop 6 first, got %+v", got[0])
	}
	// Mouse and Keyboard tie at 5; first encountered wins.
	if got[1].Name != "Mouse" {
		t.Fatalf("tie should keep encounter order, got %+v", got[1])
	}
	if len(TopProducts(nil, 5)) != 0 {
		t.Fatalf("empty log yields no entries")
	}
}

func TestLowStock(t *testing.T) {
	products := []models.Product{
		{Name: "A", Stock: 11},
		{Name: "B", Stock: 3},
		{Name: "C", Stock: 10},
		{Name: "D", Stock: 0},
	}
	got := LowStock(products, 10)
	if len(got) != 3 {
		t.Fatalf("expected 3 low-stock products, got %d", len(got))
	}
	if got[0].Name != "D" || got[1].Name != "B" || got[2].Name != "C" {
		t.Fatalf("expected ascending stock order, got %+v", got)
	}
}

func TestRecentSales(t *testing.T) {
	now := time.Now()
	sales := []models.Sale{
		saleOn(now.Add(-48*time.Hour), 1),
		saleOn(now, 3),
		saleOn(now.Add(-24*time.Hour), 2),
	}
	got := RecentSales(sales, 2)
	if len(got) != 2 || got[0].Total != 3 || got[1].Total != 2 {
		t.Fatalf("expected newest first truncated to 2, got %+v", got)
	}
	if len(RecentSales(sales, 0)) != 3 {
		t.Fatalf("limit 0 returns everything")
	}
}
