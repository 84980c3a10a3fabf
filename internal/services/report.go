package services

import (
	"sort"
	"time"

	"github.com/diewo77/go-pos/internal/models"
	"github.com/shopspring/decimal"
)

// All reporting functions are pure over a point-in-time snapshot of the
// sales log; handlers fetch the snapshot and hand it over.

type DailyTotal struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// DailyTotals groups sales by local calendar date, sums totals per date,
// and returns the most recent windowDays distinct dates, oldest first.
// With no sales it returns a single "No data" point: charts render a flat
// placeholder instead of an empty axis.
func DailyTotals(sales []models.Sale, windowDays int) []DailyTotal {
	if windowDays <= 0 {
		windowDays = 7
	}
	if len(sales) == 0 {
		return []DailyTotal{{Label: "No data", Amount: 0}}
	}
	sums := map[time.Time]decimal.Decimal{}
	for _, s := range sales {
		d := s.Date.Local()
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
		sums[day] = sums[day].Add(decimal.NewFromFloat(s.Total))
	}
	days := make([]time.Time, 0, len(sums))
	for day := range sums {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	if len(days) > windowDays {
		days = days[len(days)-windowDays:]
	}
	out := make([]DailyTotal, 0, len(days))
	for _, day := range days {
		amount, _ := sums[day].Round(2).Float64()
		out = append(out, DailyTotal{Label: day.Format("Jan 2"), Amount: amount})
	}
	return out
}

type ProductQuantity struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// TopProducts sums item quantities by product name across all sales,
// descending by quantity. Ties keep first-encountered order; the stable
// sort over the encounter-ordered slice guarantees that.
func TopProducts(sales []models.Sale, limit int) []ProductQuantity {
	if limit <= 0 {
		limit = 5
	}
	index := map[string]int{}
	var out []ProductQuantity
	for _, s := range sales {
		for _, it := range s.Items {
			if i, ok := index[it.Name]; ok {
				out[i].Quantity += it.Quantity
				continue
			}
			index[it.Name] = len(out)
			out = append(out, ProductQuantity{Name: it.Name, Quantity: it.Quantity})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity > out[j].Quantity })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

type Summary struct {
	TotalSales   float64 `json:"totalSales"`
	TotalOrders  int     `json:"totalOrders"`
	AverageOrder float64 `json:"averageOrder"`
}

// Summarize aggregates the whole log. An empty log yields all zeros.
func Summarize(sales []models.Sale) Summary {
	if len(sales) == 0 {
		return Summary{}
	}
	sum := decimal.Zero
	for _, s := range sales {
		sum = sum.Add(decimal.NewFromFloat(s.Total))
	}
	total, _ := sum.Round(2).Float64()
	avg, _ := sum.Div(decimal.NewFromInt(int64(len(sales)))).Round(2).Float64()
	return Summary{TotalSales: total, TotalOrders: len(sales), AverageOrder: avg}
}

// LowStock lists products at or below the alert threshold, lowest first.
func LowStock(products []models.Product, threshold int) []models.Product {
	var out []models.Product
	for _, p := range products {
		if p.Stock <= threshold {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Stock < out[j].Stock })
	return out
}

// RecentSales returns the newest sales first, truncated to limit.
func RecentSales(sales []models.Sale, limit int) []models.Sale {
	out := append([]models.Sale(nil), sales...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
