package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/diewo77/go-pos/httpx"
	"github.com/diewo77/go-pos/internal/config"
	"github.com/diewo77/go-pos/internal/repository"
	"github.com/diewo77/go-pos/internal/services"
	"github.com/shopspring/decimal"
)

type ReportHandler struct {
	Repos *repository.Registry
	Cfg   config.Config
}

func NewReportHandler(repos *repository.Registry, cfg config.Config) *ReportHandler {
	return &ReportHandler{Repos: repos, Cfg: cfg}
}

func queryInt(r *http.Request, name string, def, max int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= max {
			return n
		}
	}
	return def
}

// Summary: GET /reports/summary
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sales, err := h.Repos.Sales.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, services.Summarize(sales))
}

// Daily: GET /reports/daily?days=7
func (h *ReportHandler) Daily(w http.ResponseWriter, r *http.Request) {
	sales, err := h.Repos.Sales.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	days := queryInt(r, "days", 7, 90)
	httpx.JSON(w, http.StatusOK, map[string]any{"series": services.DailyTotals(sales, days)})
}

// TopProducts: GET /reports/top-products?limit=5
func (h *ReportHandler) TopProducts(w http.ResponseWriter, r *http.Request) {
	sales, err := h.Repos.Sales.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	limit := queryInt(r, "limit", 5, 50)
	httpx.JSON(w, http.StatusOK, map[string]any{"series": services.TopProducts(sales, limit)})
}

// Dashboard: GET /dashboard. Quick stats, low-stock alerts and recent
// activity in one payload.
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sales, err := h.Repos.Sales.List(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	products, err := h.Repos.Products.List(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	customers, err := h.Repos.Customers.List(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	todaySum := decimal.Zero
	todayOrders := 0
	now := time.Now()
	for _, s := range sales {
		d := s.Date.Local()
		if d.Year() == now.Year() && d.YearDay() == now.YearDay() {
			todaySum = todaySum.Add(decimal.NewFromFloat(s.Total))
			todayOrders++
		}
	}
	todaySales, _ := todaySum.Round(2).Float64()

	httpx.JSON(w, http.StatusOK, map[string]any{
		"stats": map[string]any{
			"productCount":  len(products),
			"customerCount": len(customers),
			"todaySales":    todaySales,
			"todayOrders":   todayOrders,
		},
		"summary":     services.Summarize(sales),
		"lowStock":    services.LowStock(products, h.Cfg.LowStockThreshold),
		"recentSales": services.RecentSales(sales, 5),
	})
}
