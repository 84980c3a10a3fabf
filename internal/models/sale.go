package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one sale line. Name and Price are snapshots taken when the
// item entered the cart; later product edits do not touch them.
type CartItem struct {
	ID       string  `json:"id"` // product id
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Sale is an immutable, append-only record of a completed sale (the invoice).
type Sale struct {
	ID              string     `json:"id"`
	CustomerID      string     `json:"customerId"`
	CustomerName    string     `json:"customerName"`
	Items           []CartItem `json:"items"`
	Subtotal        float64    `json:"subtotal"`
	DiscountPercent float64    `json:"discountPercent"`
	DiscountAmount  float64    `json:"discountAmount"`
	Total           float64    `json:"total"`
	Date            time.Time  `json:"date"`
}

func (s *Sale) RecordID() string      { return s.ID }
func (s *Sale) SetRecordID(id string) { s.ID = id }

func (s *Sale) Stamp(now time.Time, isNew bool) {
	if isNew && s.Date.IsZero() {
		s.Date = now
	}
}

// Round2 rounds to two decimals (cents) using exact decimal arithmetic.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Normalize defaults fields that older sale records stored without
// (pre-discount revisions lacked subtotal/discountAmount). Applied once when
// a collection is loaded, never per-read.
func (s *Sale) Normalize() {
	if s.Subtotal == 0 && len(s.Items) > 0 {
		sum := decimal.Zero
		for _, it := range s.Items {
			sum = sum.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
		s.Subtotal, _ = sum.Round(2).Float64()
	}
	if s.Total == 0 && s.Subtotal > 0 {
		if s.DiscountAmount == 0 && s.DiscountPercent > 0 {
			amt := decimal.NewFromFloat(s.Subtotal).
				Mul(decimal.NewFromFloat(s.DiscountPercent)).
				Div(decimal.NewFromInt(100))
			s.DiscountAmount, _ = amt.Round(2).Float64()
		}
		s.Total = Round2(s.Subtotal - s.DiscountAmount)
	}
	if s.DiscountAmount == 0 && s.DiscountPercent > 0 {
		s.DiscountAmount = Round2(s.Subtotal - s.Total)
	}
}

// NormalizeSales applies Normalize to every record in a loaded collection.
func NormalizeSales(sales []Sale) {
	for i := range sales {
		sales[i].Normalize()
	}
}
