package models

import "time"

// Product is a catalog item. Stock is mutated only by sale completion and
// manual edits; prices on historical sales are snapshots and do not follow
// later edits.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	Category  string    `json:"category"` // Category.ID reference (legacy records may carry a name)
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

func (p *Product) RecordID() string      { return p.ID }
func (p *Product) SetRecordID(id string) { p.ID = id }

func (p *Product) Stamp(now time.Time, isNew bool) {
	if isNew {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}
