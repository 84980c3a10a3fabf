package models

import "time"

// Customer entity. TotalOrders and TotalPaidAmount are running aggregates
// maintained exclusively by sale completion.
type Customer struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Address         string    `json:"address"`
	TotalOrders     int       `json:"totalOrders"`
	TotalPaidAmount float64   `json:"totalPaidAmount"`
	CreatedAt       time.Time `json:"createdAt,omitzero"`
	UpdatedAt       time.Time `json:"updatedAt,omitzero"`
}

func (c *Customer) RecordID() string      { return c.ID }
func (c *Customer) SetRecordID(id string) { c.ID = id }

func (c *Customer) Stamp(now time.Time, isNew bool) {
	if isNew {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
}
