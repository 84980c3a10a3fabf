package models

import "time"

// Category groups products. Deletion is blocked while any product
// references it.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

func (c *Category) RecordID() string      { return c.ID }
func (c *Category) SetRecordID(id string) { c.ID = id }

// Stamp is a no-op: the source layout stores no timestamps on categories.
func (c *Category) Stamp(time.Time, bool) {}
