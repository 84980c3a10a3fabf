package repository

import (
	"context"

	"github.com/diewo77/go-pos/internal/models"
)

// SalesLog is the append-only view over the sales collection. There is
// deliberately no update or delete: sale records are immutable once written
// and snapshot customer name and item prices at sale time.
type SalesLog struct {
	c *Collection[models.Sale, *models.Sale]
}

func (l *SalesLog) List(ctx context.Context) ([]models.Sale, error) {
	return l.c.List(ctx)
}

func (l *SalesLog) Get(ctx context.Context, id string) (*models.Sale, error) {
	return l.c.Get(ctx, id)
}

// Append writes a new sale record, assigning its time-based id.
func (l *SalesLog) Append(ctx context.Context, sale *models.Sale) error {
	return l.c.Add(ctx, sale)
}
