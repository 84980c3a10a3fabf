package repository

import (
	"context"
	"fmt"

	"github.com/diewo77/go-pos/internal/errs"
)

// DeleteCategory removes a category after checking that no product
// references it. The check and the delete are two reads apart; with the
// single-writer lock per key this is safe against concurrent category
// writes, and the product/category race window is accepted as in the
// writes. A product created between the check and the delete can still
// orphan its category reference; listings tolerate that.
func (r *Registry) DeleteCategory(ctx context.Context, id string) error {
	products, err := r.Products.List(ctx)
	if err != nil {
		return err
	}
	for _, p := range products {
		if p.Category == id {
			return fmt.Errorf("category %q in use by product %q: %w", id, p.ID, errs.ErrReferenced)
		}
	}
	return r.Categories.Delete(ctx, id)
}
