package repository

import (
	"context"
	"strings"

	"github.com/diewo77/go-pos/internal/errs"
	"github.com/diewo77/go-pos/internal/models"
)

// FindUserByEmail looks up a user by email, case-insensitively.
func (r *Registry) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := r.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, errs.NotFound("user", email)
}
