package users

import (
	"context"
	"errors"

	"github.com/xyz-asif/bookshelf/internal/middleware"
	apperr "github.com/xyz-asif/bookshelf/pkg/errors"
)

// Resolver adapts the users repository to the auth middleware, turning
// a verified token's user id into a live, active account.
type Resolver struct {
	repo *Repository
}

func NewResolver(repo *Repository) *Resolver {
	return &Resolver{repo: repo}
}

func (r *Resolver) Resolve(ctx context.Context, userID string) (*middleware.Identity, error) {
	user, err := r.repo.FindByID(ctx, userID)
	if err != nil {
		// A token carrying a malformed id resolves to no user.
		if errors.Is(err, apperr.ErrInvalidID) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, err
	}
	if user == nil {
		return nil, apperr.ErrUserNotFound
	}
	if !user.IsActive {
		return nil, apperr.ErrAccountInactive
	}
	return &middleware.Identity{UserID: user.ID.Hex(), Username: user.Username}, nil
}
