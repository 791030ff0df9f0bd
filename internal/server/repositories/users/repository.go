// Package users declares the user-record half of the credential store.
package users

import (
	"context"

	"github.com/dmitrijs2005/neatly/internal/server/models"
)

// Repository persists user records. Email lookups are case-insensitive.
type Repository interface {
	// Create inserts the user and fills ID and timestamps.
	// Returns common.ErrConflict when the email is already registered.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetUserByEmail returns common.ErrorNotFound if nobody owns the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns common.ErrorNotFound if the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// SetAvatarKey records the object storage key of the user's avatar.
	SetAvatarKey(ctx context.Context, id string, key string) error
}
