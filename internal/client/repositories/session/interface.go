package session

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/neatly/internal/client/models"
)

var ErrNoSession = errors.New("no saved session")

type Repository interface {
	Load(ctx context.Context) (*models.Session, error)
	Save(ctx context.Context, s *models.Session) error
	Clear(ctx context.Context) error
}
