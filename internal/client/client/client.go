package client

import (
	"context"

	"github.com/dmitrijs2005/neatly/internal/client/models"
)

// Client is the REST auth API as seen by the CLI.
type Client interface {
	Register(ctx context.Context, name, email string, password []byte) (*models.Session, error)
	Login(ctx context.Context, email string, password []byte) (*models.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*models.Session, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, accessToken string) (*models.Identity, error)
	CreateAvatarUpload(ctx context.Context, accessToken string) (*models.AvatarUpload, error)
}

// IdentityClient is the gRPC side of the server.
type IdentityClient interface {
	Ping(ctx context.Context) error
	Me(ctx context.Context, accessToken string) (*models.Identity, error)
	Close() error
}
