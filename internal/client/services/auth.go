// Package services contains application services for the neatly CLI.
// AuthService drives the remote auth API and keeps the local session file in
// step with it: every call that rotates tokens persists the new pair before
// returning.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/dmitrijs2005/neatly/internal/client/client"
	"github.com/dmitrijs2005/neatly/internal/client/models"
	"github.com/dmitrijs2005/neatly/internal/client/repositories/session"
	"github.com/dmitrijs2005/neatly/internal/netx"
)

var ErrNotLoggedIn = errors.New("not logged in")

// AuthService defines the account operations offered by the CLI.
type AuthService interface {
	Register(ctx context.Context, name, email string, password []byte) (*models.Identity, error)
	Login(ctx context.Context, email string, password []byte) (*models.Identity, error)
	Refresh(ctx context.Context) (*models.Identity, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.Identity, error)
	RemoteIdentity(ctx context.Context) (*models.Identity, error)
	UploadAvatar(ctx context.Context, path string) (string, error)
	Current(ctx context.Context) (*models.Session, error)
	Ping(ctx context.Context) error
	Close() error
}

type authService struct {
	client   client.Client
	identity client.IdentityClient
	sessions session.Repository
	upload   *http.Client
}

// NewAuthService binds the REST client, the gRPC client and the session store.
// identity may be nil, in which case the gRPC based calls report
// client.ErrUnavailable.
func NewAuthService(c client.Client, identity client.IdentityClient, sessions session.Repository) AuthService {
	return &authService{client: c, identity: identity, sessions: sessions}
}

func (a *authService) Register(ctx context.Context, name, email string, password []byte) (*models.Identity, error) {
	s, err := a.client.Register(ctx, name, email, password)
	if err != nil {
		return nil, fmt.Errorf("register error: %w", err)
	}
	return a.store(ctx, s)
}

func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.Identity, error) {
	s, err := a.client.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	return a.store(ctx, s)
}

// Refresh rotates the saved refresh token. When the server rejects it the
// local session is dropped: the token is spent either way, and a rejection
// after reuse detection means every session of the user is gone.
func (a *authService) Refresh(ctx context.Context) (*models.Identity, error) {
	cur, err := a.load(ctx)
	if err != nil {
		return nil, err
	}

	s, err := a.refresh(ctx, cur)
	if err != nil {
		return nil, err
	}
	return &s.User, nil
}

// Logout revokes the refresh token on the server when it can and always
// forgets the local session.
func (a *authService) Logout(ctx context.Context) error {
	cur, err := a.sessions.Load(ctx)
	if err != nil && !errors.Is(err, session.ErrNoSession) {
		return err
	}

	var token string
	if cur != nil {
		token = cur.RefreshToken
	}
	// server side logout never fails the user-visible operation
	_ = a.client.Logout(ctx, token)

	return a.sessions.Clear(ctx)
}

func (a *authService) Me(ctx context.Context) (*models.Identity, error) {
	var id *models.Identity
	err := a.withAccess(ctx, func(token string) error {
		var err error
		id, err = a.client.Me(ctx, token)
		return err
	})
	if err != nil {
		return nil, err
	}
	return id, nil
}

// RemoteIdentity fetches the caller's identity over gRPC.
func (a *authService) RemoteIdentity(ctx context.Context) (*models.Identity, error) {
	if a.identity == nil {
		return nil, client.ErrUnavailable
	}

	var id *models.Identity
	err := a.withAccess(ctx, func(token string) error {
		var err error
		id, err = a.identity.Me(ctx, token)
		return err
	})
	if err != nil {
		return nil, err
	}
	return id, nil
}

// UploadAvatar asks the server for a presigned URL and PUTs the file there.
// It returns the storage key the server recorded.
func (a *authService) UploadAvatar(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read avatar: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("avatar file %s is empty", path)
	}

	var up *models.AvatarUpload
	err = a.withAccess(ctx, func(token string) error {
		var err error
		up, err = a.client.CreateAvatarUpload(ctx, token)
		return err
	})
	if err != nil {
		return "", err
	}

	if err := netx.UploadToS3PresignedURL(ctx, a.upload, up.UploadURL, http.DetectContentType(data), data); err != nil {
		return "", err
	}
	return up.Key, nil
}

func (a *authService) Current(ctx context.Context) (*models.Session, error) {
	return a.load(ctx)
}

func (a *authService) Ping(ctx context.Context) error {
	if a.identity == nil {
		return client.ErrUnavailable
	}
	return a.identity.Ping(ctx)
}

func (a *authService) Close() error {
	if a.identity == nil {
		return nil
	}
	return a.identity.Close()
}

// withAccess runs call with the saved access token. If the server answers
// unauthorized, the session is refreshed once and call is retried.
func (a *authService) withAccess(ctx context.Context, call func(token string) error) error {
	cur, err := a.load(ctx)
	if err != nil {
		return err
	}

	err = call(cur.AccessToken)
	if !errors.Is(err, client.ErrUnauthorized) {
		return err
	}

	next, err := a.refresh(ctx, cur)
	if err != nil {
		return err
	}
	return call(next.AccessToken)
}

func (a *authService) refresh(ctx context.Context, cur *models.Session) (*models.Session, error) {
	s, err := a.client.Refresh(ctx, cur.RefreshToken)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			_ = a.sessions.Clear(ctx)
			return nil, fmt.Errorf("%w: session expired, please log in again", ErrNotLoggedIn)
		}
		return nil, fmt.Errorf("refresh error: %w", err)
	}

	if err := a.sessions.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	return s, nil
}

func (a *authService) load(ctx context.Context) (*models.Session, error) {
	s, err := a.sessions.Load(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil, ErrNotLoggedIn
		}
		return nil, err
	}
	return s, nil
}

func (a *authService) store(ctx context.Context, s *models.Session) (*models.Identity, error) {
	if err := a.sessions.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	return &s.User, nil
}
