// Package services contains server-side business logic. This file implements
// AuthService, which registers users, logs them in, and issues and rotates
// access/refresh token pairs backed by server-stored refresh digests.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/neatly/internal/common"
	"github.com/dmitrijs2005/neatly/internal/cryptox"
	"github.com/dmitrijs2005/neatly/internal/dbx"
	"github.com/dmitrijs2005/neatly/internal/logging"
	"github.com/dmitrijs2005/neatly/internal/server/auth"
	"github.com/dmitrijs2005/neatly/internal/server/models"
	"github.com/dmitrijs2005/neatly/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthResult is what a successful register, login or refresh hands back.
type AuthResult struct {
	User models.Identity
	TokenPair
}

// AvatarLinker turns a stored avatar key into a URL clients can fetch.
type AvatarLinker interface {
	GetPresignedGetUrl(ctx context.Context, key string) (string, error)
}

// errRefreshMismatch aborts the rotation transaction when no stored record
// matched the presented token.
var errRefreshMismatch = errors.New("refresh record not found")

// AuthService provides the session lifecycle:
//   - Register / Login: verify or create credentials and mint tokens
//   - Refresh: one-time rotation of refresh tokens with reuse detection
//   - Logout: best-effort revocation
//   - GetIdentity: public profile of the authenticated user
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	codec       *auth.TokenCodec
	avatars     AvatarLinker
	logger      logging.Logger
	now         func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService constructs an AuthService. avatars may be nil when object
// storage is not configured.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, codec *auth.TokenCodec, avatars AvatarLinker, logger logging.Logger) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		codec:       codec,
		avatars:     avatars,
		logger:      logger.With("module", "auth"),
		now:         time.Now,
	}
}

// Register creates a new user and signs them in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", common.ErrValidation)
	}

	users := s.repomanager.Users(s.db)
	if _, err := users.GetUserByEmail(ctx, email); err == nil {
		return nil, common.ErrConflict
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	var (
		user *models.User
		pair *TokenPair
	)
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		user, err = s.repomanager.Users(tx).Create(ctx, &models.User{Name: name, Email: email, PasswordHash: hash})
		if err != nil {
			return err
		}
		pair, err = s.issueTokens(ctx, tx, user.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return &AuthResult{User: user.Identity(), TokenPair: *pair}, nil
}

// Login verifies credentials. Unknown email and wrong password produce the
// same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}

	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// keep the response time close to the wrong-password path
			_, _ = cryptox.ComparePassword(s.getDummyHash(), password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	ok, err := cryptox.ComparePassword(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("error checking password: %w", err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, s.db, user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: s.identity(ctx, user), TokenPair: *pair}, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// consumed atomically; presenting it again revokes every session of the user.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, common.ErrorUnauthorized
	}

	claims, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		s.logger.Debug(ctx, "refresh token rejected", "error", err)
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	digest := cryptox.DigestToken(refreshToken)

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		deleted, err := s.repomanager.RefreshTokens(tx).DeleteByHash(ctx, user.ID, digest)
		if err != nil {
			return err
		}
		if !deleted {
			return errRefreshMismatch
		}
		pair, err = s.issueTokens(ctx, tx, user.ID)
		return err
	})

	if errors.Is(err, errRefreshMismatch) {
		n, delErr := s.repomanager.RefreshTokens(s.db).DeleteAllForUser(ctx, user.ID)
		if delErr != nil {
			s.logger.Error(ctx, "failed to revoke sessions after refresh token reuse", "user_id", user.ID, "error", delErr)
			return nil, fmt.Errorf("error revoking sessions: %w", delErr)
		}
		s.logger.Warn(ctx, "refresh token reuse detected, all sessions revoked", "user_id", user.ID, "revoked", n)
		return nil, common.ErrReuseDetected
	}
	if err != nil {
		return nil, fmt.Errorf("error rotating refresh token: %w", err)
	}

	return &AuthResult{User: s.identity(ctx, user), TokenPair: *pair}, nil
}

// Logout revokes the given refresh token when it is recognisable. It never
// fails from the caller's point of view.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}

	claims, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		s.logger.Debug(ctx, "logout with unusable refresh token", "error", err)
		return
	}

	if _, err := s.repomanager.RefreshTokens(s.db).DeleteByHash(ctx, claims.UserID, cryptox.DigestToken(refreshToken)); err != nil {
		s.logger.Error(ctx, "failed to delete refresh token on logout", "user_id", claims.UserID, "error", err)
	}
}

// GetIdentity returns the public profile of userID.
func (s *AuthService) GetIdentity(ctx context.Context, userID string) (*models.Identity, error) {
	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}
	id := s.identity(ctx, user)
	return &id, nil
}

// PurgeExpired removes refresh records whose expiry has passed.
func (s *AuthService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.repomanager.RefreshTokens(s.db).DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("error purging refresh tokens: %w", err)
	}
	if n > 0 {
		s.logger.Info(ctx, "expired refresh tokens purged", "count", n)
	}
	return n, nil
}

// --- helpers below ---

func (s *AuthService) issueTokens(ctx context.Context, db dbx.DBTX, userID string) (*TokenPair, error) {
	access, err := s.codec.SignAccess(userID)
	if err != nil {
		return nil, fmt.Errorf("error signing access token: %w", err)
	}
	refresh, err := s.codec.SignRefresh(userID)
	if err != nil {
		return nil, fmt.Errorf("error signing refresh token: %w", err)
	}
	if err := s.repomanager.RefreshTokens(db).Create(ctx, userID, cryptox.DigestToken(refresh), s.codec.RefreshExpiry()); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) identity(ctx context.Context, u *models.User) models.Identity {
	id := u.Identity()
	if u.AvatarKey == "" || s.avatars == nil {
		return id
	}
	url, err := s.avatars.GetPresignedGetUrl(ctx, u.AvatarKey)
	if err != nil {
		s.logger.Warn(ctx, "failed to sign avatar url", "user_id", u.ID, "error", err)
		return id
	}
	id.AvatarURL = url
	return id
}

func (s *AuthService) getDummyHash() string {
	s.dummyOnce.Do(func() {
		pw, err := common.MakeRandHexString(16)
		if err != nil {
			return
		}
		if h, err := cryptox.HashPassword(pw); err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
