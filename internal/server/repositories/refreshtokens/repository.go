// Package refreshtokens declares the server-side repository contract for
// refresh credential records (digests of active refresh tokens).
package refreshtokens

import (
	"context"
	"time"
)

// Repository defines operations for issuing, consuming, and revoking refresh
// credential records. Tokens are addressed by digest only.
type Repository interface {
	// Create stores a new credential record for userID.
	Create(ctx context.Context, userID string, tokenHash string, expiresAt time.Time) error

	// DeleteByHash removes the record matching (userID, tokenHash) in a single
	// statement and reports whether a row was removed. Two callers racing on
	// the same record can never both get true.
	DeleteByHash(ctx context.Context, userID string, tokenHash string) (bool, error)

	// DeleteAllForUser removes every credential record of userID.
	DeleteAllForUser(ctx context.Context, userID string) (int64, error)

	// DeleteExpired removes records whose expiry is before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
