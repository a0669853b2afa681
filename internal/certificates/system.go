package certificates

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MavuriAlekhya2005/docverify/pkg/pagination"
)

// System defines the certificate management operations.
type System interface {
	// List returns a page of certificates. A non-nil owner restricts the
	// listing to that user's certificates.
	List(ctx context.Context, page pagination.PageRequest, owner *uuid.UUID, filters Filters) (*pagination.PageResult[Certificate], error)
	Find(ctx context.Context, id uuid.UUID) (*Certificate, error)
	FindByHash(ctx context.Context, contentHash string) (*Certificate, error)

	// Create stores the file and inserts the certificate record. The
	// returned string is the plaintext access key; it is available only
	// from this call and is never recoverable afterwards.
	Create(ctx context.Context, cmd CreateCommand) (*Certificate, string, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Certificate, error)

	// Delete removes the certificate and its stored file. Batch members
	// cannot be deleted while their batch exists.
	Delete(ctx context.Context, id uuid.UUID) error

	// Download returns the stored file content and increments the
	// download counter.
	Download(ctx context.Context, id uuid.UUID) ([]byte, *Certificate, error)

	// Requeue marks a failed certificate pending so the extraction
	// workers pick it up again.
	Requeue(ctx context.Context, id uuid.UUID) error

	// RecordVerification increments the public verification counter.
	RecordVerification(ctx context.Context, id uuid.UUID) error

	// UnlockFull validates the access key against its stored hash and,
	// on success, returns the full detail tier and increments the full
	// access counter.
	UnlockFull(ctx context.Context, id uuid.UUID, accessKey string) (*FullDetails, error)

	// ClaimPending atomically claims one pending certificate for
	// extraction, marking it processing. Returns ErrNotFound when no
	// pending work exists.
	ClaimPending(ctx context.Context) (*Certificate, error)
	CompleteExtraction(ctx context.Context, id uuid.UUID, primary *PrimaryDetails, full *FullDetails) error
	FailExtraction(ctx context.Context, id uuid.UUID, reason string) error

	// ResetStale returns processing certificates whose lease expired to
	// pending. Used on startup and periodically to recover from worker
	// crashes.
	ResetStale(ctx context.Context, lease time.Duration) (int64, error)
}
