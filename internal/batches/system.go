package batches

import (
	"context"

	"github.com/google/uuid"

	"github.com/MavuriAlekhya2005/docverify/pkg/pagination"
)

// System defines the batch anchoring operations.
type System interface {
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Batch], error)
	Find(ctx context.Context, id uuid.UUID) (*Batch, error)
	Members(ctx context.Context, id uuid.UUID) ([]Member, error)

	// Create freezes the named certificates into a new batch, computes
	// the merkle root over their content hashes, and submits it for
	// anchoring. Every certificate must be completed and unbatched.
	// With no ids, every eligible certificate is batched; returns
	// ErrNoEligible when nothing is ready.
	Create(ctx context.Context, certificateIDs []uuid.UUID) (*Batch, error)

	// Refresh polls the anchoring backend for the batch's transaction
	// status and records any transition. Pending batches whose earlier
	// submission failed are resubmitted. Final states are returned
	// unchanged.
	Refresh(ctx context.Context, id uuid.UUID) (*Batch, error)

	// Prove builds an inclusion proof for the certificate's content hash
	// against its batch's merkle root. The proof is recomputed from the
	// stored member hashes and checked against the anchored root before
	// being returned.
	Prove(ctx context.Context, certificateID uuid.UUID) (*InclusionProof, error)
}
