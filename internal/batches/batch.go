// Package batches groups completed certificates into merkle batches and
// anchors their roots. A batch freezes its member set at creation; the
// merkle root commits to every member's content hash, ordered by leaf
// index, and inclusion proofs are generated on demand from those hashes.
package batches

import (
	"time"

	"github.com/google/uuid"

	"github.com/MavuriAlekhya2005/docverify/pkg/merkle"
)

// Status tracks a batch through the anchoring workflow.
type Status string

// Batch status constants.
const (
	StatusPending   Status = "pending"
	StatusSubmitted Status = "submitted"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
)

// Batch represents an anchored group of certificates.
type Batch struct {
	ID          uuid.UUID  `json:"id"`
	MerkleRoot  string     `json:"merkle_root"`
	LeafCount   int        `json:"leaf_count"`
	Status      Status     `json:"status"`
	TxID        *string    `json:"tx_id,omitempty"`
	AnchorError *string    `json:"anchor_error,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Member is a certificate's position within a batch.
type Member struct {
	CertificateID uuid.UUID `json:"certificate_id"`
	ContentHash   string    `json:"content_hash"`
	LeafIndex     int       `json:"leaf_index"`
}

// InclusionProof carries everything needed to verify that a certificate's
// content hash is committed by an anchored merkle root.
type InclusionProof struct {
	CertificateID uuid.UUID    `json:"certificate_id"`
	ContentHash   string       `json:"content_hash"`
	LeafIndex     int          `json:"leaf_index"`
	BatchID       uuid.UUID    `json:"batch_id"`
	MerkleRoot    string       `json:"merkle_root"`
	BatchStatus   Status       `json:"batch_status"`
	TxID          *string      `json:"tx_id,omitempty"`
	Proof         merkle.Proof `json:"proof"`
}
