// Package certificates provides document upload, storage, and management.
// Each certificate stores its file content hash, a server-generated access
// key hash, and two tiers of extracted detail: primary details suitable
// for quick display and anchoring, and full details carrying the complete
// extracted text and metadata.
package certificates

import (
	"crypto/rand"
	"encoding/base32"
	"time"

	"github.com/google/uuid"
)

// ExtractionStatus tracks a certificate through the extraction pipeline.
type ExtractionStatus string

// Extraction status constants.
const (
	ExtractionPending    ExtractionStatus = "pending"
	ExtractionProcessing ExtractionStatus = "processing"
	ExtractionCompleted  ExtractionStatus = "completed"
	ExtractionFailed     ExtractionStatus = "failed"
)

// Certificate represents a stored document with extracted detail tiers and
// access tracking counters.
type Certificate struct {
	ID                  uuid.UUID        `json:"id"`
	OwnerID             uuid.UUID        `json:"owner_id"`
	Name                string           `json:"name"`
	Filename            string           `json:"filename"`
	ContentType         string           `json:"content_type"`
	SizeBytes           int64            `json:"size_bytes"`
	PageCount           *int             `json:"page_count,omitempty"`
	ContentHash         string           `json:"content_hash"`
	StorageKey          string           `json:"storage_key"`
	AccessKeyHash       string           `json:"-"`
	ExtractionStatus    ExtractionStatus `json:"extraction_status"`
	ExtractionError     *string          `json:"extraction_error,omitempty"`
	ProcessingStartedAt *time.Time       `json:"-"`
	PrimaryDetails      *PrimaryDetails  `json:"primary_details,omitempty"`
	FullDetails         *FullDetails     `json:"full_details,omitempty"`
	VerificationSummary *Summary         `json:"verification_summary,omitempty"`
	VerificationCount   int              `json:"verification_count"`
	FullAccessCount     int              `json:"full_access_count"`
	DownloadCount       int              `json:"download_count"`
	BatchID             *uuid.UUID       `json:"batch_id,omitempty"`
	LeafIndex           *int             `json:"leaf_index,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// PrimaryDetails is the quick-display extraction tier: the handful of
// fields worth showing before an access key is presented.
type PrimaryDetails struct {
	DocumentType    string `json:"document_type,omitempty"`
	HolderName      string `json:"holder_name,omitempty"`
	Issuer          string `json:"issuer,omitempty"`
	IssueDate       string `json:"issue_date,omitempty"`
	ReferenceNumber string `json:"reference_number,omitempty"`
}

// FullDetails is the complete extraction tier, unlocked by the access key.
type FullDetails struct {
	Text        string            `json:"text"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	ExtractedAt time.Time         `json:"extracted_at"`
}

// Summary is the precomputed public verification projection.
type Summary struct {
	Name         string     `json:"name"`
	DocumentType string     `json:"document_type,omitempty"`
	Issuer       string     `json:"issuer,omitempty"`
	IssueDate    string     `json:"issue_date,omitempty"`
	ContentHash  string     `json:"content_hash"`
	Status       string     `json:"status"`
	Anchored     bool       `json:"anchored"`
	MerkleRoot   *string    `json:"merkle_root,omitempty"`
	TxID         *string    `json:"tx_id,omitempty"`
	AnchoredAt   *time.Time `json:"anchored_at,omitempty"`
}

// BuildSummary computes the verification summary from the certificate's
// current state. Anchoring fields are filled separately when the batch
// confirms.
func BuildSummary(c *Certificate) *Summary {
	s := &Summary{
		Name:        c.Name,
		ContentHash: c.ContentHash,
		Status:      string(c.ExtractionStatus),
		Anchored:    false,
	}
	if c.PrimaryDetails != nil {
		s.DocumentType = c.PrimaryDetails.DocumentType
		s.Issuer = c.PrimaryDetails.Issuer
		s.IssueDate = c.PrimaryDetails.IssueDate
	}
	return s
}

// CreateCommand contains the data required to create a new certificate.
// Data holds the raw file bytes to be stored.
type CreateCommand struct {
	OwnerID     uuid.UUID
	Name        string
	Filename    string
	ContentType string
	SizeBytes   int64
	PageCount   *int
	Data        []byte
}

// UpdateCommand contains the fields that can be modified on an existing
// certificate. Only the display name can be changed; the stored file is
// immutable.
type UpdateCommand struct {
	Name string `json:"name"`
}

var accessKeyEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// newAccessKey generates a random access key. 20 bytes of entropy encode
// to a 32-character base32 string.
func newAccessKey() string {
	buf := make([]byte, 20)
	rand.Read(buf)
	return accessKeyEncoding.EncodeToString(buf)
}
