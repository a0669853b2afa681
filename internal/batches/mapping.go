package batches

import (
	"net/url"

	"github.com/MavuriAlekhya2005/docverify/pkg/query"
	"github.com/MavuriAlekhya2005/docverify/pkg/repository"
)

var projection = query.NewProjectionMap("public", "batches", "b").
	Project("id", "Id").
	Project("merkle_root", "MerkleRoot").
	Project("leaf_count", "LeafCount").
	Project("status", "Status").
	Project("tx_id", "TxId").
	Project("anchor_error", "AnchorError").
	Project("submitted_at", "SubmittedAt").
	Project("confirmed_at", "ConfirmedAt").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

func scanBatch(s repository.Scanner) (Batch, error) {
	var b Batch
	err := s.Scan(
		&b.ID,
		&b.MerkleRoot,
		&b.LeafCount,
		&b.Status,
		&b.TxID,
		&b.AnchorError,
		&b.SubmittedAt,
		&b.ConfirmedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return b, err
}

func scanMember(s repository.Scanner) (Member, error) {
	var m Member
	err := s.Scan(&m.CertificateID, &m.ContentHash, &m.LeafIndex)
	return m, err
}

// Filters narrows batch listings.
type Filters struct {
	Status string
}

// FiltersFromQuery extracts batch filters from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	return Filters{Status: values.Get("status")}
}

// Apply adds filter conditions to the query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	if f.Status != "" {
		b.WhereEquals("Status", f.Status)
	}
	return b
}
