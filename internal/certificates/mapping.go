package certificates

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/MavuriAlekhya2005/docverify/pkg/query"
	"github.com/MavuriAlekhya2005/docverify/pkg/repository"
)

var projection = query.NewProjectionMap("public", "certificates", "c").
	Project("id", "Id").
	Project("owner_id", "OwnerId").
	Project("name", "Name").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("content_hash", "ContentHash").
	Project("storage_key", "StorageKey").
	Project("access_key_hash", "AccessKeyHash").
	Project("extraction_status", "ExtractionStatus").
	Project("extraction_error", "ExtractionError").
	Project("processing_started_at", "ProcessingStartedAt").
	Project("primary_details", "PrimaryDetails").
	Project("full_details", "FullDetails").
	Project("verification_summary", "VerificationSummary").
	Project("verification_count", "VerificationCount").
	Project("full_access_count", "FullAccessCount").
	Project("download_count", "DownloadCount").
	Project("batch_id", "BatchId").
	Project("leaf_index", "LeafIndex").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

func scanCertificate(s repository.Scanner) (Certificate, error) {
	var (
		c       Certificate
		primary []byte
		full    []byte
		summary []byte
	)

	if err := s.Scan(
		&c.ID,
		&c.OwnerID,
		&c.Name,
		&c.Filename,
		&c.ContentType,
		&c.SizeBytes,
		&c.PageCount,
		&c.ContentHash,
		&c.StorageKey,
		&c.AccessKeyHash,
		&c.ExtractionStatus,
		&c.ExtractionError,
		&c.ProcessingStartedAt,
		&primary,
		&full,
		&summary,
		&c.VerificationCount,
		&c.FullAccessCount,
		&c.DownloadCount,
		&c.BatchID,
		&c.LeafIndex,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return c, err
	}

	if err := unmarshalDetail(primary, &c.PrimaryDetails); err != nil {
		return c, fmt.Errorf("primary details: %w", err)
	}
	if err := unmarshalDetail(full, &c.FullDetails); err != nil {
		return c, fmt.Errorf("full details: %w", err)
	}
	if err := unmarshalDetail(summary, &c.VerificationSummary); err != nil {
		return c, fmt.Errorf("verification summary: %w", err)
	}

	return c, nil
}

func unmarshalDetail[T any](raw []byte, target **T) error {
	if len(raw) == 0 {
		return nil
	}
	value := new(T)
	if err := json.Unmarshal(raw, value); err != nil {
		return err
	}
	*target = value
	return nil
}

func marshalDetail(value any) ([]byte, error) {
	if value == nil {
		return nil, nil
	}
	return json.Marshal(value)
}

// Filters narrows certificate listings.
type Filters struct {
	ContentType      string
	ExtractionStatus string
	Anchored         *bool
	Search           string
}

// FiltersFromQuery extracts listing filters from request query parameters.
func FiltersFromQuery(values url.Values) Filters {
	f := Filters{
		ContentType:      values.Get("content_type"),
		ExtractionStatus: values.Get("extraction_status"),
		Search:           values.Get("search"),
	}

	switch values.Get("anchored") {
	case "true":
		anchored := true
		f.Anchored = &anchored
	case "false":
		anchored := false
		f.Anchored = &anchored
	}

	return f
}

// Apply adds the active filters to the query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	if f.ContentType != "" {
		b.WhereEquals("ContentType", f.ContentType)
	}
	if f.ExtractionStatus != "" {
		b.WhereEquals("ExtractionStatus", f.ExtractionStatus)
	}
	if f.Anchored != nil {
		b.WhereNull("BatchId", !*f.Anchored)
	}
	if f.Search != "" {
		b.WhereSearch(&f.Search, "Name", "Filename")
	}
	return b
}
