package certificates

import (
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewAccessKey(t *testing.T) {
	seen := make(map[string]bool)
	for range 32 {
		key := newAccessKey()
		if len(key) != 32 {
			t.Fatalf("expected 32 character key, got %d: %q", len(key), key)
		}
		if seen[key] {
			t.Fatalf("duplicate access key generated: %q", key)
		}
		seen[key] = true
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "report.pdf", "report.pdf"},
		{"unix path", "/etc/passwd", "passwd"},
		{"windows path", `C:\Users\me\diploma.pdf`, "diploma.pdf"},
		{"traversal", "../../secret.pdf", "secret.pdf"},
		{"empty", "", "document"},
		{"dot", ".", "document"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := sanitizeFilename(tc.input); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestBuildStorageKey(t *testing.T) {
	id := uuid.New()
	key := buildStorageKey(id, "../diploma.pdf")
	expected := "certificates/" + id.String() + "/diploma.pdf"
	if key != expected {
		t.Errorf("expected %q, got %q", expected, key)
	}
}

func TestFiltersFromQuery(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		verify func(t *testing.T, f Filters)
	}{
		{
			name:  "empty",
			query: "",
			verify: func(t *testing.T, f Filters) {
				if f.ContentType != "" || f.ExtractionStatus != "" || f.Anchored != nil || f.Search != "" {
					t.Errorf("expected zero filters, got %+v", f)
				}
			},
		},
		{
			name:  "anchored true",
			query: "anchored=true",
			verify: func(t *testing.T, f Filters) {
				if f.Anchored == nil || !*f.Anchored {
					t.Error("expected anchored filter true")
				}
			},
		},
		{
			name:  "anchored false",
			query: "anchored=false",
			verify: func(t *testing.T, f Filters) {
				if f.Anchored == nil || *f.Anchored {
					t.Error("expected anchored filter false")
				}
			},
		},
		{
			name:  "anchored invalid",
			query: "anchored=maybe",
			verify: func(t *testing.T, f Filters) {
				if f.Anchored != nil {
					t.Error("expected invalid anchored value to be ignored")
				}
			},
		},
		{
			name:  "combined",
			query: "content_type=application/pdf&extraction_status=completed&search=diploma",
			verify: func(t *testing.T, f Filters) {
				if f.ContentType != "application/pdf" {
					t.Errorf("unexpected content type: %q", f.ContentType)
				}
				if f.ExtractionStatus != "completed" {
					t.Errorf("unexpected extraction status: %q", f.ExtractionStatus)
				}
				if f.Search != "diploma" {
					t.Errorf("unexpected search: %q", f.Search)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			values, err := url.ParseQuery(tc.query)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}
			tc.verify(t, FiltersFromQuery(values))
		})
	}
}

func TestBuildSummary(t *testing.T) {
	cert := &Certificate{
		Name:             "Diploma",
		ContentHash:      "abc123",
		ExtractionStatus: ExtractionCompleted,
		PrimaryDetails: &PrimaryDetails{
			DocumentType: "diploma",
			Issuer:       "State University",
			IssueDate:    "2024-06-15",
		},
	}

	s := BuildSummary(cert)
	if s.Name != "Diploma" || s.ContentHash != "abc123" {
		t.Errorf("identity fields not carried: %+v", s)
	}
	if s.Status != "completed" {
		t.Errorf("expected status completed, got %q", s.Status)
	}
	if s.DocumentType != "diploma" || s.Issuer != "State University" || s.IssueDate != "2024-06-15" {
		t.Errorf("primary fields not carried: %+v", s)
	}
	if s.Anchored {
		t.Error("new summary must not be anchored")
	}
}

func TestBuildSummary_NoPrimaryDetails(t *testing.T) {
	cert := &Certificate{
		Name:             "Pending",
		ContentHash:      "def456",
		ExtractionStatus: ExtractionPending,
	}

	s := BuildSummary(cert)
	if s.DocumentType != "" || s.Issuer != "" {
		t.Errorf("expected empty detail fields, got %+v", s)
	}
	if s.Status != "pending" {
		t.Errorf("expected status pending, got %q", s.Status)
	}
}

func TestPreserveAnchor(t *testing.T) {
	root := "deadbeef"
	tx := "tx-1"
	at := time.Now().UTC()

	prev := &Summary{Anchored: true, MerkleRoot: &root, TxID: &tx, AnchoredAt: &at}
	next := &Summary{Status: "completed"}

	preserveAnchor(next, prev)
	if !next.Anchored || next.MerkleRoot != &root || next.TxID != &tx || next.AnchoredAt != &at {
		t.Errorf("anchor data not preserved: %+v", next)
	}

	fresh := &Summary{}
	preserveAnchor(fresh, nil)
	if fresh.Anchored {
		t.Error("nil previous summary must not anchor")
	}

	unanchored := &Summary{}
	preserveAnchor(unanchored, &Summary{Anchored: false})
	if unanchored.Anchored {
		t.Error("unanchored previous summary must not anchor")
	}
}

func TestDeletable(t *testing.T) {
	if err := deletable(&Certificate{}); err != nil {
		t.Errorf("unbatched certificate must be deletable: %v", err)
	}

	// Batch membership blocks deletion regardless of the batch's anchor
	// state: a pending batch can still be resubmitted and confirmed with
	// its stored root.
	batchID := uuid.New()
	if err := deletable(&Certificate{BatchID: &batchID}); err != ErrBatched {
		t.Errorf("expected ErrBatched for batch member, got %v", err)
	}
}

func TestRequeueable(t *testing.T) {
	tests := []struct {
		status ExtractionStatus
		err    error
	}{
		{ExtractionFailed, nil},
		{ExtractionPending, ErrNotExtractable},
		{ExtractionProcessing, ErrNotExtractable},
		{ExtractionCompleted, ErrNotExtractable},
	}

	for _, tc := range tests {
		t.Run(string(tc.status), func(t *testing.T) {
			if err := requeueable(&Certificate{ExtractionStatus: tc.status}); err != tc.err {
				t.Errorf("expected %v, got %v", tc.err, err)
			}
		})
	}
}
