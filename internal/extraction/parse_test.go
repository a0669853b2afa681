package extraction

import (
	"testing"

	"github.com/MavuriAlekhya2005/docverify/internal/certificates"
)

func TestParsePrimaryDetails(t *testing.T) {
	text := `STATE UNIVERSITY
This is to certify that Jordan Rivera
has been awarded the degree of Bachelor of Science.
Certificate No: SU-2024-00719
Issued by: State University Registrar
Date: 2024-06-15`

	details := parsePrimaryDetails(text)
	if details == nil {
		t.Fatal("expected details, got nil")
	}

	if details.DocumentType != "degree" {
		t.Errorf("expected document type degree, got %q", details.DocumentType)
	}
	if details.HolderName != "Jordan Rivera" {
		t.Errorf("unexpected holder: %q", details.HolderName)
	}
	if details.Issuer != "State University Registrar" {
		t.Errorf("unexpected issuer: %q", details.Issuer)
	}
	if details.ReferenceNumber != "SU-2024-00719" {
		t.Errorf("unexpected reference: %q", details.ReferenceNumber)
	}
	if details.IssueDate != "2024-06-15" {
		t.Errorf("unexpected date: %q", details.IssueDate)
	}
}

func TestParsePrimaryDetails_NoMatches(t *testing.T) {
	if details := parsePrimaryDetails("nothing recognizable here"); details != nil {
		t.Errorf("expected nil, got %+v", details)
	}
	if details := parsePrimaryDetails("   \n\t"); details != nil {
		t.Errorf("expected nil for blank text, got %+v", details)
	}
}

func TestDetectDocumentType(t *testing.T) {
	tests := []struct {
		text     string
		expected string
	}{
		{"Diploma of Higher Education", "diploma"},
		{"Official Academic TRANSCRIPT", "transcript"},
		{"Professional certification in welding", "certification"},
		{"Certificate of completion", "certificate"},
		{"Grocery list", ""},
	}

	for _, tc := range tests {
		if got := detectDocumentType(tc.text); got != tc.expected {
			t.Errorf("%q: expected %q, got %q", tc.text, tc.expected, got)
		}
	}
}

func TestDetectIssueDate(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"iso", "Issued 2024-06-15 in good standing", "2024-06-15"},
		{"long", "Awarded on June 15, 2024 by the board", "2024-06-15"},
		{"long no comma", "Awarded on June 15 2024 by the board", "2024-06-15"},
		{"slash", "Date: 15/06/2024", "15/06/2024"},
		{"iso wins", "2024-06-15 also known as June 16, 2024", "2024-06-15"},
		{"none", "no date in sight", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := detectIssueDate(tc.text); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestExtractText_PlainText(t *testing.T) {
	text, err := extractText("text/plain", []byte("hello certificate"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "hello certificate" {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestExtractText_UnknownType(t *testing.T) {
	text, err := extractText("image/png", []byte{0x89, 0x50, 0x4e, 0x47})
	if err != nil {
		t.Fatalf("unknown types must not fail: %v", err)
	}
	if text != "" {
		t.Errorf("expected empty text, got %q", text)
	}
}

func TestExtractText_CorruptPDF(t *testing.T) {
	if _, err := extractText("application/pdf", []byte("not a pdf")); err == nil {
		t.Error("expected error for corrupt pdf")
	}
}

func TestBuildMetadata(t *testing.T) {
	pages := 3
	cert := &certificates.Certificate{
		Filename:    "diploma.pdf",
		ContentType: "application/pdf",
		SizeBytes:   2048,
		PageCount:   &pages,
	}

	meta := buildMetadata(cert)
	if meta["filename"] != "diploma.pdf" || meta["content_type"] != "application/pdf" {
		t.Errorf("identity metadata missing: %v", meta)
	}
	if meta["size_bytes"] != "2048" || meta["pages"] != "3" {
		t.Errorf("numeric metadata missing: %v", meta)
	}

	cert.PageCount = nil
	if _, ok := buildMetadata(cert)["pages"]; ok {
		t.Error("pages must be omitted when unknown")
	}
}
