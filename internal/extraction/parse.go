package extraction

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/MavuriAlekhya2005/docverify/internal/certificates"
)

// extractText pulls plain text out of the file content. PDFs go through
// the pdf reader; text content types are used as-is; anything else yields
// no text without failing the extraction.
func extractText(contentType string, data []byte) (string, error) {
	switch {
	case contentType == "application/pdf":
		return extractPDFText(data)
	case strings.HasPrefix(contentType, "text/"):
		return string(data), nil
	default:
		return "", nil
	}
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	var buf strings.Builder
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read extracted text: %w", err)
	}
	return buf.String(), nil
}

var (
	referencePattern = regexp.MustCompile(`(?i)(?:certificate|reference|serial|registration)\s*(?:no|number|id)?\s*[:#.]?\s*([A-Z0-9][A-Z0-9/-]{3,})`)
	issuerPattern    = regexp.MustCompile(`(?i)(?:issued by|issuing authority|issuer)\s*[:.]?\s*([^\r\n]{2,80})`)
	holderPattern    = regexp.MustCompile(`(?i)(?:awarded to|presented to|this (?:is to )?certif(?:y|ies) that|holder)\s*[:.]?\s*([^\r\n]{2,80})`)
	isoDatePattern   = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	slashDatePattern = regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{4})\b`)
	longDatePattern  = regexp.MustCompile(`\b((?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4})\b`)
)

var documentTypes = []string{
	"diploma",
	"degree",
	"transcript",
	"license",
	"certification",
	"certificate",
}

// parsePrimaryDetails scans extracted text for the quick-display fields.
// Missing fields stay empty; a nil result means nothing was recognized.
func parsePrimaryDetails(text string) *certificates.PrimaryDetails {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	details := &certificates.PrimaryDetails{
		DocumentType:    detectDocumentType(text),
		HolderName:      firstGroup(holderPattern, text),
		Issuer:          firstGroup(issuerPattern, text),
		IssueDate:       detectIssueDate(text),
		ReferenceNumber: firstGroup(referencePattern, text),
	}

	if *details == (certificates.PrimaryDetails{}) {
		return nil
	}
	return details
}

func detectDocumentType(text string) string {
	lower := strings.ToLower(text)
	for _, t := range documentTypes {
		if strings.Contains(lower, t) {
			return t
		}
	}
	return ""
}

func detectIssueDate(text string) string {
	if m := isoDatePattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := longDatePattern.FindStringSubmatch(text); m != nil {
		for _, layout := range []string{"January 2, 2006", "January 2 2006"} {
			if parsed, err := time.Parse(layout, m[1]); err == nil {
				return parsed.Format("2006-01-02")
			}
		}
		return m[1]
	}
	if m := slashDatePattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

func firstGroup(pattern *regexp.Regexp, text string) string {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
