package verification

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/MavuriAlekhya2005/docverify/internal/certificates"
	"github.com/MavuriAlekhya2005/docverify/pkg/pagination"
)

const testHash = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

// fakeSystem stubs the certificate operations the verification surface
// touches. Everything else panics to catch accidental use.
type fakeSystem struct {
	cert          *certificates.Certificate
	verifications int
	fullAccess    int
	accessKey     string
}

func (f *fakeSystem) FindByHash(_ context.Context, hash string) (*certificates.Certificate, error) {
	if f.cert != nil && f.cert.ContentHash == hash {
		return f.cert, nil
	}
	return nil, certificates.ErrNotFound
}

func (f *fakeSystem) RecordVerification(context.Context, uuid.UUID) error {
	f.verifications++
	return nil
}

func (f *fakeSystem) UnlockFull(_ context.Context, _ uuid.UUID, key string) (*certificates.FullDetails, error) {
	if key != f.accessKey {
		return nil, certificates.ErrAccessDenied
	}
	if f.cert.FullDetails == nil {
		return nil, certificates.ErrDetailsUnavailable
	}
	f.fullAccess++
	return f.cert.FullDetails, nil
}

func (f *fakeSystem) List(context.Context, pagination.PageRequest, *uuid.UUID, certificates.Filters) (*pagination.PageResult[certificates.Certificate], error) {
	panic("not used")
}
func (f *fakeSystem) Find(context.Context, uuid.UUID) (*certificates.Certificate, error) {
	panic("not used")
}
func (f *fakeSystem) Create(context.Context, certificates.CreateCommand) (*certificates.Certificate, string, error) {
	panic("not used")
}
func (f *fakeSystem) Update(context.Context, uuid.UUID, certificates.UpdateCommand) (*certificates.Certificate, error) {
	panic("not used")
}
func (f *fakeSystem) Delete(context.Context, uuid.UUID) error { panic("not used") }
func (f *fakeSystem) Download(context.Context, uuid.UUID) ([]byte, *certificates.Certificate, error) {
	panic("not used")
}
func (f *fakeSystem) Requeue(context.Context, uuid.UUID) error { panic("not used") }
func (f *fakeSystem) ClaimPending(context.Context) (*certificates.Certificate, error) {
	panic("not used")
}
func (f *fakeSystem) CompleteExtraction(context.Context, uuid.UUID, *certificates.PrimaryDetails, *certificates.FullDetails) error {
	panic("not used")
}
func (f *fakeSystem) FailExtraction(context.Context, uuid.UUID, string) error { panic("not used") }
func (f *fakeSystem) ResetStale(context.Context, time.Duration) (int64, error) {
	panic("not used")
}

func newFake() *fakeSystem {
	return &fakeSystem{
		accessKey: "OPENSESAME",
		cert: &certificates.Certificate{
			ID:               uuid.New(),
			ContentHash:      testHash,
			ExtractionStatus: certificates.ExtractionCompleted,
			VerificationSummary: &certificates.Summary{
				Name:        "Diploma",
				ContentHash: testHash,
				Status:      "completed",
				Anchored:    true,
			},
			FullDetails: &certificates.FullDetails{Text: "full text"},
		},
	}
}

func testHandler(sys certificates.System) *Handler {
	return NewHandler(sys, slog.New(slog.DiscardHandler))
}

func doRequest(t *testing.T, h http.HandlerFunc, method, pattern, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc(method+" "+pattern, h)

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestVerify(t *testing.T) {
	fake := newFake()
	h := testHandler(fake)

	rec := doRequest(t, h.Verify, "GET", "/verify/{hash}", "/verify/"+testHash, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.ContentHash != testHash || !result.Anchored || result.Status != "completed" {
		t.Errorf("unexpected result: %+v", result)
	}
	if fake.verifications != 1 {
		t.Errorf("expected 1 verification recorded, got %d", fake.verifications)
	}
}

func TestVerify_UnknownHash(t *testing.T) {
	h := testHandler(&fakeSystem{})

	unknown := strings.Repeat("b", 64)
	rec := doRequest(t, h.Verify, "GET", "/verify/{hash}", "/verify/"+unknown, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}

	var result Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.ContentHash != unknown || result.Status != "not_found" {
		t.Errorf("unexpected result body: %+v", result)
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	h := testHandler(newFake())

	rec := doRequest(t, h.Verify, "GET", "/verify/{hash}", "/verify/nothex", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestFull(t *testing.T) {
	fake := newFake()
	h := testHandler(fake)

	body := []byte(`{"access_key": "OPENSESAME"}`)
	rec := doRequest(t, h.Full, "POST", "/verify/{hash}/full", "/verify/"+testHash+"/full", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var details certificates.FullDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &details); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if details.Text != "full text" {
		t.Errorf("unexpected details: %+v", details)
	}
	if fake.fullAccess != 1 {
		t.Errorf("expected 1 full access recorded, got %d", fake.fullAccess)
	}
}

func TestFull_WrongKey(t *testing.T) {
	h := testHandler(newFake())

	body := []byte(`{"access_key": "GUESSING"}`)
	rec := doRequest(t, h.Full, "POST", "/verify/{hash}/full", "/verify/"+testHash+"/full", body)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestQR(t *testing.T) {
	h := testHandler(newFake())

	rec := doRequest(t, h.QR, "GET", "/verify/{hash}/qr", "/verify/"+testHash+"/qr?size=200", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected png content")
	}
}

func TestQRSize(t *testing.T) {
	tests := []struct {
		raw      string
		expected int
	}{
		{"", defaultQRSize},
		{"junk", defaultQRSize},
		{"300", 300},
		{"1", minQRSize},
		{"9000", maxQRSize},
	}

	for _, tc := range tests {
		if got := qrSize(tc.raw); got != tc.expected {
			t.Errorf("qrSize(%q): expected %d, got %d", tc.raw, tc.expected, got)
		}
	}
}

func TestVerifyURL(t *testing.T) {
	req := httptest.NewRequest("GET", "http://docs.example/api/verify/"+testHash+"/qr", nil)
	if got := verifyURL(req, testHash); got != "http://docs.example/api/verify/"+testHash {
		t.Errorf("unexpected url: %q", got)
	}

	req.Header.Set("X-Forwarded-Proto", "https")
	if got := verifyURL(req, testHash); !strings.HasPrefix(got, "https://") {
		t.Errorf("expected https url, got %q", got)
	}
}
