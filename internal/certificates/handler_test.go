package certificates

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/MavuriAlekhya2005/docverify/internal/auth"
	"github.com/MavuriAlekhya2005/docverify/pkg/pagination"
)

type fakeSystem struct {
	created *CreateCommand
}

func (f *fakeSystem) List(ctx context.Context, page pagination.PageRequest, owner *uuid.UUID, filters Filters) (*pagination.PageResult[Certificate], error) {
	panic("not used")
}

func (f *fakeSystem) Find(ctx context.Context, id uuid.UUID) (*Certificate, error) {
	panic("not used")
}

func (f *fakeSystem) FindByHash(ctx context.Context, contentHash string) (*Certificate, error) {
	panic("not used")
}

func (f *fakeSystem) Create(ctx context.Context, cmd CreateCommand) (*Certificate, string, error) {
	f.created = &cmd
	return &Certificate{
		ID:          uuid.New(),
		OwnerID:     cmd.OwnerID,
		Name:        cmd.Name,
		Filename:    cmd.Filename,
		ContentType: cmd.ContentType,
		SizeBytes:   cmd.SizeBytes,
	}, "one-time-key", nil
}

func (f *fakeSystem) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Certificate, error) {
	panic("not used")
}

func (f *fakeSystem) Delete(ctx context.Context, id uuid.UUID) error {
	panic("not used")
}

func (f *fakeSystem) Download(ctx context.Context, id uuid.UUID) ([]byte, *Certificate, error) {
	panic("not used")
}

func (f *fakeSystem) Requeue(ctx context.Context, id uuid.UUID) error {
	panic("not used")
}

func (f *fakeSystem) RecordVerification(ctx context.Context, id uuid.UUID) error {
	panic("not used")
}

func (f *fakeSystem) UnlockFull(ctx context.Context, id uuid.UUID, accessKey string) (*FullDetails, error) {
	panic("not used")
}

func (f *fakeSystem) ClaimPending(ctx context.Context) (*Certificate, error) {
	panic("not used")
}

func (f *fakeSystem) CompleteExtraction(ctx context.Context, id uuid.UUID, primary *PrimaryDetails, full *FullDetails) error {
	panic("not used")
}

func (f *fakeSystem) FailExtraction(ctx context.Context, id uuid.UUID, reason string) error {
	panic("not used")
}

func (f *fakeSystem) ResetStale(ctx context.Context, lease time.Duration) (int64, error) {
	panic("not used")
}

func uploadHandler(sys System, maxUploadSize int64) *Handler {
	logger := slog.New(slog.DiscardHandler)
	return NewHandler(sys, nil, logger, pagination.Config{}, maxUploadSize)
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func doUpload(h *Handler, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(auth.WithClaims(req.Context(), auth.Claims{
		UserID: uuid.New(),
		Role:   "user",
	}))

	rec := httptest.NewRecorder()
	h.Upload(rec, req)
	return rec
}

func TestUpload(t *testing.T) {
	fake := &fakeSystem{}
	h := uploadHandler(fake, 1<<20)

	body, contentType := multipartBody(t, "diploma.txt", []byte("certificate content"))
	rec := doUpload(h, body, contentType)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp UploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AccessKey != "one-time-key" {
		t.Errorf("expected access key in response, got %q", resp.AccessKey)
	}
	if fake.created == nil || fake.created.Filename != "diploma.txt" {
		t.Errorf("unexpected create command: %+v", fake.created)
	}
}

func TestUpload_TooLarge(t *testing.T) {
	h := uploadHandler(&fakeSystem{}, 16)

	body, contentType := multipartBody(t, "big.txt", []byte(strings.Repeat("x", 256)))
	rec := doUpload(h, body, contentType)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUpload_MalformedBody(t *testing.T) {
	h := uploadHandler(&fakeSystem{}, 1<<20)

	// A multipart content type over a body that is not multipart encoded
	// is a client error, not an oversized upload.
	body := bytes.NewBufferString("this is not a multipart payload")
	rec := doUpload(h, body, "multipart/form-data; boundary=deadbeef")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}
