// Package verification exposes the public document verification surface.
// Anyone holding a content hash can look up the verification summary;
// presenting the certificate's access key unlocks the full extracted
// details. No route in this package requires authentication.
package verification

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"

	"github.com/skip2/go-qrcode"

	"github.com/MavuriAlekhya2005/docverify/internal/certificates"
	"github.com/MavuriAlekhya2005/docverify/pkg/handlers"
	"github.com/MavuriAlekhya2005/docverify/pkg/routes"
)

// QR image size bounds in pixels.
const (
	defaultQRSize = 256
	minQRSize     = 128
	maxQRSize     = 1024
)

var hashPattern = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// ErrInvalidHash indicates the path hash is not a hex SHA-256 digest.
var ErrInvalidHash = errors.New("hash must be a 64 character hex string")

// Handler provides the public verification endpoints.
type Handler struct {
	certs  certificates.System
	logger *slog.Logger
}

// NewHandler creates a verification handler.
func NewHandler(certs certificates.System, logger *slog.Logger) *Handler {
	return &Handler{
		certs:  certs,
		logger: logger.With("handler", "verification"),
	}
}

// Routes returns the public verification route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/verify",
		Tags:        []string{"Verification"},
		Description: "Public document verification",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{hash}", Handler: h.Verify, OpenAPI: Spec.Verify},
			{Method: "POST", Pattern: "/{hash}/full", Handler: h.Full, OpenAPI: Spec.Full},
			{Method: "GET", Pattern: "/{hash}/qr", Handler: h.QR, OpenAPI: Spec.QR},
		},
	}
}

// Result is the public verification response.
type Result struct {
	ContentHash string                `json:"content_hash"`
	Summary     *certificates.Summary `json:"summary,omitempty"`
	Status      string                `json:"status"`
	Anchored    bool                  `json:"anchored"`
}

type fullRequest struct {
	AccessKey string `json:"access_key"`
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	hash := r.PathValue("hash")
	if !hashPattern.MatchString(hash) {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidHash)
		return
	}

	cert, err := h.certs.FindByHash(r.Context(), hash)
	if errors.Is(err, certificates.ErrNotFound) {
		// Unknown hashes get a stable result body, not an error envelope.
		handlers.RespondJSON(w, http.StatusNotFound, Result{ContentHash: hash, Status: "not_found"})
		return
	}
	if err != nil {
		handlers.RespondError(w, h.logger, certificates.MapHTTPStatus(err), err)
		return
	}

	if err := h.certs.RecordVerification(r.Context(), cert.ID); err != nil {
		h.logger.Error("verification counter update failed", "id", cert.ID, "error", err)
	}

	result := Result{
		ContentHash: cert.ContentHash,
		Summary:     cert.VerificationSummary,
		Status:      string(cert.ExtractionStatus),
	}
	if cert.VerificationSummary != nil {
		result.Anchored = cert.VerificationSummary.Anchored
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Full(w http.ResponseWriter, r *http.Request) {
	cert, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req fullRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	details, err := h.certs.UnlockFull(r.Context(), cert.ID, req.AccessKey)
	if err != nil {
		handlers.RespondError(w, h.logger, certificates.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, details)
}

func (h *Handler) QR(w http.ResponseWriter, r *http.Request) {
	hash := r.PathValue("hash")
	if !hashPattern.MatchString(hash) {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidHash)
		return
	}

	png, err := qrcode.Encode(verifyURL(r, hash), qrcode.Medium, qrSize(r.URL.Query().Get("size")))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*certificates.Certificate, bool) {
	hash := r.PathValue("hash")
	if !hashPattern.MatchString(hash) {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidHash)
		return nil, false
	}

	cert, err := h.certs.FindByHash(r.Context(), hash)
	if err != nil {
		handlers.RespondError(w, h.logger, certificates.MapHTTPStatus(err), err)
		return nil, false
	}

	return cert, true
}

// verifyURL builds the public verification link the QR code encodes.
func verifyURL(r *http.Request, hash string) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/api/verify/" + hash
}

// qrSize parses and bounds the requested image size.
func qrSize(raw string) int {
	size, err := strconv.Atoi(raw)
	if err != nil {
		return defaultQRSize
	}
	return min(max(size, minQRSize), maxQRSize)
}
