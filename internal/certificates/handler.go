package certificates

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/MavuriAlekhya2005/docverify/internal/auth"
	"github.com/MavuriAlekhya2005/docverify/pkg/handlers"
	"github.com/MavuriAlekhya2005/docverify/pkg/pagination"
	"github.com/MavuriAlekhya2005/docverify/pkg/routes"
)

// Handler provides HTTP endpoints for certificate upload and management.
type Handler struct {
	sys           System
	tokens        *auth.Tokens
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// NewHandler creates a certificate handler with the specified configuration.
func NewHandler(sys System, tokens *auth.Tokens, logger *slog.Logger, pagination pagination.Config, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		tokens:        tokens,
		logger:        logger.With("handler", "certificates"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the certificate endpoint route group. Every route
// requires authentication.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/certificates",
		Tags:        []string{"Certificates"},
		Description: "Certificate management",
		Middleware:  middlewares(auth.Require(h.tokens, h.logger)),
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: Spec.Find},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update, OpenAPI: Spec.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, OpenAPI: Spec.Delete},
			{Method: "GET", Pattern: "/{id}/download", Handler: h.Download, OpenAPI: Spec.Download},
			{Method: "POST", Pattern: "/{id}/extract", Handler: h.Extract, OpenAPI: Spec.Extract},
		},
	}
}

// UploadRoutes returns the upload endpoint route group.
func (h *Handler) UploadRoutes() routes.Group {
	return routes.Group{
		Prefix:      "/upload",
		Tags:        []string{"Certificates"},
		Description: "Certificate upload",
		Middleware:  middlewares(auth.Require(h.tokens, h.logger)),
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Upload, OpenAPI: Spec.Upload},
		},
	}
}

func middlewares(mw ...func(http.Handler) http.Handler) []func(http.Handler) http.Handler {
	return mw
}

// UploadResponse carries the created certificate and its plaintext access
// key. The key is shown exactly once; only its hash is stored.
type UploadResponse struct {
	Certificate *Certificate `json:"certificate"`
	AccessKey   string       `json:"access_key"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, auth.ErrTokenInvalid)
		return
	}

	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	// Admins see every certificate; everyone else sees their own.
	owner := &claims.UserID
	if claims.Role == auth.RoleAdmin {
		owner = nil
		if raw := r.URL.Query().Get("owner_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
				return
			}
			owner = &id
		}
	}

	result, err := h.sys.List(r.Context(), page, owner, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	cert, ok := h.authorized(w, r)
	if !ok {
		return
	}

	handlers.RespondJSON(w, http.StatusOK, cert)
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, auth.ErrTokenInvalid)
		return
	}

	if r.ContentLength > h.maxUploadSize {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadSize {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	contentType := detectContentType(header.Header.Get("Content-Type"), data)

	name := r.FormValue("name")
	if name == "" {
		name = header.Filename
	}

	var pageCount *int
	if contentType == "application/pdf" {
		pc, err := extractPDFPageCount(data)
		if err != nil {
			h.logger.Warn("failed to extract pdf page count", "error", err)
		} else {
			pageCount = pc
		}
	}

	cmd := CreateCommand{
		OwnerID:     claims.UserID,
		Name:        name,
		Filename:    header.Filename,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		PageCount:   pageCount,
		Data:        data,
	}

	cert, accessKey, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, UploadResponse{
		Certificate: cert,
		AccessKey:   accessKey,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	cert, ok := h.authorized(w, r)
	if !ok {
		return
	}

	var cmd UpdateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	updated, err := h.sys.Update(r.Context(), cert.ID, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	cert, ok := h.authorized(w, r)
	if !ok {
		return
	}

	if err := h.sys.Delete(r.Context(), cert.ID); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	cert, ok := h.authorized(w, r)
	if !ok {
		return
	}

	data, cert, err := h.sys.Download(r.Context(), cert.ID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.Header().Set("Content-Type", cert.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", cert.Filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	cert, ok := h.authorized(w, r)
	if !ok {
		return
	}

	if err := h.sys.Requeue(r.Context(), cert.ID); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// authorized resolves the path id and enforces ownership. Admins may act
// on any certificate. On failure the response has already been written.
func (h *Handler) authorized(w http.ResponseWriter, r *http.Request) (*Certificate, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, auth.ErrTokenInvalid)
		return nil, false
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return nil, false
	}

	cert, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return nil, false
	}

	if cert.OwnerID != claims.UserID && claims.Role != auth.RoleAdmin {
		handlers.RespondError(w, h.logger, http.StatusForbidden, auth.ErrForbidden)
		return nil, false
	}

	return cert, true
}

func detectContentType(header string, data []byte) string {
	if header != "" && header != "application/octet-stream" {
		return header
	}
	return http.DetectContentType(data)
}

func extractPDFPageCount(data []byte) (*int, error) {
	count, err := api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return nil, err
	}
	return &count, nil
}
