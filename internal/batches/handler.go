package batches

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/MavuriAlekhya2005/docverify/internal/auth"
	"github.com/MavuriAlekhya2005/docverify/pkg/handlers"
	"github.com/MavuriAlekhya2005/docverify/pkg/pagination"
	"github.com/MavuriAlekhya2005/docverify/pkg/routes"
)

// Handler provides HTTP endpoints for batch anchoring operations.
type Handler struct {
	sys        System
	tokens     *auth.Tokens
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a batch handler with the specified configuration.
func NewHandler(sys System, tokens *auth.Tokens, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		tokens:     tokens,
		logger:     logger.With("handler", "batches"),
		pagination: pagination,
	}
}

// Routes returns the batch endpoint route group. Reading batches requires
// authentication; creating them is administrative.
func (h *Handler) Routes() routes.Group {
	admin := middlewares(auth.RequireAdmin(h.logger))

	return routes.Group{
		Prefix:      "/blockchain/batches",
		Tags:        []string{"Batches"},
		Description: "Merkle batch anchoring",
		Middleware:  middlewares(auth.Require(h.tokens, h.logger)),
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "POST", Pattern: "", Handler: h.Create, Middleware: admin, OpenAPI: Spec.Create},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: Spec.Find},
			{Method: "GET", Pattern: "/{id}/members", Handler: h.Members, OpenAPI: Spec.Members},
			{Method: "GET", Pattern: "/{id}/status", Handler: h.Status, OpenAPI: Spec.Status},
		},
	}
}

// ProofRoutes returns the inclusion proof route group, mounted beside the
// certificate endpoints.
func (h *Handler) ProofRoutes() routes.Group {
	return routes.Group{
		Prefix:      "/certificates",
		Tags:        []string{"Batches"},
		Description: "Certificate inclusion proofs",
		Middleware:  middlewares(auth.Require(h.tokens, h.logger)),
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{id}/proof", Handler: h.Prove, OpenAPI: Spec.Prove},
		},
	}
}

func middlewares(mw ...func(http.Handler) http.Handler) []func(http.Handler) http.Handler {
	return mw
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	batch, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, batch)
}

func (h *Handler) Members(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if _, err := h.sys.Find(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	members, err := h.sys.Members(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, members)
}

type createRequest struct {
	CertificateIDs []uuid.UUID `json:"certificate_ids"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	// The body is optional; an empty request batches every eligible
	// certificate.
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	batch, err := h.sys.Create(r.Context(), req.CertificateIDs)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, batch)
}

// Status refreshes the batch from the anchoring backend before returning
// it, so polling clients always see the current transaction state.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	batch, err := h.sys.Refresh(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, batch)
}

func (h *Handler) Prove(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	proof, err := h.sys.Prove(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, proof)
}
