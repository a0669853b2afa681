package users

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/MavuriAlekhya2005/docverify/internal/auth"
	"github.com/MavuriAlekhya2005/docverify/pkg/handlers"
	"github.com/MavuriAlekhya2005/docverify/pkg/pagination"
	"github.com/MavuriAlekhya2005/docverify/pkg/routes"
)

// Handler provides HTTP endpoints for registration, login, and account
// administration.
type Handler struct {
	sys        System
	tokens     *auth.Tokens
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates an account handler with the specified configuration.
func NewHandler(sys System, tokens *auth.Tokens, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		tokens:     tokens,
		logger:     logger.With("handler", "users"),
		pagination: pagination,
	}
}

// Routes returns the authentication endpoint route group.
func (h *Handler) Routes() routes.Group {
	authenticated := auth.Require(h.tokens, h.logger)

	return routes.Group{
		Prefix:      "/auth",
		Tags:        []string{"Auth"},
		Description: "Registration, login, and session management",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/register", Handler: h.Register, OpenAPI: Spec.Register},
			{Method: "POST", Pattern: "/login", Handler: h.Login, OpenAPI: Spec.Login},
			{Method: "POST", Pattern: "/refresh", Handler: h.Refresh, Middleware: middlewares(authenticated), OpenAPI: Spec.Refresh},
			{Method: "GET", Pattern: "/me", Handler: h.Me, Middleware: middlewares(authenticated), OpenAPI: Spec.Me},
		},
	}
}

// AdminRoutes returns the administrative account route group.
func (h *Handler) AdminRoutes() routes.Group {
	return routes.Group{
		Prefix:      "/admin/users",
		Tags:        []string{"Admin"},
		Description: "Account administration",
		Middleware: middlewares(
			auth.Require(h.tokens, h.logger),
			auth.RequireAdmin(h.logger),
		),
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
		},
	}
}

func middlewares(mw ...func(http.Handler) http.Handler) []func(http.Handler) http.Handler {
	return mw
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries an issued token and its expiry alongside the account.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	// Self-registration never grants admin.
	cmd.Role = RoleUser

	user, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.respondToken(w, user, http.StatusCreated)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	user, err := h.sys.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.respondToken(w, user, http.StatusOK)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, auth.ErrTokenInvalid)
		return
	}

	user, err := h.sys.Find(r.Context(), claims.UserID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.respondToken(w, user, http.StatusOK)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, auth.ErrTokenInvalid)
		return
	}

	user, err := h.sys.Find(r.Context(), claims.UserID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, user)
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

func (h *Handler) respondToken(w http.ResponseWriter, user *User, status int) {
	token, expires, err := h.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, status, TokenResponse{
		Token:     token,
		ExpiresAt: expires,
		User:      user,
	})
}
