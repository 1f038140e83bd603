package auth

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/inkpost/inkpost/internal/platform/httpx"
	"github.com/inkpost/inkpost/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger      *slog.Logger
	service     *Service
	provider    OAuthProvider
	states      *StateStore
	validator   *validator.Validate
	frontendURL string
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, provider OAuthProvider, states *StateStore, frontendURL string) *Handler {
	return &Handler{
		logger:      logger,
		service:     service,
		provider:    provider,
		states:      states,
		validator:   validator.New(),
		frontendURL: frontendURL,
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router, mw Middleware) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Get("/google", h.googleRedirect)
	r.Get("/google/callback", h.googleCallback)
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuth)
		r.Get("/me", h.me)
		r.Post("/logout", h.logout)
	})
}

type authResponse struct {
	httpx.Envelope
	Token string `json:"token"`
	User  *User  `json:"user"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, httpx.FirstValidationMessage(err))
		return
	}

	user, token, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.logger.Warn("register failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, authResponse{
		Envelope: httpx.OK("User registered successfully"),
		Token:    token,
		User:     user,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, httpx.FirstValidationMessage(err))
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, authResponse{
		Envelope: httpx.OK("Login successful"),
		Token:    token,
		User:     user,
	})
}

func (h *Handler) googleRedirect(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		httpx.Fail(w, http.StatusNotFound, "Google sign-in is not configured")
		return
	}
	state, err := h.states.Issue(r.Context())
	if err != nil {
		h.logger.Error("issue oauth state", slog.Any("error", err))
		h.redirectWithError(w, r, "oauth_error")
		return
	}
	http.Redirect(w, r, h.provider.AuthURL(state), http.StatusTemporaryRedirect)
}

// googleCallback is browser navigation, not an API call, so failures redirect
// to the frontend login page with an error query parameter instead of JSON.
func (h *Handler) googleCallback(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		httpx.Fail(w, http.StatusNotFound, "Google sign-in is not configured")
		return
	}
	ok, err := h.states.Consume(r.Context(), r.URL.Query().Get("state"))
	if err != nil {
		h.logger.Error("consume oauth state", slog.Any("error", err))
		h.redirectWithError(w, r, "oauth_error")
		return
	}
	if !ok {
		h.redirectWithError(w, r, "oauth_failed")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectWithError(w, r, "oauth_failed")
		return
	}

	profile, err := h.provider.FetchProfile(r.Context(), code)
	if err != nil {
		h.logger.Warn("oauth profile fetch", slog.Any("error", err))
		h.redirectWithError(w, r, "oauth_error")
		return
	}

	_, token, err := h.service.LoginWithGoogle(r.Context(), profile)
	if err != nil {
		h.logger.Error("oauth login", slog.Any("error", err))
		h.redirectWithError(w, r, "oauth_error")
		return
	}

	http.Redirect(w, r, h.frontendURL+"/login/success?token="+url.QueryEscape(token), http.StatusTemporaryRedirect)
}

func (h *Handler) redirectWithError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, h.frontendURL+"/login?error="+url.QueryEscape(code), http.StatusTemporaryRedirect)
}

type meResponse struct {
	httpx.Envelope
	User *User `json:"user"`
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, meResponse{
		Envelope: httpx.Envelope{Success: true},
		User:     UserFromContext(r.Context()),
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	if err := h.service.Logout(r.Context(), identity); err != nil {
		h.logger.Error("logout", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.OK("Logged out"))
}
