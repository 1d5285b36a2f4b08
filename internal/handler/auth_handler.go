package handler

import (
	"encoding/json"
	"net/http"

	"kasirkita/internal/middleware"
	"kasirkita/internal/model"
	"kasirkita/internal/service"

	"github.com/rs/zerolog"
)

// AuthHandler handles registration, login and identity requests.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("handler", "auth").Logger(),
	}
}

// Register handles POST /api/auth/register requests. Accounts created
// here are always customers.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	resp, err := h.service.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger, nil)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// RegisterStaff handles POST /api/auth/register/staff requests, the
// admin-only path that may choose the admin or staff role.
func (h *AuthHandler) RegisterStaff(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	resp, err := h.service.RegisterStaff(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger, nil)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Login handles POST /api/auth/login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		// Credential failures respond 401, not the default 400.
		writeServiceError(w, err, h.logger, map[string]int{
			model.ErrCodeInvalidCredentials: http.StatusUnauthorized,
		})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Logout handles POST /api/auth/logout requests. Tokens are stateless;
// discarding one is the client's job, so this only acknowledges.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me handles GET /api/auth/me requests.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required", h.logger)
		return
	}

	user, err := h.service.GetUser(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, err, h.logger, nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]*model.User{"user": user})
}
