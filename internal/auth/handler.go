package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alumni-hub/backend/internal/middleware"
	"github.com/alumni-hub/backend/internal/models"
	"github.com/alumni-hub/backend/internal/respond"
)

// Handler holds the auth HTTP handlers.
type Handler struct {
	svc *Service
}

// NewHandler creates the auth handler set.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		respond.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		slog.Error("login failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "Login failed")
		return
	}
	respond.JSON(w, http.StatusOK, res)
}

// Signup handles POST /auth/signup.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		respond.Error(w, http.StatusBadRequest, "Email, password, and name are required")
		return
	}

	res, err := h.svc.Signup(r.Context(), req.Email, req.Password, req.Name)
	if errors.Is(err, ErrUserExists) {
		respond.Error(w, http.StatusBadRequest, "User already exists")
		return
	}
	if err != nil {
		slog.Error("signup failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "Signup failed")
		return
	}
	respond.JSON(w, http.StatusOK, res)
}

// Logout handles POST /auth/logout. Revoking an unknown or missing
// token still succeeds; the end state is the same.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.BearerToken(r); token != "" {
		if err := h.svc.Logout(r.Context(), token); err != nil {
			slog.Error("logout failed", "error", err)
			respond.Error(w, http.StatusInternalServerError, "Logout failed")
			return
		}
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Verify handles GET /auth/verify. It runs behind RequireAuth, which
// already resolved the session.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]models.PublicUser{"user": user})
}

// Profile handles PUT /auth/profile.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	var patch models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.svc.UpdateProfile(r.Context(), middleware.TokenFrom(r.Context()), patch)
	switch {
	case errors.Is(err, ErrNoSession):
		respond.Error(w, http.StatusUnauthorized, "Invalid or expired session")
	case errors.Is(err, ErrUserNotFound):
		respond.Error(w, http.StatusNotFound, "User not found")
	case err != nil:
		slog.Error("profile update failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "Update failed")
	default:
		respond.JSON(w, http.StatusOK, map[string]models.PublicUser{"user": user})
	}
}
