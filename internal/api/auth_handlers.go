package api

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/example/storefront/internal/api/middleware"
	"github.com/example/storefront/internal/auth"
)

// AuthHandlers serves the admin console session endpoints. There is no
// public registration; the single admin credential comes from configuration.
type AuthHandlers struct {
	jwtService   *auth.JWTService
	policy       *auth.Policy
	passwordHash string
	logger       *zap.Logger
}

func NewAuthHandlers(jwtService *auth.JWTService, policy *auth.Policy, passwordHash string, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		jwtService:   jwtService,
		policy:       policy,
		passwordHash: passwordHash,
		logger:       logger,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Login verifies the admin credential and sets the session cookie.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if !h.policy.IsAdmin(req.Email) || h.passwordHash == "" ||
		!auth.CheckPassword(req.Password, h.passwordHash) {
		h.logger.Warn("admin login rejected", zap.String("email", req.Email))
		respondJSONError(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	token, expiresAt, err := h.jwtService.GenerateToken(req.Email, auth.RoleAdmin)
	if err != nil {
		h.logger.Error("token generation failed", zap.Error(err))
		respondJSONError(w, "Could not create session", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("admin logged in", zap.String("email", req.Email))
	respondJSON(w, http.StatusOK, SessionResponse{
		Email:     req.Email,
		Role:      auth.RoleAdmin,
		ExpiresAt: expiresAt,
	})
}

// Logout clears the session cookie.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me returns the current session identity. Runs behind the admin middleware.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		respondJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	respondJSON(w, http.StatusOK, SessionResponse{Email: claims.Email, Role: claims.Role})
}
