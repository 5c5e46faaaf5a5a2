package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"methodquiz/internal/service"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authSvc *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// IssueToken handles POST /v1/auth/token
//
// @Summary Issue an anonymous learner token
// @Tags auth
// @Produce json
// @Success 201 {object} model.TokenResponse
// @Router /auth/token [post]
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	resp, err := h.authSvc.IssueLearnerToken()
	if err != nil {
		log.Printf("[Auth] token signing failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
