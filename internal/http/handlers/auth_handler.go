package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/staywell/staywell-server/internal/http/response"
	"github.com/staywell/staywell-server/internal/platform/auth"
	"github.com/staywell/staywell-server/internal/utils"
	"github.com/staywell/staywell-server/pkg/logger"
)

// AuthHandler issues and clears session cookies. Sign-in itself happens
// against the client-side identity provider; this endpoint turns a verified
// identity claim into a session token.
type AuthHandler struct {
	Codec      *auth.Codec
	CookieName string
	Production bool
}

func NewAuthHandler(codec *auth.Codec, cookieName string, production bool) *AuthHandler {
	return &AuthHandler{Codec: codec, CookieName: cookieName, Production: production}
}

// IssueToken handles POST /jwt
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid input")
		return
	}

	email := utils.NormalizeEmail(in.Email)
	if !utils.IsValidEmail(email) {
		response.BadRequest(w, "invalid email")
		return
	}

	token, err := h.Codec.Issue(email)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to sign session token", "error", err)
		response.InternalError(w, "failed to issue session")
		return
	}

	http.SetCookie(w, auth.SessionCookie(h.CookieName, token, h.Codec.TTL(), h.Production))
	response.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Logout handles GET /logout. It clears the client cookie only; the token
// stays cryptographically valid until expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, auth.ClearSessionCookie(h.CookieName, h.Production))
	response.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
