package handler

import (
	"net/http"

	"agri-assist-api/internal/middleware"
	"agri-assist-api/internal/model"
	"agri-assist-api/internal/service"
	"agri-assist-api/pkg/apierror"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RegisterRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Register(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, result)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Login(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result)
}

// Me echoes the verified token claims. No database round-trip: the claims
// are exactly what the token carries.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"user": claims})
}

// Logout exists for client symmetry. Tokens are stateless, so the client
// just discards its copy.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{"logged_out": true})
}

// SetRole changes an account's role, gated by the bootstrap admin secret
// rather than a token.
func (h *AuthHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.SetRoleRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.SetRole(r.Context(), adminSecret(r, payload.AdminSecret), payload); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"email": payload.Email, "role": payload.Role})
}

func (h *AuthHandler) SuLogin(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.SuLoginRequest
	_ = decodeJSON(r, &payload) // body is optional when the header carries the secret

	result, err := h.service.SuLogin(adminSecret(r, payload.AdminSecret))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result)
}

// adminSecret prefers the X-Admin-Secret header, falling back to the body
// field.
func adminSecret(r *http.Request, bodySecret string) string {
	if header := r.Header.Get("X-Admin-Secret"); header != "" {
		return header
	}
	return bodySecret
}
