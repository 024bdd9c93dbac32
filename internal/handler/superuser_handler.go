package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"agri-assist-api/internal/middleware"
	"agri-assist-api/internal/service"
	"agri-assist-api/pkg/apierror"
)

// SuperuserHandler hosts the privileged mutations. Every route here is
// behind RequireSuperuser.
type SuperuserHandler struct {
	service *service.MarketService
}

func NewSuperuserHandler(service *service.MarketService) *SuperuserHandler {
	return &SuperuserHandler{service: service}
}

func (h *SuperuserHandler) VerifyListing(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	at, err := h.service.VerifyListing(r.Context(), claims.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"verified_at": at})
}

func (h *SuperuserHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	if err := h.service.AdminDeleteListing(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true})
}

func (h *SuperuserHandler) VerifyEquipment(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	at, err := h.service.VerifyEquipment(r.Context(), claims.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"verified_at": at})
}

func (h *SuperuserHandler) DeleteEquipment(w http.ResponseWriter, r *http.Request) {
	if err := h.service.AdminDeleteEquipment(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true})
}

func (h *SuperuserHandler) ListEquipmentRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.service.ListEquipmentRequests(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, requests)
}
