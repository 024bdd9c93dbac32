package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"agri-assist-api/internal/middleware"
	"agri-assist-api/internal/model"
	"agri-assist-api/internal/service"
	"agri-assist-api/pkg/apierror"
)

type MarketplaceHandler struct {
	service *service.MarketService
}

func NewMarketplaceHandler(service *service.MarketService) *MarketplaceHandler {
	return &MarketplaceHandler{service: service}
}

func (h *MarketplaceHandler) List(w http.ResponseWriter, r *http.Request) {
	listings, err := h.service.ListListings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, listings)
}

func (h *MarketplaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	listing, err := h.service.GetListing(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, listing)
}

func (h *MarketplaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	var payload model.CreateListingRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	listing, err := h.service.CreateListing(r.Context(), claims.UserID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, listing)
}

// Delete removes the caller's own listing. Privileged deletion of any
// listing lives on the superuser routes.
func (h *MarketplaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	if err := h.service.DeleteOwnListing(r.Context(), claims, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true})
}
