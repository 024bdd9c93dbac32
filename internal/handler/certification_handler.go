package handler

import (
	"net/http"

	"agri-assist-api/internal/middleware"
	"agri-assist-api/internal/model"
	"agri-assist-api/internal/service"
	"agri-assist-api/pkg/apierror"
)

// CertificationHandler lets authenticated users file equipment
// certification requests for superuser review.
type CertificationHandler struct {
	service *service.MarketService
}

func NewCertificationHandler(service *service.MarketService) *CertificationHandler {
	return &CertificationHandler{service: service}
}

func (h *CertificationHandler) CreateEquipmentRequest(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	var payload model.EquipmentRequestInput
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	request, err := h.service.CreateEquipmentRequest(r.Context(), claims.UserID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, request)
}
