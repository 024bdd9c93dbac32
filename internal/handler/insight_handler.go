package handler

import (
	"net/http"

	"agri-assist-api/internal/model"
	"agri-assist-api/internal/service"
)

type InsightHandler struct {
	service *service.InsightService
}

func NewInsightHandler(service *service.InsightService) *InsightHandler {
	return &InsightHandler{service: service}
}

func (h *InsightHandler) Insight(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.InsightRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	insight, err := h.service.Insight(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, insight)
}
