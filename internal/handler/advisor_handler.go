package handler

import (
	"net/http"

	"agri-assist-api/internal/model"
	"agri-assist-api/internal/service"
)

// AdvisorHandler covers the conversational endpoints: chatbot, organic
// farming tips, and crop recommendation.
type AdvisorHandler struct {
	service *service.AdvisorService
}

func NewAdvisorHandler(service *service.AdvisorService) *AdvisorHandler {
	return &AdvisorHandler{service: service}
}

func (h *AdvisorHandler) Chat(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.ChatRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	reply, err := h.service.Chat(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"reply": reply})
}

func (h *AdvisorHandler) Tips(w http.ResponseWriter, r *http.Request) {
	tips, err := h.service.Tips(r.Context(), r.URL.Query().Get("category"), r.URL.Query().Get("stage"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"tips": tips})
}

func (h *AdvisorHandler) CropRecommendation(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CropRecommendationRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	// Degrades to a canned table on upstream failure, never an error.
	table := h.service.CropRecommendation(r.Context(), payload)
	writeSuccess(w, http.StatusOK, map[string]any{"table": table})
}
