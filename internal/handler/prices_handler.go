package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"agri-assist-api/internal/model"
	"agri-assist-api/internal/service"
	"agri-assist-api/pkg/apierror"
)

type PricesHandler struct {
	service *service.PriceService
}

func NewPricesHandler(service *service.PriceService) *PricesHandler {
	return &PricesHandler{service: service}
}

// GetPrices serves a crop-price quote. The live lookup can fail (LLM down,
// unparseable output); the client still gets a usable answer via the
// deterministic estimate, clearly labeled as such.
func (h *PricesHandler) GetPrices(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.PriceLookupRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	quote, err := h.service.GetPrices(r.Context(), payload.Location, payload.CropName)
	if err != nil {
		var apiErr *apierror.APIError
		if errors.As(err, &apiErr) && apiErr.Code == "BAD_REQUEST" {
			writeError(w, err)
			return
		}

		slog.Warn("live price lookup failed, serving estimate",
			"location", payload.Location, "crop", payload.CropName, "error", err)
		quote = h.service.FallbackPrices(payload.Location, payload.CropName, false)
	}

	// Best-effort enrichment; on failure the field is omitted entirely.
	if insights, err := h.service.MarketInsights(r.Context(), payload.CropName, payload.Location); err == nil {
		quote.Data.MarketInsights = insights
	}

	writeSuccess(w, http.StatusOK, quote)
}

func (h *PricesHandler) PopularCrops(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{"crops": h.service.PopularCrops()})
}
