package handler

import (
	"net/http"

	"agri-assist-api/internal/service"
)

type WeatherHandler struct {
	service *service.WeatherService
}

func NewWeatherHandler(service *service.WeatherService) *WeatherHandler {
	return &WeatherHandler{service: service}
}

func (h *WeatherHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	forecast, err := h.service.Forecast(r.Context(), r.URL.Query().Get("location"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, forecast)
}
