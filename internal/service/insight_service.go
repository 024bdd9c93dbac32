package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"math"
	"strings"

	"agri-assist-api/internal/model"
	"agri-assist-api/pkg/apierror"
)

// geocoder resolves a location name to coordinates.
type geocoder interface {
	Geocode(ctx context.Context, location string) (float64, float64, error)
}

// InsightService produces vegetation-health reports. Geocoding failures
// never fail the operation: unresolvable locations get deterministic
// synthetic coordinates inside the India bounding box so downstream
// computation always has a result.
type InsightService struct {
	geo geocoder
}

func NewInsightService(geo geocoder) *InsightService {
	return &InsightService{geo: geo}
}

func (s *InsightService) Insight(ctx context.Context, req model.InsightRequest) (model.SatelliteInsight, error) {
	var lat, lon float64

	switch {
	case req.Lat != nil && req.Lon != nil:
		lat, lon = *req.Lat, *req.Lon
	case strings.TrimSpace(req.Location) != "":
		location := strings.TrimSpace(req.Location)
		var err error
		lat, lon, err = s.geo.Geocode(ctx, location)
		if err != nil {
			slog.Warn("geocoding failed, synthesizing coordinates", "location", location, "error", err)
			lat, lon = SynthesizeCoords(location)
		}
	default:
		return model.SatelliteInsight{}, apierror.BadRequest("Location or coordinates required")
	}

	ndvi := simulateNDVI(lat, lon)

	var status, color, recommendation string
	switch {
	case ndvi > 0.7:
		status, color = "Healthy", "green"
		recommendation = "Crops are healthy. Maintain current practices."
	case ndvi > 0.5:
		status, color = "Moderate", "yellow"
		recommendation = "Monitor crops for stress. Consider irrigation or nutrients."
	default:
		status, color = "Unhealthy", "red"
		recommendation = "Crops may be stressed. Investigate for pests, drought, or disease."
	}

	location := strings.TrimSpace(req.Location)
	if location == "" {
		location = fmt.Sprintf("%v,%v", lat, lon)
	}

	return model.SatelliteInsight{
		Location:       location,
		Lat:            lat,
		Lon:            lon,
		NDVI:           ndvi,
		Status:         status,
		Color:          color,
		Recommendation: recommendation,
	}, nil
}

// SynthesizeCoords derives stable coordinates from a location string,
// constrained to the India bounding box (lat 8-37, lon 68-97). The same
// string always maps to the same point.
func SynthesizeCoords(location string) (float64, float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(location))))
	v := h.Sum64() % 2900

	lat := 8 + float64(v)/100.0  // 8.00 - 36.99
	lon := 68 + float64(v)/100.0 // 68.00 - 96.99
	return round4(lat), round4(lon)
}

// simulateNDVI maps coordinates to a stable value in [0.5, 0.9]. Real NDVI
// computation from satellite imagery is out of scope.
func simulateNDVI(lat float64, lon float64) float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%v,%v", lat, lon)))
	v := h.Sum64() % 100

	return math.Round((0.5+0.4*float64(v)/100)*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
