package service

import (
	"context"
	"strings"

	"agri-assist-api/internal/model"
	"agri-assist-api/pkg/apierror"
)

type forecaster interface {
	Forecast(ctx context.Context, location string) ([]model.ForecastEntry, error)
}

// WeatherService proxies the forecast collaborator.
type WeatherService struct {
	weather forecaster
}

func NewWeatherService(weather forecaster) *WeatherService {
	return &WeatherService{weather: weather}
}

func (s *WeatherService) Forecast(ctx context.Context, location string) ([]model.ForecastEntry, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, apierror.BadRequest("location is required")
	}

	forecast, err := s.weather.Forecast(ctx, location)
	if err != nil {
		return nil, apierror.Upstream("weather forecast", err)
	}

	return forecast, nil
}
