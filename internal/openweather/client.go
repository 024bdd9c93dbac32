// Package openweather wraps the OpenWeatherMap forecast and geocoding
// endpoints.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"agri-assist-api/internal/model"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL string, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type forecastResponse struct {
	List []struct {
		DtTxt string `json:"dt_txt"`
		Main  struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Rain struct {
			ThreeHours float64 `json:"3h"`
		} `json:"rain"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	} `json:"list"`
}

// Forecast returns a simplified five-entry forecast for a location name.
func (c *Client) Forecast(ctx context.Context, location string) ([]model.ForecastEntry, error) {
	endpoint := fmt.Sprintf("%s/data/2.5/forecast?q=%s&appid=%s&units=metric",
		c.baseURL, url.QueryEscape(location), url.QueryEscape(c.apiKey))

	var parsed forecastResponse
	if err := c.getJSON(ctx, endpoint, &parsed); err != nil {
		return nil, err
	}

	entries := parsed.List
	if len(entries) > 5 {
		entries = entries[:5]
	}

	forecast := make([]model.ForecastEntry, 0, len(entries))
	for _, entry := range entries {
		forecast = append(forecast, model.ForecastEntry{
			Datetime: entry.DtTxt,
			Temp:     entry.Main.Temp,
			Humidity: entry.Main.Humidity,
			Rain:     entry.Rain.ThreeHours,
			Wind:     entry.Wind.Speed,
		})
	}

	return forecast, nil
}

type geocodeHit struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// Geocode resolves a location name to coordinates using the first hit.
func (c *Client) Geocode(ctx context.Context, location string) (float64, float64, error) {
	endpoint := fmt.Sprintf("%s/geo/1.0/direct?q=%s&limit=1&appid=%s",
		c.baseURL, url.QueryEscape(location), url.QueryEscape(c.apiKey))

	var hits []geocodeHit
	if err := c.getJSON(ctx, endpoint, &hits); err != nil {
		return 0, 0, err
	}

	if len(hits) == 0 || hits[0].Lat == nil || hits[0].Lon == nil {
		return 0, 0, fmt.Errorf("no geocoding result for %q", location)
	}

	return *hits[0].Lat, *hits[0].Lon, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call openweathermap: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("openweathermap returned %d: %s", resp.StatusCode, string(snippet))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
