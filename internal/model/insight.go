package model

// SatelliteInsight is a vegetation-health report for a field location. The
// NDVI value is simulated from the coordinates; real remote-sensing data is
// out of scope.
type SatelliteInsight struct {
	Location       string  `json:"location"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	NDVI           float64 `json:"ndvi"`
	Status         string  `json:"status"`
	Color          string  `json:"color"`
	Recommendation string  `json:"recommendation"`
}

type ForecastEntry struct {
	Datetime string  `json:"datetime"`
	Temp     float64 `json:"temp"`
	Humidity float64 `json:"humidity"`
	Rain     float64 `json:"rain"`
	Wind     float64 `json:"wind"`
}
