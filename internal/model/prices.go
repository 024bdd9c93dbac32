package model

// MandiPrice is one venue's quotation. All prices are INR per quintal
// (100 kg), which is how Indian wholesale markets publish them.
type MandiPrice struct {
	MandiName       string `json:"mandi_name"`
	PricePerQuintal int    `json:"price_per_quintal"`
	MinPrice        int    `json:"min_price"`
	MaxPrice        int    `json:"max_price"`
	Quality         string `json:"quality,omitempty"`
	LastUpdated     string `json:"last_updated,omitempty"`
	Source          string `json:"source,omitempty"`
}

type PriceData struct {
	Location       string       `json:"location"`
	CropName       string       `json:"crop_name"`
	MandiPrices    []MandiPrice `json:"mandi_prices"`
	LastUpdated    string       `json:"last_updated"`
	Note           string       `json:"note,omitempty"`
	MarketInsights string       `json:"market_insights,omitempty"`
	Pending        bool         `json:"pending,omitempty"`
}

// PriceQuote is the cached unit: quotes are passed and stored by value so a
// caller enriching its copy (market insights) never mutates the cache entry.
type PriceQuote struct {
	Success bool      `json:"success"`
	Data    PriceData `json:"data"`
}
