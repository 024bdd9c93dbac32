package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"agri-assist-api/internal/model"
	"agri-assist-api/internal/pricecache"
	"agri-assist-api/internal/textmine"
	"agri-assist-api/pkg/apierror"
)

// textGenerator is the LLM collaborator contract: a prompt in, free-form
// text out. Output format is not guaranteed, so responses are parsed
// defensively (strict JSON, then heuristic mining, then failure).
type textGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// PriceService serves crop-price lookups with bounded upstream cost:
// results are memoized per normalized (location, crop) key for the cache
// TTL, and concurrent lookups for the same key are collapsed into one
// upstream call.
type PriceService struct {
	llm   textGenerator
	cache *pricecache.Cache
	group singleflight.Group
	now   func() time.Time
}

func NewPriceService(llm textGenerator, cache *pricecache.Cache) *PriceService {
	return &PriceService{
		llm:   llm,
		cache: cache,
		now:   time.Now,
	}
}

// SetClock overrides the time source. Intended for tests.
func (s *PriceService) SetClock(now func() time.Time) {
	s.now = now
}

// GetPrices returns the cached quote when fresh, otherwise fetches
// synchronously and replaces the entry. There is no stale-while-revalidate:
// a stale entry always costs one upstream call.
func (s *PriceService) GetPrices(ctx context.Context, location string, cropName string) (model.PriceQuote, error) {
	location = strings.TrimSpace(location)
	cropName = strings.TrimSpace(cropName)
	if location == "" || cropName == "" {
		return model.PriceQuote{}, apierror.BadRequest("Location and crop name are required")
	}

	key := pricecache.Key(location, cropName)
	if quote, ok := s.cache.Get(key); ok {
		return quote, nil
	}

	result, err, _ := s.group.Do(key, func() (any, error) {
		quote, err := s.fetchPrices(ctx, location, cropName)
		if err != nil {
			return nil, err
		}
		s.cache.Put(key, quote)
		return quote, nil
	})
	if err != nil {
		return model.PriceQuote{}, err
	}

	return result.(model.PriceQuote), nil
}

func (s *PriceService) fetchPrices(ctx context.Context, location string, cropName string) (model.PriceQuote, error) {
	text, err := s.llm.GenerateText(ctx, priceLookupPrompt(location, cropName))
	if err != nil {
		return model.PriceQuote{}, apierror.Upstream("crop price lookup", err)
	}

	if block, ok := textmine.FirstJSONBlock(text); ok {
		var quote model.PriceQuote
		if err := json.Unmarshal([]byte(block), &quote); err == nil && len(quote.Data.MandiPrices) > 0 {
			quote.Success = true
			return quote, nil
		}
	}

	quote, err := textmine.MineQuote(text, location, cropName, s.now())
	if err != nil {
		return model.PriceQuote{}, apierror.Upstream("crop price lookup", err)
	}

	return quote, nil
}

type priceBand struct {
	base, min, max int
}

var cropPriceBands = map[string]priceBand{
	"rice":       {1800, 1700, 1900},
	"wheat":      {2100, 2000, 2200},
	"maize":      {1650, 1600, 1700},
	"sugarcane":  {320, 310, 330},
	"cotton":     {6500, 6400, 6600},
	"pulses":     {4500, 4400, 4600},
	"oilseeds":   {3800, 3700, 3900},
	"vegetables": {2500, 2400, 2600},
	"fruits":     {3500, 3400, 3600},
	"tea":        {2800, 2700, 2900},
	"coffee":     {4200, 4100, 4300},
	"spices":     {5500, 5400, 5600},
}

var defaultPriceBand = priceBand{2000, 1950, 2050}

// FallbackPrices synthesizes a deterministic estimate from fixed per-crop
// bands. Callers use it when the live lookup fails; the result is labeled
// as an estimate and is never cached as real data.
func (s *PriceService) FallbackPrices(location string, cropName string, pending bool) model.PriceQuote {
	band := defaultPriceBand
	cropLower := strings.ToLower(strings.TrimSpace(cropName))
	for category, b := range cropPriceBands {
		if strings.Contains(cropLower, category) || strings.Contains(category, cropLower) {
			band = b
			break
		}
	}

	date := s.now().Format("2006-01-02")
	return model.PriceQuote{
		Success: true,
		Data: model.PriceData{
			Location: location,
			CropName: cropName,
			MandiPrices: []model.MandiPrice{{
				MandiName:       location + " Central Mandi",
				PricePerQuintal: band.base,
				MinPrice:        band.min,
				MaxPrice:        band.max,
				Quality:         "Grade A",
				LastUpdated:     date,
				Source:          "Estimated Market Rate",
			}},
			LastUpdated: date,
			Note:        "Prices are per quintal (100 kg) - Estimated based on current market trends",
			Pending:     pending,
		},
	}
}

// MarketInsights fetches qualitative commentary (trend, timing, demand).
// This is best-effort enrichment: on error the caller omits the field and
// the parent price lookup is unaffected.
func (s *PriceService) MarketInsights(ctx context.Context, cropName string, location string) (string, error) {
	prompt := fmt.Sprintf(`Provide brief market insights for %s in %s, India. Include:
1. Current price trend (rising/falling/stable)
2. Best time to sell
3. Market demand outlook
4. Trading volume status

Keep it concise and practical for farmers.`, cropName, location)

	insights, err := s.llm.GenerateText(ctx, prompt)
	if err != nil {
		return "", apierror.Upstream("market insights", err)
	}

	return strings.TrimSpace(insights), nil
}

// PopularCrops returns the fixed dropdown list.
func (s *PriceService) PopularCrops() []string {
	return []string{
		"Rice", "Wheat", "Maize", "Sugarcane", "Cotton",
		"Pulses", "Oilseeds", "Vegetables", "Fruits",
		"Tea", "Coffee", "Spices",
	}
}

func priceLookupPrompt(location string, cropName string) string {
	return fmt.Sprintf(`You are an expert agricultural data analyst. I need current mandi prices for %[1]s in %[2]s, India.
Please search for and provide the most recent mandi prices from reliable government sources like:
- AGMARKNET (Agricultural Marketing Information Network)
- eNAM (National Agriculture Market)
- State Agricultural Marketing Boards
- FCI (Food Corporation of India) data
- State government agricultural websites
For each mandi/price source found, provide:
1. Mandi name and location
2. Current price per quintal (in INR)
3. Minimum and maximum price range
4. Quality grade (if available)
5. Date of price update
6. Source website/authority
Format the response as JSON with this structure:
{
    "success": true,
    "data": {
        "location": "%[2]s",
        "crop_name": "%[1]s",
        "mandi_prices": [
            {
                "mandi_name": "Mandi Name",
                "price_per_quintal": 2000,
                "min_price": 1950,
                "max_price": 2050,
                "quality": "Grade A",
                "last_updated": "2024-01-15",
                "source": "AGMARKNET"
            }
        ],
        "last_updated": "2024-01-15",
        "note": "Prices are per quintal (100 kg)"
    }
}
If you cannot find specific prices for %[2]s, provide prices from nearby major mandis or state-level averages.
Ensure all prices are in INR per quintal.
Only return valid JSON, no additional text or explanations.`, cropName, location)
}
