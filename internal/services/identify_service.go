package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hardysdecor/antique-tracker/internal/metrics"
)

const (
	openAIChatURL     = "https://api.openai.com/v1/chat/completions"
	identifyModel     = "gpt-4o"
	refineModel       = "gpt-4o-mini"
	identifyTimeout   = 90 * time.Second
	shelfScanTimeout  = 120 * time.Second
	identifyCacheSize = 100
	maxComparables    = 5
)

// IdentifyService identifies antiques from photos using OpenAI vision and
// refines the value estimate with eBay completed-sale comps when available.
type IdentifyService struct {
	apiKey      string
	httpClient  *http.Client
	enabled     bool
	ebay        *EbayService
	resultCache *lru.Cache[string, *IdentificationResult] // image hash -> result
}

// EbayComparable is one completed sale shown alongside an identification.
type EbayComparable struct {
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Condition string  `json:"condition"`
	URL       string  `json:"url"`
}

// MarketData summarizes the eBay comps used to refine an estimate.
type MarketData struct {
	Source      string           `json:"source"`
	Query       string           `json:"query"`
	TotalFound  int              `json:"total_found"`
	AvgPrice    float64          `json:"avg_price"`
	MinPrice    float64          `json:"min_price"`
	MaxPrice    float64          `json:"max_price"`
	MedianPrice float64          `json:"median_price"`
	Comparables []EbayComparable `json:"comparables"`
}

// IdentificationResult is the appraisal returned for a single item photo.
type IdentificationResult struct {
	ItemName           string      `json:"item_name"`
	Description        string      `json:"description"`
	Category           string      `json:"category"`
	EraPeriod          string      `json:"era_period"`
	EstimatedValueLow  float64     `json:"estimated_value_low"`
	EstimatedValueHigh float64     `json:"estimated_value_high"`
	SuggestedPrice     float64     `json:"suggested_price"`
	ConditionNotes     string      `json:"condition_notes"`
	SellingTips        string      `json:"selling_tips"`
	Keywords           []string    `json:"keywords"`
	Confidence         string      `json:"confidence"`
	MarketData         *MarketData `json:"market_data,omitempty"`
}

// ShelfItem is one item spotted in a shelf photo, rated by resale upside.
type ShelfItem struct {
	ItemName            string  `json:"item_name"`
	Description         string  `json:"description"`
	Category            string  `json:"category"`
	EstimatedShelfPrice float64 `json:"estimated_shelf_price"`
	EbayLow             float64 `json:"ebay_low"`
	EbayHigh            float64 `json:"ebay_high"`
	EbayAvg             float64 `json:"ebay_avg"`
	ProfitPotential     float64 `json:"profit_potential"`
	DealRating          string  `json:"deal_rating"`
	SearchQuery         string  `json:"search_query"`
	Confidence          string  `json:"confidence"`
}

// ShelfScanResult is the outcome of scanning a whole shelf photo.
type ShelfScanResult struct {
	TotalItemsFound int         `json:"total_items_found"`
	Deals           []ShelfItem `json:"deals"`
	ScanSummary     string      `json:"scan_summary"`
}

// NewIdentifyService creates the identification service. Pass a nil-keyed
// service to run with identification disabled.
func NewIdentifyService(apiKey string, ebay *EbayService) *IdentifyService {
	resultCache, err := lru.New[string, *IdentificationResult](identifyCacheSize)
	if err != nil {
		log.Printf("Identify service: failed to create result cache: %v", err)
	}

	svc := &IdentifyService{
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: identifyTimeout},
		enabled:     apiKey != "",
		ebay:        ebay,
		resultCache: resultCache,
	}

	if svc.enabled {
		log.Printf("Identify service: enabled (model=%s, refine=%s, cache=%d)", identifyModel, refineModel, identifyCacheSize)
	} else {
		log.Printf("Identify service: disabled (no OPENAI_API_KEY)")
	}

	return svc
}

// IsEnabled returns whether identification is available.
func (s *IdentifyService) IsEnabled() bool {
	return s.enabled
}

// EbayEnabled returns whether market comps are available.
func (s *IdentifyService) EbayEnabled() bool {
	return s.ebay != nil && s.ebay.IsConfigured()
}

// imageContentURL normalizes client-supplied image input for the vision API.
// Accepts a data URL, a plain http(s) URL, or raw base64 bytes.
func imageContentURL(image string) string {
	if strings.HasPrefix(image, "data:image") || strings.HasPrefix(image, "http") {
		return image
	}
	return "data:image/jpeg;base64," + image
}

// cacheKey hashes the image plus context so repeat submissions of the same
// photo skip the vision call entirely.
func cacheKey(image, additionalContext string) string {
	h := sha256.New()
	h.Write([]byte(image))
	h.Write([]byte{0})
	h.Write([]byte(additionalContext))
	return hex.EncodeToString(h.Sum(nil))
}

// IdentifyItem appraises a single item photo. When eBay is configured the
// initial estimate is refined against completed-sale comps.
func (s *IdentifyService) IdentifyItem(ctx context.Context, image, additionalContext string) (*IdentificationResult, error) {
	if !s.enabled {
		return nil, fmt.Errorf("identification not enabled (no OPENAI_API_KEY)")
	}

	key := cacheKey(image, additionalContext)
	if s.resultCache != nil {
		if cached, ok := s.resultCache.Get(key); ok {
			metrics.IdentifyRequestsTotal.WithLabelValues("cached").Inc()
			return cached, nil
		}
	}

	startTime := time.Now()

	userMessage := "Please identify this item and provide a value estimate for resale in an antique store."
	if additionalContext != "" {
		userMessage += "\n\nAdditional context from the seller: " + additionalContext
	}

	messages := []chatMessage{
		{Role: "system", Content: identifySystemPrompt},
		{Role: "user", Content: []chatContentPart{
			{Type: "text", Text: userMessage},
			{Type: "image_url", ImageURL: &chatImageURL{URL: imageContentURL(image), Detail: "high"}},
		}},
	}

	content, err := s.callChat(ctx, identifyModel, messages, 2000, 0)
	if err != nil {
		metrics.IdentifyRequestsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	var result IdentificationResult
	if err := json.Unmarshal([]byte(extractJSON(content)), &result); err != nil {
		metrics.IdentifyRequestsTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("failed to parse identification response: %w", err)
	}

	if s.EbayEnabled() {
		marketData, err := s.searchComps(ctx, result.Keywords, result.ItemName)
		if err != nil {
			log.Printf("Identify service: eBay comps lookup failed: %v", err)
		} else if marketData != nil && marketData.TotalFound > 0 {
			s.refineEstimate(ctx, &result, marketData)
			result.MarketData = buildMarketData(marketData)
		}
	}

	metrics.IdentifyRequestsTotal.WithLabelValues("success").Inc()
	metrics.IdentifyDuration.Observe(time.Since(startTime).Seconds())

	if s.resultCache != nil {
		s.resultCache.Add(key, &result)
	}

	log.Printf("Identify service: identified %q (category=%s, confidence=%s, comps=%v)",
		result.ItemName, result.Category, result.Confidence, result.MarketData != nil)

	return &result, nil
}

// searchComps builds an eBay query from the identified name and keywords.
// A broader retry on just the keywords kicks in when the first query is
// too specific to match anything.
func (s *IdentifyService) searchComps(ctx context.Context, keywords []string, itemName string) (*EbayMarketData, error) {
	terms := append([]string{itemName}, keywords...)
	if len(terms) > 4 {
		terms = terms[:4]
	}
	query := strings.Join(terms, " ")

	marketData, err := s.ebay.FindCompletedItems(ctx, query, 15, true)
	if err != nil {
		return nil, err
	}

	if marketData.TotalFound < 3 && len(keywords) > 1 {
		broader := strings.Join(keywords[:2], " ")
		if retried, err := s.ebay.FindCompletedItems(ctx, broader, 15, true); err == nil {
			marketData = retried
		}
	}

	return marketData, nil
}

func buildMarketData(market *EbayMarketData) *MarketData {
	comparables := make([]EbayComparable, 0, maxComparables)
	for _, item := range market.Items {
		if len(comparables) == maxComparables {
			break
		}
		comparables = append(comparables, EbayComparable{
			Title:     item.Title,
			Price:     item.Price,
			Condition: item.Condition,
			URL:       item.ItemURL,
		})
	}

	return &MarketData{
		Source:      "eBay Completed Sales",
		Query:       market.Query,
		TotalFound:  market.TotalFound,
		AvgPrice:    market.AvgPrice,
		MinPrice:    market.MinPrice,
		MaxPrice:    market.MaxPrice,
		MedianPrice: market.MedianPrice,
		Comparables: comparables,
	}
}

// refinedEstimate is what the refinement model returns. Pointer fields so a
// partial answer leaves the original estimate untouched.
type refinedEstimate struct {
	EstimatedValueLow  *float64 `json:"estimated_value_low"`
	EstimatedValueHigh *float64 `json:"estimated_value_high"`
	SuggestedPrice     *float64 `json:"suggested_price"`
	MarketAnalysis     string   `json:"market_analysis"`
}

// refineEstimate asks the cheaper model to revise the price estimate given
// real sold comps. Failures fall back to the original estimate.
func (s *IdentifyService) refineEstimate(ctx context.Context, result *IdentificationResult, market *EbayMarketData) {
	var comparables strings.Builder
	for i, item := range market.Items {
		if i == maxComparables {
			break
		}
		fmt.Fprintf(&comparables, "- %q - $%.2f (%s)\n", item.Title, item.Price, item.Condition)
	}
	if comparables.Len() == 0 {
		comparables.WriteString("No specific comparables found")
	}

	prompt := fmt.Sprintf(refinePromptTemplate,
		result.ItemName, market.Query, market.TotalFound,
		market.AvgPrice, market.MedianPrice, market.MinPrice, market.MaxPrice,
		comparables.String())

	messages := []chatMessage{
		{Role: "system", Content: "You are an antique pricing expert. Respond only in valid JSON."},
		{Role: "user", Content: prompt},
	}

	content, err := s.callChat(ctx, refineModel, messages, 500, 0)
	if err != nil {
		log.Printf("Identify service: refinement failed, keeping original estimate: %v", err)
		return
	}

	var refined refinedEstimate
	if err := json.Unmarshal([]byte(extractJSON(content)), &refined); err != nil {
		log.Printf("Identify service: failed to parse refinement: %v", err)
		return
	}

	if refined.EstimatedValueLow != nil {
		result.EstimatedValueLow = *refined.EstimatedValueLow
	}
	if refined.EstimatedValueHigh != nil {
		result.EstimatedValueHigh = *refined.EstimatedValueHigh
	}
	if refined.SuggestedPrice != nil {
		result.SuggestedPrice = *refined.SuggestedPrice
	}
	if refined.MarketAnalysis != "" {
		result.SellingTips += "\n\nMarket Analysis: " + refined.MarketAnalysis
	}
}

// ScanShelf analyzes a photo of a store shelf and rates each spotted item
// by resale upside using eBay comps.
func (s *IdentifyService) ScanShelf(ctx context.Context, image string, maxItems int) (*ShelfScanResult, error) {
	if !s.enabled {
		return nil, fmt.Errorf("identification not enabled (no OPENAI_API_KEY)")
	}
	if maxItems <= 0 || maxItems > 10 {
		maxItems = 10
	}

	messages := []chatMessage{
		{Role: "system", Content: shelfScanPrompt},
		{Role: "user", Content: []chatContentPart{
			{Type: "image_url", ImageURL: &chatImageURL{URL: imageContentURL(image)}},
			{Type: "text", Text: "Scan this shelf and identify the top valuable items for resale."},
		}},
	}

	scanClient := &http.Client{Timeout: shelfScanTimeout}
	content, err := s.callChatWith(ctx, scanClient, identifyModel, messages, 2000, 0.3)
	if err != nil {
		metrics.IdentifyRequestsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	var spotted []struct {
		ItemName            string  `json:"item_name"`
		Description         string  `json:"description"`
		Category            string  `json:"category"`
		EstimatedShelfPrice float64 `json:"estimated_shelf_price"`
		SearchQuery         string  `json:"search_query"`
		Confidence          string  `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(extractJSON(content)), &spotted); err != nil {
		// Model found nothing or replied off-format; treat as an empty scan
		spotted = nil
	}
	if len(spotted) > maxItems {
		spotted = spotted[:maxItems]
	}

	deals := make([]ShelfItem, 0, len(spotted))
	for _, item := range spotted {
		shelfPrice := item.EstimatedShelfPrice
		if shelfPrice <= 0 {
			shelfPrice = 5
		}

		deal := ShelfItem{
			ItemName:            item.ItemName,
			Description:         item.Description,
			Category:            item.Category,
			EstimatedShelfPrice: shelfPrice,
			SearchQuery:         item.SearchQuery,
			Confidence:          item.Confidence,
		}
		if deal.ItemName == "" {
			deal.ItemName = "Unknown"
		}
		if deal.Category == "" {
			deal.Category = "other"
		}

		query := item.SearchQuery
		if query == "" {
			query = item.ItemName
		}

		if s.EbayEnabled() {
			market, err := s.ebay.FindCompletedItems(ctx, query, 10, true)
			if err != nil {
				deal.DealRating = "Check Manually"
				if deal.Confidence == "" {
					deal.Confidence = "low"
				}
				deals = append(deals, deal)
				continue
			}
			deal.EbayLow = market.MinPrice
			deal.EbayHigh = market.MaxPrice
			deal.EbayAvg = market.AvgPrice
		} else {
			// No market data: rough 2x-8x thrift multiplier
			deal.EbayLow = shelfPrice * 2
			deal.EbayHigh = shelfPrice * 8
			deal.EbayAvg = shelfPrice * 4
		}

		deal.ProfitPotential = round1(dec(deal.EbayAvg).Div(dec(shelfPrice)))
		deal.DealRating = dealRating(deal.ProfitPotential)
		deals = append(deals, deal)
	}

	sort.SliceStable(deals, func(i, j int) bool {
		return deals[i].ProfitPotential > deals[j].ProfitPotential
	})

	metrics.IdentifyRequestsTotal.WithLabelValues("success").Inc()

	return &ShelfScanResult{
		TotalItemsFound: len(deals),
		Deals:           deals,
		ScanSummary:     scanSummary(deals),
	}, nil
}

// dealRating maps a profit multiplier to a rating label.
func dealRating(profitPotential float64) string {
	switch {
	case profitPotential >= 5:
		return "Hot Deal"
	case profitPotential >= 3:
		return "Good Find"
	case profitPotential >= 1.5:
		return "Maybe"
	default:
		return "Skip"
	}
}

func scanSummary(deals []ShelfItem) string {
	hot, good := 0, 0
	for _, d := range deals {
		switch d.DealRating {
		case "Hot Deal":
			hot++
		case "Good Find":
			good++
		}
	}

	switch {
	case hot > 0:
		return fmt.Sprintf("Found %d hot deal(s) and %d good find(s). Check the top items.", hot, good)
	case good > 0:
		return fmt.Sprintf("Found %d potentially good find(s). Worth investigating.", good)
	case len(deals) > 0:
		return "Some items identified, but nothing stands out. Keep hunting."
	default:
		return "Couldn't identify valuable items. Try a clearer photo or different angle."
	}
}

// extractJSON strips markdown code fences the model sometimes wraps its
// JSON answer in.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if idx := strings.Index(content, "```json"); idx >= 0 {
		content = content[idx+len("```json"):]
		if end := strings.Index(content, "```"); end >= 0 {
			content = content[:end]
		}
	} else if idx := strings.Index(content, "```"); idx >= 0 {
		content = content[idx+3:]
		if end := strings.Index(content, "```"); end >= 0 {
			content = content[:end]
		}
	}

	return strings.TrimSpace(content)
}

// OpenAI chat completions types

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"` // string or []chatContentPart
}

type chatContentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (s *IdentifyService) callChat(ctx context.Context, model string, messages []chatMessage, maxTokens int, temperature float64) (string, error) {
	return s.callChatWith(ctx, s.httpClient, model, messages, maxTokens, temperature)
}

func (s *IdentifyService) callChatWith(ctx context.Context, client *http.Client, model string, messages []chatMessage, maxTokens int, temperature float64) (string, error) {
	req := chatRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	reqJSON, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", openAIChatURL, bytes.NewReader(reqJSON))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OpenAI API returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp chatResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("failed to parse API response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("OpenAI API error: %s", apiResp.Error.Message)
	}
	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return apiResp.Choices[0].Message.Content, nil
}

const identifySystemPrompt = `You are an expert antique and vintage item appraiser with decades of experience.
When shown an image of an item, you will:
1. Identify what the item is (name, type, maker if identifiable)
2. Determine its likely era/period
3. Assess its condition based on what you can see
4. Estimate its market value range (for resale in an antique store/booth)
5. Suggest a selling price (accounting for typical antique store markup of 2-3x)
6. Provide selling tips

Consider factors like:
- Rarity and demand
- Condition (chips, cracks, wear, repairs)
- Style and aesthetic appeal
- Current market trends for vintage/antique items
- Regional market (this is for a Florida antique store)

Be realistic with pricing - this is for actual resale, not insurance value.
Low-end items might be $5-20, mid-range $20-100, higher-end pieces $100+.

Respond in JSON format only, with these exact fields:
{
    "item_name": "Specific name of item",
    "description": "Detailed description including style, materials, approximate age",
    "category": "One of: furniture, art, vases, figurines, knick_knacks, jewelry, pottery, glassware, textiles, books, collectibles, vintage_decor, kitchenware, lighting, mirrors, clocks, other",
    "era_period": "Approximate era (e.g., '1950s', 'Mid-Century Modern', 'Victorian', 'Art Deco')",
    "estimated_value_low": 10.00,
    "estimated_value_high": 25.00,
    "suggested_price": 18.00,
    "condition_notes": "Notes about condition based on what's visible",
    "selling_tips": "Tips for selling this item - what buyers look for, how to display it",
    "keywords": ["keyword1", "keyword2", "keyword3"],
    "confidence": "high/medium/low"
}`

const refinePromptTemplate = `You previously identified this antique item as: %s

I've searched eBay for recently SOLD items matching %q and found %d completed sales.

Here's the market data from actual eBay sales:
- Average sold price: $%.2f
- Median sold price: $%.2f
- Price range: $%.2f - $%.2f

Sample comparable sales:
%s

Based on this REAL market data, please revise your price estimates. The eBay data shows what people ACTUALLY paid for similar items.

Consider:
- These are eBay prices (often lower than antique store prices due to no overhead)
- Antique store/booth markup is typically 1.5-2.5x of eBay prices
- Condition matters - adjust if this item is better/worse than comparables
- Local Florida market may differ slightly

Provide revised estimates in JSON format:
{
    "estimated_value_low": <revised low based on eBay data>,
    "estimated_value_high": <revised high based on eBay data>,
    "suggested_price": <revised suggested price for antique store>,
    "market_analysis": "Brief analysis of how eBay data influenced your estimate"
}`

const shelfScanPrompt = `You are an expert antique dealer and thrift store treasure hunter. Analyze this image of a store shelf and identify the TOP 10 most potentially valuable items for resale.

For EACH item, provide:
1. item_name: Specific name (include brand, pattern, era if identifiable)
2. description: Brief description with identifying features
3. category: (glassware, pottery, kitchenware, decor, toys, books, etc.)
4. estimated_shelf_price: What this item likely costs at a thrift/antique store (be realistic, thrift stores are cheap)
5. search_query: The BEST eBay search terms to find this exact item
6. confidence: (high, medium, low) - how confident you are in the identification

Focus on:
- Vintage Pyrex, Fire King, and other collectible kitchenware
- Mid-century modern items
- Vintage toys and games
- Collectible glassware (depression glass, carnival glass, etc.)
- Pottery (McCoy, Hull, Roseville, etc.)
- Vintage electronics or cameras
- Anything that looks old, unique, or collectible

IGNORE:
- Generic modern items
- Damaged items (if visible)
- Common items with no resale value

Return JSON array with up to 10 items, ordered by likely value (highest first):
[
  {
    "item_name": "Pyrex Butterfly Gold Casserole Dish",
    "description": "1970s Pyrex with butterfly and wheat pattern, appears to have lid",
    "category": "kitchenware",
    "estimated_shelf_price": 8,
    "search_query": "pyrex butterfly gold casserole lid vintage",
    "confidence": "high"
  }
]

If you cannot identify any valuable items, return an empty array [].`
