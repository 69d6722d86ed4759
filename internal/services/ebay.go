package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	xrate "golang.org/x/time/rate"

	"github.com/hardysdecor/antique-tracker/internal/metrics"
)

const (
	ebayFindingURL     = "https://svcs.ebay.com/services/search/FindingService/v1"
	ebayDefaultTimeout = 30 * time.Second
	ebayMaxEntries     = 100
)

// EbayService queries the eBay Finding API for completed listings. The
// Finding API covers roughly the last 90 days of sold items, which is what
// resale comps need.
type EbayService struct {
	client  *http.Client
	appID   string
	baseURL string
	limiter *xrate.Limiter
}

// EbaySoldItem is one completed listing returned by a comps search.
type EbaySoldItem struct {
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	Condition string  `json:"condition"`
	SoldDate  string  `json:"sold_date,omitempty"`
	ImageURL  string  `json:"image_url,omitempty"`
	ItemURL   string  `json:"item_url"`
}

// EbayMarketData summarizes completed listings for a search query.
type EbayMarketData struct {
	Query       string         `json:"query"`
	TotalFound  int            `json:"total_found"`
	Items       []EbaySoldItem `json:"items"`
	AvgPrice    float64        `json:"avg_price"`
	MinPrice    float64        `json:"min_price"`
	MaxPrice    float64        `json:"max_price"`
	MedianPrice float64        `json:"median_price"`
}

// NewEbayService creates an eBay Finding API client. The free tier allows
// 5000 calls per day, so the limiter stays well under that.
func NewEbayService(appID string) *EbayService {
	return &EbayService{
		client: &http.Client{
			Timeout: ebayDefaultTimeout,
		},
		appID:   appID,
		baseURL: ebayFindingURL,
		limiter: xrate.NewLimiter(xrate.Every(time.Second), 3),
	}
}

// IsConfigured reports whether an App ID is set.
func (s *EbayService) IsConfigured() bool {
	return s.appID != ""
}

// Finding API responses wrap every field in a single-element array.
type findingResponse struct {
	FindCompletedItemsResponse []findingResult `json:"findCompletedItemsResponse"`
}

type findingResult struct {
	Ack              []string              `json:"ack"`
	SearchResult     []findingSearchResult `json:"searchResult"`
	PaginationOutput []findingPagination   `json:"paginationOutput"`
}

type findingSearchResult struct {
	Item []findingItem `json:"item"`
}

type findingPagination struct {
	TotalEntries []string `json:"totalEntries"`
}

type findingItem struct {
	Title         []string               `json:"title"`
	GalleryURL    []string               `json:"galleryURL"`
	ViewItemURL   []string               `json:"viewItemURL"`
	Condition     []findingCondition     `json:"condition"`
	SellingStatus []findingSellingStatus `json:"sellingStatus"`
	ListingInfo   []findingListingInfo   `json:"listingInfo"`
}

type findingCondition struct {
	ConditionDisplayName []string `json:"conditionDisplayName"`
}

type findingSellingStatus struct {
	CurrentPrice []findingPrice `json:"currentPrice"`
	SellingState []string       `json:"sellingState"`
}

type findingPrice struct {
	Value      string `json:"__value__"`
	CurrencyID string `json:"@currencyId"`
}

type findingListingInfo struct {
	EndTime []string `json:"endTime"`
}

func first(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	return ss[0]
}

// FindCompletedItems searches completed listings matching query and returns
// the listings plus price statistics. When soldOnly is true, listings that
// ended without a sale are dropped.
func (s *EbayService) FindCompletedItems(ctx context.Context, query string, limit int, soldOnly bool) (*EbayMarketData, error) {
	if !s.IsConfigured() {
		return nil, fmt.Errorf("eBay App ID not configured")
	}
	if limit <= 0 {
		limit = 20
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("eBay rate limiter: %w", err)
	}

	entries := limit
	if entries > ebayMaxEntries {
		entries = ebayMaxEntries
	}

	params := url.Values{}
	params.Set("OPERATION-NAME", "findCompletedItems")
	params.Set("SERVICE-VERSION", "1.13.0")
	params.Set("SECURITY-APPNAME", s.appID)
	params.Set("RESPONSE-DATA-FORMAT", "JSON")
	params.Set("REST-PAYLOAD", "")
	params.Set("keywords", query)
	params.Set("paginationInput.entriesPerPage", strconv.Itoa(entries))
	params.Set("sortOrder", "EndTimeSoonest")
	params.Set("itemFilter(0).name", "SoldItemsOnly")
	params.Set("itemFilter(0).value", strconv.FormatBool(soldOnly))
	params.Set("itemFilter(1).name", "MinPrice")
	params.Set("itemFilter(1).value", "1")

	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	metrics.EbayRequestsTotal.Inc()

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.EbayErrorsTotal.Inc()
		return nil, fmt.Errorf("failed to query eBay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.EbayErrorsTotal.Inc()
		return nil, fmt.Errorf("eBay Finding API error: status %d", resp.StatusCode)
	}

	var findingResp findingResponse
	if err := json.NewDecoder(resp.Body).Decode(&findingResp); err != nil {
		metrics.EbayErrorsTotal.Inc()
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(findingResp.FindCompletedItemsResponse) == 0 {
		metrics.EbayErrorsTotal.Inc()
		return nil, fmt.Errorf("eBay Finding API returned empty response")
	}
	result := findingResp.FindCompletedItemsResponse[0]

	if ack := first(result.Ack); ack != "Success" && ack != "Warning" {
		metrics.EbayErrorsTotal.Inc()
		return nil, fmt.Errorf("eBay Finding API returned ack %q", ack)
	}

	data := &EbayMarketData{Query: query, Items: []EbaySoldItem{}}

	if len(result.PaginationOutput) > 0 {
		total, _ := strconv.Atoi(first(result.PaginationOutput[0].TotalEntries))
		data.TotalFound = total
	}

	var prices []float64
	if len(result.SearchResult) > 0 {
		for _, item := range result.SearchResult[0].Item {
			if len(item.SellingStatus) == 0 {
				continue
			}
			status := item.SellingStatus[0]

			if soldOnly && first(status.SellingState) != "EndedWithSales" {
				continue
			}
			if len(status.CurrentPrice) == 0 {
				continue
			}

			price, err := strconv.ParseFloat(status.CurrentPrice[0].Value, 64)
			if err != nil || price <= 0 {
				continue
			}

			currency := status.CurrentPrice[0].CurrencyID
			if currency == "" {
				currency = "USD"
			}
			condition := "Unknown"
			if len(item.Condition) > 0 {
				if name := first(item.Condition[0].ConditionDisplayName); name != "" {
					condition = name
				}
			}
			soldDate := ""
			if len(item.ListingInfo) > 0 {
				soldDate = first(item.ListingInfo[0].EndTime)
			}

			prices = append(prices, price)
			data.Items = append(data.Items, EbaySoldItem{
				Title:     first(item.Title),
				Price:     price,
				Currency:  currency,
				Condition: condition,
				SoldDate:  soldDate,
				ImageURL:  first(item.GalleryURL),
				ItemURL:   first(item.ViewItemURL),
			})
		}
	}

	if len(data.Items) > limit {
		data.Items = data.Items[:limit]
	}

	data.AvgPrice, data.MinPrice, data.MaxPrice, data.MedianPrice = priceStats(prices)
	return data, nil
}

// priceStats returns average, minimum, maximum and median of the given
// prices rounded to cents. All four are 0 when the slice is empty. The
// median of an even-sized set is the mean of the two middle values.
func priceStats(prices []float64) (avg, min, max, median float64) {
	if len(prices) == 0 {
		return 0, 0, 0, 0
	}

	sorted := make([]float64, len(prices))
	copy(sorted, prices)
	sort.Float64s(sorted)

	sum := dec(0)
	for _, p := range prices {
		sum = sum.Add(dec(p))
	}
	avg = round2(sum.Div(dec(float64(len(prices)))))

	min = sorted[0]
	max = sorted[len(sorted)-1]

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		median = sorted[mid]
	} else {
		median = round2(dec(sorted[mid-1]).Add(dec(sorted[mid])).Div(dec(2)))
	}
	return avg, min, max, median
}
