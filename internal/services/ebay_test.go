package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPriceStats(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		avg    float64
		min    float64
		max    float64
		median float64
	}{
		{
			name: "empty",
		},
		{
			name:   "single price",
			prices: []float64{25.50},
			avg:    25.50, min: 25.50, max: 25.50, median: 25.50,
		},
		{
			name:   "odd count takes middle value",
			prices: []float64{30, 10, 20},
			avg:    20, min: 10, max: 30, median: 20,
		},
		{
			name:   "even count averages middle pair",
			prices: []float64{40, 10, 20, 30},
			avg:    25, min: 10, max: 40, median: 25,
		},
		{
			name:   "cents rounding",
			prices: []float64{10.01, 10.02, 10.02},
			avg:    10.02, min: 10.01, max: 10.02, median: 10.02,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avg, min, max, median := priceStats(tt.prices)
			if avg != tt.avg || min != tt.min || max != tt.max || median != tt.median {
				t.Errorf("priceStats(%v) = %v/%v/%v/%v, want %v/%v/%v/%v",
					tt.prices, avg, min, max, median, tt.avg, tt.min, tt.max, tt.median)
			}
		})
	}
}

// Finding API responses wrap every scalar in a one-element array.
const findingFixture = `{
  "findCompletedItemsResponse": [{
    "ack": ["Success"],
    "searchResult": [{
      "item": [
        {
          "title": ["Victorian brass oil lamp"],
          "galleryURL": ["https://example.com/lamp.jpg"],
          "viewItemURL": ["https://ebay.com/itm/1"],
          "condition": [{"conditionDisplayName": ["Used"]}],
          "sellingStatus": [{
            "currentPrice": [{"__value__": "45.00", "@currencyId": "USD"}],
            "sellingState": ["EndedWithSales"]
          }],
          "listingInfo": [{"endTime": ["2025-06-10T18:00:00.000Z"]}]
        },
        {
          "title": ["Brass lamp, no bids"],
          "viewItemURL": ["https://ebay.com/itm/2"],
          "sellingStatus": [{
            "currentPrice": [{"__value__": "9.99", "@currencyId": "USD"}],
            "sellingState": ["EndedWithoutSales"]
          }]
        },
        {
          "title": ["Art nouveau lamp"],
          "viewItemURL": ["https://ebay.com/itm/3"],
          "sellingStatus": [{
            "currentPrice": [{"__value__": "55.00", "@currencyId": "USD"}],
            "sellingState": ["EndedWithSales"]
          }]
        }
      ]
    }],
    "paginationOutput": [{"totalEntries": ["2"]}]
  }]
}`

func TestFindCompletedItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("OPERATION-NAME"); got != "findCompletedItems" {
			t.Errorf("OPERATION-NAME = %q", got)
		}
		if got := r.URL.Query().Get("itemFilter(0).value"); got != "true" {
			t.Errorf("SoldItemsOnly filter = %q, want true", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(findingFixture))
	}))
	defer server.Close()

	svc := NewEbayService("test-app-id")
	svc.baseURL = server.URL

	data, err := svc.FindCompletedItems(context.Background(), "brass lamp", 20, true)
	if err != nil {
		t.Fatalf("FindCompletedItems: %v", err)
	}

	if len(data.Items) != 2 {
		t.Fatalf("expected 2 sold items (unsold listing dropped), got %d", len(data.Items))
	}
	if data.Items[0].Title != "Victorian brass oil lamp" {
		t.Errorf("title = %q", data.Items[0].Title)
	}
	if data.Items[0].Price != 45 || data.Items[0].Condition != "Used" {
		t.Errorf("first item = %+v", data.Items[0])
	}
	if data.Items[1].Condition != "Unknown" {
		t.Errorf("missing condition should read Unknown, got %q", data.Items[1].Condition)
	}
	if data.TotalFound != 2 {
		t.Errorf("total_found = %d, want 2", data.TotalFound)
	}
	if data.AvgPrice != 50 || data.MinPrice != 45 || data.MaxPrice != 55 || data.MedianPrice != 50 {
		t.Errorf("stats = %v/%v/%v/%v", data.AvgPrice, data.MinPrice, data.MaxPrice, data.MedianPrice)
	}
}

func TestFindCompletedItems_NotConfigured(t *testing.T) {
	svc := NewEbayService("")
	if svc.IsConfigured() {
		t.Error("empty app ID should not be configured")
	}
	if _, err := svc.FindCompletedItems(context.Background(), "lamp", 10, true); err == nil {
		t.Error("expected error when unconfigured")
	}
}

func TestFindCompletedItems_BadAck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"findCompletedItemsResponse": [{"ack": ["Failure"]}]}`))
	}))
	defer server.Close()

	svc := NewEbayService("test-app-id")
	svc.baseURL = server.URL

	if _, err := svc.FindCompletedItems(context.Background(), "lamp", 10, true); err == nil {
		t.Error("expected error on Failure ack")
	}
}
