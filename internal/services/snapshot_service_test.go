package services

import (
	"testing"
	"time"

	"github.com/hardysdecor/antique-tracker/internal/models"
)

func TestComputeInventoryStats(t *testing.T) {
	stats := computeInventoryStats(nil)
	if stats.TotalItems != 0 || stats.InventoryValue != 0 || stats.RealizedProfit != 0 {
		t.Errorf("empty inventory should be all zero, got %+v", stats)
	}

	stats = computeInventoryStats([]models.Item{
		boughtItem(10.10, 5),
		boughtItem(20.20, 40),
		flippedItem(50, 80, 30, 10),
	})
	if stats.TotalItems != 3 || stats.UnsoldItems != 2 {
		t.Errorf("total/unsold = %d/%d, want 3/2", stats.TotalItems, stats.UnsoldItems)
	}
	if stats.InventoryValue != 30.30 {
		t.Errorf("inventory_value = %v, want 30.30", stats.InventoryValue)
	}
	if stats.RealizedProfit != 30 {
		t.Errorf("realized_profit = %v, want 30", stats.RealizedProfit)
	}
}

func TestPeriodStart(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		period string
		want   time.Time
	}{
		{"week", now.AddDate(0, 0, -7)},
		{"month", now.AddDate(0, -1, 0)},
		{"3month", now.AddDate(0, -3, 0)},
		{"year", now.AddDate(-1, 0, 0)},
		{"all", time.Time{}},
		{"bogus", now.AddDate(0, -1, 0)},
		{"", now.AddDate(0, -1, 0)},
	}

	for _, tt := range tests {
		if got := periodStart(tt.period, now); !got.Equal(tt.want) {
			t.Errorf("periodStart(%q) = %v, want %v", tt.period, got, tt.want)
		}
	}
}
