package models

import (
	"time"
)

// InventoryValueSnapshot stores one day's inventory position for historical
// tracking.
type InventoryValueSnapshot struct {
	ID             uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	SnapshotDate   time.Time `json:"snapshot_date" gorm:"uniqueIndex;not null"`
	TotalItems     int       `json:"total_items"`
	UnsoldItems    int       `json:"unsold_items"`
	InventoryValue float64   `json:"inventory_value"`
	RealizedProfit float64   `json:"realized_profit"`
	CreatedAt      time.Time `json:"created_at"`
}

// ValueHistoryResponse is the API response for value history.
type ValueHistoryResponse struct {
	Snapshots []InventoryValueSnapshot `json:"snapshots"`
	Period    string                   `json:"period"` // "week", "month", "3month", "year", "all"
}
