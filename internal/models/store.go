package models

import (
	"time"
)

// Store is a purchase location. Items hold an optional weak reference to a
// store; deleting a store never cascades to items.
type Store struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"size:200;not null;index"`
	Address   string    `json:"address"`
	City      string    `json:"city" gorm:"size:100"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// StoreWithUsage is a store plus the number of items that reference it.
// The count is computed per request, never persisted.
type StoreWithUsage struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Notes      string `json:"notes"`
	UsageCount int    `json:"usage_count"`
}

type StoreRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	City    string `json:"city"`
	Notes   string `json:"notes"`
}

// UpdateStoreRequest carries a partial store update.
type UpdateStoreRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	Notes   *string `json:"notes"`
}
