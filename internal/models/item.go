package models

import (
	"time"
)

type Condition string

const (
	ConditionExcellent Condition = "excellent"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
	ConditionPoor      Condition = "poor"
)

// Valid reports whether c is one of the known condition values.
func (c Condition) Valid() bool {
	switch c {
	case ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// Item is a purchased antique or vintage object. Sale fields are only
// meaningful when IsSold is set. Profit, margin and days-to-sell are derived
// at read time, never stored.
type Item struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"size:300;not null"`
	Description string    `json:"description"`
	Category    Category  `json:"category" gorm:"size:50;not null;default:'other';index"`
	Condition   Condition `json:"condition" gorm:"size:20;not null;default:'good'"`

	PurchasePrice float64   `json:"purchase_price" gorm:"not null"`
	PurchaseDate  time.Time `json:"purchase_date" gorm:"not null;index"`
	StoreID       *uint     `json:"store_id" gorm:"index"`
	Store         *Store    `json:"store,omitempty" gorm:"foreignKey:StoreID"`

	IsSold    bool       `json:"is_sold" gorm:"default:false;index"`
	SalePrice *float64   `json:"sale_price"`
	SaleDate  *time.Time `json:"sale_date"`

	SuggestedPrice *float64 `json:"suggested_price"`
	ListedPrice    *float64 `json:"listed_price"`

	// Raw AI payload, stored verbatim for provenance. Never parsed by
	// analytics.
	AIIdentification   string   `json:"ai_identification"`
	EstimatedValueLow  *float64 `json:"estimated_value_low"`
	EstimatedValueHigh *float64 `json:"estimated_value_high"`

	Photo string `json:"photo"` // base64 data URL or plain URL
	Notes string `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QualifiesForSaleMetrics reports whether the item can contribute to
// profit, margin and days-to-sell aggregates: it must be sold with both
// sale price and sale date recorded. Items failing this are skipped by
// those aggregates rather than erroring.
func (i *Item) QualifiesForSaleMetrics() bool {
	return i.IsSold && i.SalePrice != nil && i.SaleDate != nil
}

// Profit returns sale price minus purchase price, or nil for unsold items.
func (i *Item) Profit() *float64 {
	if !i.IsSold || i.SalePrice == nil {
		return nil
	}
	p := *i.SalePrice - i.PurchasePrice
	return &p
}

// ProfitMargin returns profit as a percentage of purchase price. Nil when
// the item is unsold or purchase price is zero (margin is undefined).
func (i *Item) ProfitMargin() *float64 {
	if !i.IsSold || i.SalePrice == nil || i.PurchasePrice <= 0 {
		return nil
	}
	m := (*i.SalePrice - i.PurchasePrice) / i.PurchasePrice * 100
	return &m
}

// DaysToSell returns the whole days between purchase and sale, or nil when
// either date is missing.
func (i *Item) DaysToSell() *int {
	if !i.IsSold || i.SaleDate == nil || i.PurchaseDate.IsZero() {
		return nil
	}
	d := int(i.SaleDate.Sub(i.PurchaseDate).Hours() / 24)
	return &d
}

// ItemResponse is an Item plus its derived fields for API responses.
type ItemResponse struct {
	Item
	Profit       *float64 `json:"profit"`
	ProfitMargin *float64 `json:"profit_margin"`
	DaysToSell   *int     `json:"days_to_sell"`
}

// NewItemResponse computes the derived fields for an item.
func NewItemResponse(item Item) ItemResponse {
	return ItemResponse{
		Item:         item,
		Profit:       item.Profit(),
		ProfitMargin: item.ProfitMargin(),
		DaysToSell:   item.DaysToSell(),
	}
}

type CreateItemRequest struct {
	Name               string    `json:"name" binding:"required"`
	Description        string    `json:"description"`
	Category           Category  `json:"category"`
	Condition          Condition `json:"condition"`
	PurchasePrice      *float64  `json:"purchase_price" binding:"required"`
	PurchaseDate       time.Time `json:"purchase_date" binding:"required"`
	StoreID            *uint     `json:"store_id"`
	SuggestedPrice     *float64  `json:"suggested_price"`
	ListedPrice        *float64  `json:"listed_price"`
	AIIdentification   string    `json:"ai_identification"`
	EstimatedValueLow  *float64  `json:"estimated_value_low"`
	EstimatedValueHigh *float64  `json:"estimated_value_high"`
	Photo              string    `json:"photo"`
	Notes              string    `json:"notes"`
}

// UpdateItemRequest carries a partial update. Nil fields are left untouched.
// Setting IsSold to false also clears the sale price and date.
type UpdateItemRequest struct {
	Name               *string    `json:"name"`
	Description        *string    `json:"description"`
	Category           *Category  `json:"category"`
	Condition          *Condition `json:"condition"`
	PurchasePrice      *float64   `json:"purchase_price"`
	PurchaseDate       *time.Time `json:"purchase_date"`
	StoreID            *uint      `json:"store_id"`
	SuggestedPrice     *float64   `json:"suggested_price"`
	ListedPrice        *float64   `json:"listed_price"`
	EstimatedValueLow  *float64   `json:"estimated_value_low"`
	EstimatedValueHigh *float64   `json:"estimated_value_high"`
	Photo              *string    `json:"photo"`
	Notes              *string    `json:"notes"`
	IsSold             *bool      `json:"is_sold"`
	SalePrice          *float64   `json:"sale_price"`
	SaleDate           *time.Time `json:"sale_date"`
}

type SellItemRequest struct {
	SalePrice *float64   `json:"sale_price" binding:"required"`
	SaleDate  *time.Time `json:"sale_date"`
}
