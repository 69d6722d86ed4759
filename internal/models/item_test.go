package models

import (
	"testing"
	"time"
)

func soldItem(purchase, sale float64, daysApart int) Item {
	purchaseDate := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	saleDate := purchaseDate.AddDate(0, 0, daysApart)
	return Item{
		PurchasePrice: purchase,
		PurchaseDate:  purchaseDate,
		IsSold:        true,
		SalePrice:     &sale,
		SaleDate:      &saleDate,
	}
}

func TestProfit(t *testing.T) {
	item := soldItem(50, 80, 10)
	profit := item.Profit()
	if profit == nil {
		t.Fatal("expected profit for sold item, got nil")
	}
	if *profit != 30 {
		t.Errorf("expected profit 30, got %v", *profit)
	}

	unsold := Item{PurchasePrice: 100}
	if unsold.Profit() != nil {
		t.Error("unsold item should have nil profit")
	}

	// Sold but no sale price recorded
	noPrice := Item{PurchasePrice: 10, IsSold: true}
	if noPrice.Profit() != nil {
		t.Error("sold item without sale price should have nil profit")
	}
}

func TestProfitMargin(t *testing.T) {
	item := soldItem(50, 80, 10)
	margin := item.ProfitMargin()
	if margin == nil {
		t.Fatal("expected margin for sold item, got nil")
	}
	if *margin != 60 {
		t.Errorf("expected margin 60, got %v", *margin)
	}

	// Zero purchase price: margin is undefined, profit still computes
	free := soldItem(0, 10, 5)
	if free.ProfitMargin() != nil {
		t.Error("zero purchase price should yield nil margin")
	}
	if profit := free.Profit(); profit == nil || *profit != 10 {
		t.Error("zero purchase price should still yield profit")
	}
}

func TestDaysToSell(t *testing.T) {
	item := soldItem(50, 80, 10)
	days := item.DaysToSell()
	if days == nil {
		t.Fatal("expected days to sell, got nil")
	}
	if *days != 10 {
		t.Errorf("expected 10 days, got %d", *days)
	}

	noDate := Item{PurchasePrice: 10, IsSold: true}
	if noDate.DaysToSell() != nil {
		t.Error("missing sale date should yield nil days to sell")
	}
}

func TestQualifiesForSaleMetrics(t *testing.T) {
	price := 80.0
	date := time.Now()

	tests := []struct {
		name string
		item Item
		want bool
	}{
		{"sold with price and date", soldItem(50, 80, 10), true},
		{"unsold", Item{PurchasePrice: 50}, false},
		{"sold missing sale date", Item{IsSold: true, SalePrice: &price}, false},
		{"sold missing sale price", Item{IsSold: true, SaleDate: &date}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.QualifiesForSaleMetrics(); got != tt.want {
				t.Errorf("QualifiesForSaleMetrics() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCategoryValid(t *testing.T) {
	if !CategoryPottery.Valid() {
		t.Error("pottery should be a valid category")
	}
	if Category("spaceships").Valid() {
		t.Error("unknown category should not be valid")
	}

	categories := AllCategories()
	if len(categories) != 17 {
		t.Errorf("expected 17 categories, got %d", len(categories))
	}
	if categories[len(categories)-1].Value != CategoryOther {
		t.Errorf("expected 'other' to be the last category, got %s", categories[len(categories)-1].Value)
	}
}

func TestConditionValid(t *testing.T) {
	for _, c := range []Condition{ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor} {
		if !c.Valid() {
			t.Errorf("condition %s should be valid", c)
		}
	}
	if Condition("mint").Valid() {
		t.Error("unknown condition should not be valid")
	}
}
