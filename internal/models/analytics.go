package models

// Report shapes returned by the analytics service. Money fields are rounded
// to 2 decimals, margins and day averages to 1, at report assembly only.

// RecentSales summarizes qualifying sales inside the lookback window.
type RecentSales struct {
	Count           int     `json:"count"`
	Revenue         float64 `json:"revenue"`
	Cost            float64 `json:"cost"`
	Profit          float64 `json:"profit"`
	AvgProfitMargin float64 `json:"avg_profit_margin"`
	AvgDaysToSell   float64 `json:"avg_days_to_sell"`
}

// RecentPurchases summarizes purchases inside the lookback window.
type RecentPurchases struct {
	Count      int     `json:"count"`
	TotalSpent float64 `json:"total_spent"`
}

// SummaryReport is the overall business summary. Unsold counts and the
// inventory value cover the whole current inventory; the recent blocks are
// scoped to the window.
type SummaryReport struct {
	PeriodDays            int             `json:"period_days"`
	TotalItems            int             `json:"total_items"`
	UnsoldItems           int             `json:"unsold_items"`
	SoldItems             int             `json:"sold_items"`
	CurrentInventoryValue float64         `json:"current_inventory_value"`
	RecentSales           RecentSales     `json:"recent_sales"`
	RecentPurchases       RecentPurchases `json:"recent_purchases"`
}

// StoreReport is one row of the by-store ranking.
type StoreReport struct {
	StoreID         uint    `json:"store_id"`
	StoreName       string  `json:"store_name"`
	City            string  `json:"city"`
	TotalItems      int     `json:"total_items"`
	SoldItems       int     `json:"sold_items"`
	UnsoldItems     int     `json:"unsold_items"`
	TotalInvested   float64 `json:"total_invested"`
	TotalProfit     float64 `json:"total_profit"`
	AvgProfitMargin float64 `json:"avg_profit_margin"`
	SellThroughRate float64 `json:"sell_through_rate"`
}

// CategoryReport is one row of the by-category ranking.
type CategoryReport struct {
	Category        Category `json:"category"`
	TotalItems      int      `json:"total_items"`
	SoldItems       int      `json:"sold_items"`
	UnsoldItems     int      `json:"unsold_items"`
	TotalProfit     float64  `json:"total_profit"`
	TotalRevenue    float64  `json:"total_revenue"`
	AvgProfitMargin float64  `json:"avg_profit_margin"`
	AvgDaysToSell   float64  `json:"avg_days_to_sell"`
	SellThroughRate float64  `json:"sell_through_rate"`
}

// ShoppingDayReport is one row of the best-shopping-days ranking. Weekdays
// with no purchases at all are omitted from the report.
type ShoppingDayReport struct {
	Day             string  `json:"day"`
	ItemsPurchased  int     `json:"items_purchased"`
	TotalProfit     float64 `json:"total_profit"`
	AvgProfitMargin float64 `json:"avg_profit_margin"`
}

// AgingItem is a sample item inside an aging bucket.
type AgingItem struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// AgingBucket groups unsold items by how long they have been in inventory.
type AgingBucket struct {
	Bucket     string      `json:"bucket"`
	ItemCount  int         `json:"item_count"`
	TotalValue float64     `json:"total_value"`
	Items      []AgingItem `json:"items"`
}

// TopItem is one row of the top-performing-items report.
type TopItem struct {
	ID            uint     `json:"id"`
	Name          string   `json:"name"`
	Category      Category `json:"category"`
	PurchasePrice float64  `json:"purchase_price"`
	SalePrice     float64  `json:"sale_price"`
	Profit        float64  `json:"profit"`
	Margin        float64  `json:"margin"`
	DaysToSell    *int     `json:"days_to_sell"`
}
