package services

import (
	"testing"
	"time"

	"github.com/hardysdecor/antique-tracker/internal/models"
)

var analyticsNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// boughtItem returns an unsold item purchased daysAgo days before analyticsNow.
func boughtItem(purchase float64, daysAgo int) models.Item {
	return models.Item{
		Category:      models.CategoryOther,
		PurchasePrice: purchase,
		PurchaseDate:  analyticsNow.AddDate(0, 0, -daysAgo),
	}
}

// flippedItem returns a sold item: purchased purchasedDaysAgo days before
// analyticsNow and sold daysToSell days later.
func flippedItem(purchase, sale float64, purchasedDaysAgo, daysToSell int) models.Item {
	item := boughtItem(purchase, purchasedDaysAgo)
	saleDate := item.PurchaseDate.AddDate(0, 0, daysToSell)
	item.IsSold = true
	item.SalePrice = &sale
	item.SaleDate = &saleDate
	return item
}

func withStore(item models.Item, storeID uint) models.Item {
	item.StoreID = &storeID
	return item
}

func withCategory(item models.Item, c models.Category) models.Item {
	item.Category = c
	return item
}

func TestComputeSummary_UnsoldOnly(t *testing.T) {
	// Scenario: one unsold item bought for 100
	items := []models.Item{boughtItem(100, 5)}

	report := computeSummary(items, 90, analyticsNow)

	if report.TotalItems != 1 {
		t.Errorf("total_items = %d, want 1", report.TotalItems)
	}
	if report.UnsoldItems != 1 {
		t.Errorf("unsold_items = %d, want 1", report.UnsoldItems)
	}
	if report.CurrentInventoryValue != 100 {
		t.Errorf("current_inventory_value = %v, want 100", report.CurrentInventoryValue)
	}

	rs := report.RecentSales
	if rs.Count != 0 || rs.Revenue != 0 || rs.Cost != 0 || rs.Profit != 0 {
		t.Errorf("recent_sales should be all zero, got %+v", rs)
	}
	if rs.AvgProfitMargin != 0 || rs.AvgDaysToSell != 0 {
		t.Errorf("empty means should be 0, got margin=%v days=%v", rs.AvgProfitMargin, rs.AvgDaysToSell)
	}
}

func TestComputeSummary_SingleSale(t *testing.T) {
	// Bought 50, sold 80, ten days apart
	items := []models.Item{flippedItem(50, 80, 30, 10)}

	report := computeSummary(items, 90, analyticsNow)

	rs := report.RecentSales
	if rs.Count != 1 {
		t.Fatalf("recent_sales.count = %d, want 1", rs.Count)
	}
	if rs.Revenue != 80 || rs.Cost != 50 || rs.Profit != 30 {
		t.Errorf("revenue/cost/profit = %v/%v/%v, want 80/50/30", rs.Revenue, rs.Cost, rs.Profit)
	}
	if rs.AvgProfitMargin != 60 {
		t.Errorf("avg_profit_margin = %v, want 60", rs.AvgProfitMargin)
	}
	if rs.AvgDaysToSell != 10 {
		t.Errorf("avg_days_to_sell = %v, want 10", rs.AvgDaysToSell)
	}
	if report.SoldItems != 1 || report.UnsoldItems != 0 {
		t.Errorf("sold/unsold = %d/%d, want 1/0", report.SoldItems, report.UnsoldItems)
	}
}

func TestComputeSummary_ProfitIdentity(t *testing.T) {
	// Fractional prices that accumulate float error when summed naively
	items := []models.Item{
		flippedItem(10.10, 33.30, 20, 1),
		flippedItem(0.70, 2.10, 15, 2),
		flippedItem(5.55, 7.77, 10, 3),
	}

	report := computeSummary(items, 90, analyticsNow)

	rs := report.RecentSales
	if rs.Profit != rs.Revenue-rs.Cost {
		t.Errorf("profit identity broken: %v != %v - %v", rs.Profit, rs.Revenue, rs.Cost)
	}
	if rs.Revenue != 43.17 || rs.Cost != 16.35 {
		t.Errorf("revenue/cost = %v/%v, want 43.17/16.35", rs.Revenue, rs.Cost)
	}
	if rs.Profit != 26.82 {
		t.Errorf("profit = %v, want 26.82", rs.Profit)
	}
}

func TestComputeSummary_WindowScopesSalesBySaleDate(t *testing.T) {
	items := []models.Item{
		flippedItem(10, 20, 200, 10), // sold 190 days ago, outside window
		flippedItem(10, 30, 40, 20),  // sold 20 days ago, inside window
		boughtItem(100, 200),         // old unsold item, still counted unwindowed
	}

	report := computeSummary(items, 90, analyticsNow)

	if report.RecentSales.Count != 1 {
		t.Errorf("recent_sales.count = %d, want 1 (old sale outside window)", report.RecentSales.Count)
	}
	if report.RecentSales.Profit != 20 {
		t.Errorf("profit = %v, want 20", report.RecentSales.Profit)
	}
	// Unsold counts and inventory value are never windowed
	if report.UnsoldItems != 1 || report.CurrentInventoryValue != 100 {
		t.Errorf("unsold=%d value=%v, want 1/100", report.UnsoldItems, report.CurrentInventoryValue)
	}
	// Recent purchases are windowed by purchase date
	if report.RecentPurchases.Count != 1 {
		t.Errorf("recent_purchases.count = %d, want 1", report.RecentPurchases.Count)
	}
}

func TestComputeSummary_NonPositiveWindowMeansAllTime(t *testing.T) {
	items := []models.Item{
		flippedItem(10, 20, 400, 10),
		flippedItem(10, 30, 40, 20),
	}

	for _, days := range []int{0, -7} {
		report := computeSummary(items, days, analyticsNow)
		if report.RecentSales.Count != 2 {
			t.Errorf("window=%d: count = %d, want 2 (all-time)", days, report.RecentSales.Count)
		}
		if report.RecentPurchases.Count != 2 {
			t.Errorf("window=%d: recent_purchases.count = %d, want 2", days, report.RecentPurchases.Count)
		}
	}
}

func TestComputeSummary_ZeroPurchasePriceExcludedFromMargin(t *testing.T) {
	// Free find sold for 10: margin is undefined but profit still counts
	items := []models.Item{
		flippedItem(0, 10, 20, 5),
		flippedItem(50, 80, 20, 5), // margin 60
	}

	report := computeSummary(items, 90, analyticsNow)

	if report.RecentSales.Profit != 40 {
		t.Errorf("profit = %v, want 40 (free find still contributes)", report.RecentSales.Profit)
	}
	if report.RecentSales.AvgProfitMargin != 60 {
		t.Errorf("avg_profit_margin = %v, want 60 (free find excluded from mean)", report.RecentSales.AvgProfitMargin)
	}
}

func TestComputeSummary_SoldWithoutSaleDataExcluded(t *testing.T) {
	price := 25.0
	incomplete := models.Item{
		Category:      models.CategoryOther,
		PurchasePrice: 10,
		PurchaseDate:  analyticsNow.AddDate(0, 0, -30),
		IsSold:        true,
		SalePrice:     &price, // no sale date recorded
	}
	items := []models.Item{incomplete}

	report := computeSummary(items, 90, analyticsNow)

	if report.SoldItems != 1 {
		t.Errorf("sold_items = %d, want 1", report.SoldItems)
	}
	if report.RecentSales.Count != 0 {
		t.Errorf("recent_sales.count = %d, want 0 (item does not qualify)", report.RecentSales.Count)
	}
	if report.UnsoldItems != 0 || report.CurrentInventoryValue != 0 {
		t.Errorf("sold item must not count as inventory, got unsold=%d value=%v",
			report.UnsoldItems, report.CurrentInventoryValue)
	}
}

func TestComputeByStore_SingleStore(t *testing.T) {
	stores := map[uint]models.Store{1: {ID: 1, Name: "Goodwill - Melbourne", City: "Melbourne"}}
	items := []models.Item{withStore(flippedItem(50, 80, 30, 10), 1)}

	reports := computeByStore(items, stores)

	if len(reports) != 1 {
		t.Fatalf("expected 1 store report, got %d", len(reports))
	}
	r := reports[0]
	if r.StoreID != 1 || r.StoreName != "Goodwill - Melbourne" || r.City != "Melbourne" {
		t.Errorf("store identity wrong: %+v", r)
	}
	if r.TotalItems != 1 || r.SoldItems != 1 {
		t.Errorf("total/sold = %d/%d, want 1/1", r.TotalItems, r.SoldItems)
	}
	if r.TotalProfit != 30 {
		t.Errorf("total_profit = %v, want 30", r.TotalProfit)
	}
	if r.AvgProfitMargin != 60 {
		t.Errorf("avg_profit_margin = %v, want 60", r.AvgProfitMargin)
	}
}

func TestComputeByStore_ExcludesStorelessItems(t *testing.T) {
	items := []models.Item{
		flippedItem(10, 50, 30, 5), // no store
		withStore(boughtItem(20, 10), 2),
	}

	reports := computeByStore(items, map[uint]models.Store{2: {ID: 2, Name: "Estate Sale"}})

	if len(reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(reports))
	}
	if reports[0].StoreID != 2 || reports[0].TotalItems != 1 {
		t.Errorf("unexpected report: %+v", reports[0])
	}
	// A store with zero sold items reports 0 profit, it is not omitted
	if reports[0].TotalProfit != 0 {
		t.Errorf("total_profit = %v, want 0", reports[0].TotalProfit)
	}
}

func TestComputeByStore_TieBreakOnTotalItems(t *testing.T) {
	stores := map[uint]models.Store{
		1: {ID: 1, Name: "Store A"},
		2: {ID: 2, Name: "Store B"},
	}
	// Both stores profit 30; A has 2 items, B has 1
	items := []models.Item{
		withStore(flippedItem(50, 80, 30, 10), 1),
		withStore(boughtItem(5, 10), 1),
		withStore(flippedItem(20, 50, 30, 10), 2),
	}

	reports := computeByStore(items, stores)

	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if reports[0].StoreID != 1 {
		t.Errorf("tie should put store A (more items) first, got store %d", reports[0].StoreID)
	}

	// Running it again on the same data yields the same order
	again := computeByStore(items, stores)
	for i := range reports {
		if again[i].StoreID != reports[i].StoreID {
			t.Fatalf("ordering not deterministic at index %d", i)
		}
	}
}

func TestComputeByStore_TieBreakOnStoreID(t *testing.T) {
	stores := map[uint]models.Store{7: {ID: 7}, 3: {ID: 3}}
	// Equal profit, equal item counts: lower store id first
	items := []models.Item{
		withStore(flippedItem(10, 20, 30, 5), 7),
		withStore(flippedItem(10, 20, 30, 5), 3),
	}

	reports := computeByStore(items, stores)

	if reports[0].StoreID != 3 || reports[1].StoreID != 7 {
		t.Errorf("expected store order [3 7], got [%d %d]", reports[0].StoreID, reports[1].StoreID)
	}
}

func TestComputeByCategory_ZeroSaleCategoriesAppear(t *testing.T) {
	items := []models.Item{
		withCategory(flippedItem(50, 80, 30, 10), models.CategoryPottery),
		withCategory(boughtItem(20, 5), models.CategoryGlassware),
	}

	reports := computeByCategory(items)

	if len(reports) != 2 {
		t.Fatalf("expected 2 category reports, got %d", len(reports))
	}
	if reports[0].Category != models.CategoryPottery {
		t.Errorf("expected pottery first (profit 30), got %s", reports[0].Category)
	}
	glass := reports[1]
	if glass.Category != models.CategoryGlassware {
		t.Fatalf("expected glassware report, got %s", glass.Category)
	}
	if glass.TotalItems != 1 || glass.SoldItems != 0 {
		t.Errorf("glassware total/sold = %d/%d, want 1/0", glass.TotalItems, glass.SoldItems)
	}
	if glass.TotalProfit != 0 || glass.AvgProfitMargin != 0 || glass.AvgDaysToSell != 0 {
		t.Errorf("zero-sale category should report zeros, got %+v", glass)
	}
}

func TestComputeByCategory_TieBreakLexicographic(t *testing.T) {
	// vases and art both profit 10: 'art' sorts before 'vases'
	items := []models.Item{
		withCategory(flippedItem(10, 20, 30, 5), models.CategoryVases),
		withCategory(flippedItem(10, 20, 30, 5), models.CategoryArt),
	}

	reports := computeByCategory(items)

	if reports[0].Category != models.CategoryArt || reports[1].Category != models.CategoryVases {
		t.Errorf("expected [art vases], got [%s %s]", reports[0].Category, reports[1].Category)
	}
}

func TestComputeByCategory_AvgDaysToSell(t *testing.T) {
	items := []models.Item{
		withCategory(flippedItem(10, 20, 40, 4), models.CategoryBooks),
		withCategory(flippedItem(10, 20, 40, 7), models.CategoryBooks),
	}

	reports := computeByCategory(items)

	if len(reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(reports))
	}
	if reports[0].AvgDaysToSell != 5.5 {
		t.Errorf("avg_days_to_sell = %v, want 5.5", reports[0].AvgDaysToSell)
	}
}

func TestComputeBestShoppingDays(t *testing.T) {
	// Wednesday 2025-06-11
	wednesday := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)
	if wednesday.Weekday() != time.Wednesday {
		t.Fatal("fixture date is not a Wednesday")
	}

	sale := 30.0
	saleDate := wednesday.AddDate(0, 0, 3)
	sold := models.Item{
		Category:      models.CategoryOther,
		PurchasePrice: 10,
		PurchaseDate:  wednesday,
		IsSold:        true,
		SalePrice:     &sale,
		SaleDate:      &saleDate,
	}
	unsold := models.Item{
		Category:      models.CategoryOther,
		PurchasePrice: 5,
		PurchaseDate:  wednesday.Add(2 * time.Hour),
	}

	reports := computeBestShoppingDays([]models.Item{sold, unsold})

	if len(reports) != 1 {
		t.Fatalf("expected only Wednesday, got %d rows", len(reports))
	}
	r := reports[0]
	if r.Day != "Wednesday" {
		t.Errorf("day = %s, want Wednesday", r.Day)
	}
	if r.ItemsPurchased != 2 {
		t.Errorf("items_purchased = %d, want 2 (unsold still counts)", r.ItemsPurchased)
	}
	if r.TotalProfit != 20 {
		t.Errorf("total_profit = %v, want 20 (only the sold item contributes)", r.TotalProfit)
	}
}

func TestComputeBestShoppingDays_Ordering(t *testing.T) {
	monday := time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC)
	saturday := time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC)

	mkSold := func(day time.Time, purchase, sale float64) models.Item {
		saleDate := day.AddDate(0, 0, 2)
		return models.Item{
			Category:      models.CategoryOther,
			PurchasePrice: purchase,
			PurchaseDate:  day,
			IsSold:        true,
			SalePrice:     &sale,
			SaleDate:      &saleDate,
		}
	}

	items := []models.Item{
		mkSold(monday, 10, 20),   // Monday profit 10
		mkSold(saturday, 10, 60), // Saturday profit 50
	}

	reports := computeBestShoppingDays(items)

	if len(reports) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(reports))
	}
	if reports[0].Day != "Saturday" || reports[1].Day != "Monday" {
		t.Errorf("expected [Saturday Monday], got [%s %s]", reports[0].Day, reports[1].Day)
	}
}

func TestComputeInventoryAging(t *testing.T) {
	items := []models.Item{
		boughtItem(10, 5),            // 0-30
		boughtItem(20, 45),           // 31-60
		boughtItem(30, 200),          // 180+
		flippedItem(40, 90, 300, 10), // sold, excluded
	}

	buckets := computeInventoryAging(items, analyticsNow)

	if len(buckets) != 5 {
		t.Fatalf("expected 5 buckets, got %d", len(buckets))
	}

	byLabel := make(map[string]models.AgingBucket)
	for _, b := range buckets {
		byLabel[b.Bucket] = b
	}

	if b := byLabel["0-30 days"]; b.ItemCount != 1 || b.TotalValue != 10 {
		t.Errorf("0-30 bucket = %+v", b)
	}
	if b := byLabel["31-60 days"]; b.ItemCount != 1 || b.TotalValue != 20 {
		t.Errorf("31-60 bucket = %+v", b)
	}
	if b := byLabel["180+ days"]; b.ItemCount != 1 || b.TotalValue != 30 {
		t.Errorf("180+ bucket = %+v", b)
	}
	if b := byLabel["61-90 days"]; b.ItemCount != 0 || len(b.Items) != 0 {
		t.Errorf("61-90 bucket should be empty, got %+v", b)
	}
}

func TestComputeTopItems(t *testing.T) {
	a := flippedItem(10, 60, 30, 5) // profit 50, margin 500
	a.ID, a.Name = 1, "lamp"
	b := flippedItem(100, 140, 30, 5) // profit 40, margin 40
	b.ID, b.Name = 2, "mirror"
	free := flippedItem(0, 10, 30, 5) // zero purchase price, excluded
	free.ID, free.Name = 3, "freebie"

	items := []models.Item{a, b, free}

	byProfit := computeTopItems(items, "profit", 10)
	if len(byProfit) != 2 {
		t.Fatalf("expected 2 top items, got %d", len(byProfit))
	}
	if byProfit[0].ID != 1 || byProfit[1].ID != 2 {
		t.Errorf("profit order wrong: %+v", byProfit)
	}

	byRevenue := computeTopItems(items, "revenue", 10)
	if byRevenue[0].ID != 2 {
		t.Errorf("revenue order should put mirror (140) first, got item %d", byRevenue[0].ID)
	}

	byMargin := computeTopItems(items, "margin", 1)
	if len(byMargin) != 1 || byMargin[0].ID != 1 {
		t.Errorf("margin limit 1 should return the lamp, got %+v", byMargin)
	}
	if byMargin[0].Margin != 500 {
		t.Errorf("lamp margin = %v, want 500", byMargin[0].Margin)
	}
}

func TestMeanRound1_EmptySet(t *testing.T) {
	if got := meanRound1(dec(0), 0); got != 0 {
		t.Errorf("empty mean = %v, want 0", got)
	}
}
