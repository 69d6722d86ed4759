package services

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hardysdecor/antique-tracker/internal/models"
)

// AnalyticsService computes business reports over the current item
// collection. Every report is a pure function of the stored data at call
// time: no caching, no incremental state, fully recomputed per request.
//
// Money is aggregated with decimals so that report totals match the sum of
// per-item figures exactly; stored prices stay float64. Money fields are
// rounded to 2 decimals, margin and day averages to 1, only at report
// assembly.
type AnalyticsService struct {
	db *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// Summary returns the overall business summary. windowDays scopes the
// recent-sales block by sale date and the recent-purchases block by purchase
// date; zero or negative means no lower bound (all-time), never a zero-day
// window. Unsold counts and inventory value always cover the whole
// inventory.
func (s *AnalyticsService) Summary(windowDays int) (*models.SummaryReport, error) {
	items, err := s.loadItems()
	if err != nil {
		return nil, err
	}
	return computeSummary(items, windowDays, time.Now().UTC()), nil
}

// ByStore returns per-store performance, ordered by total profit descending
// with deterministic tie-breaks. Items without a store are excluded; only
// stores with at least one item appear.
func (s *AnalyticsService) ByStore() ([]models.StoreReport, error) {
	items, err := s.loadItems()
	if err != nil {
		return nil, err
	}

	var stores []models.Store
	if err := s.db.Find(&stores).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Store, len(stores))
	for _, st := range stores {
		byID[st.ID] = st
	}

	return computeByStore(items, byID), nil
}

// ByCategory returns per-category performance. Every category containing at
// least one item appears, even with zero sales.
func (s *AnalyticsService) ByCategory() ([]models.CategoryReport, error) {
	items, err := s.loadItems()
	if err != nil {
		return nil, err
	}
	return computeByCategory(items), nil
}

// BestShoppingDays ranks weekdays by the profit of items purchased on them.
// Weekdays with no purchases at all are omitted.
func (s *AnalyticsService) BestShoppingDays() ([]models.ShoppingDayReport, error) {
	items, err := s.loadItems()
	if err != nil {
		return nil, err
	}
	return computeBestShoppingDays(items), nil
}

// InventoryAging buckets unsold items by how long they have been held.
func (s *AnalyticsService) InventoryAging() ([]models.AgingBucket, error) {
	items, err := s.loadItems()
	if err != nil {
		return nil, err
	}
	return computeInventoryAging(items, time.Now().UTC()), nil
}

// TopItems returns the best performing sold items ranked by the given
// metric: "profit" (default), "margin" or "revenue".
func (s *AnalyticsService) TopItems(metric string, limit int) ([]models.TopItem, error) {
	items, err := s.loadItems()
	if err != nil {
		return nil, err
	}
	return computeTopItems(items, metric, limit), nil
}

func (s *AnalyticsService) loadItems() ([]models.Item, error) {
	var items []models.Item
	if err := s.db.Order("purchase_date ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

var hundred = decimal.NewFromInt(100)

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

func round1(d decimal.Decimal) float64 {
	f, _ := d.Round(1).Float64()
	return f
}

// meanRound1 averages a decimal sum over n entries, returning 0 for an
// empty set instead of dividing by zero.
func meanRound1(sum decimal.Decimal, n int) float64 {
	if n == 0 {
		return 0
	}
	return round1(sum.Div(decimal.NewFromInt(int64(n))))
}

// itemMargin returns the profit margin percentage for a qualifying sold
// item, and false when the margin is undefined (purchase price of zero).
func itemMargin(item *models.Item) (decimal.Decimal, bool) {
	if item.PurchasePrice <= 0 {
		return decimal.Decimal{}, false
	}
	purchase := dec(item.PurchasePrice)
	return dec(*item.SalePrice).Sub(purchase).Div(purchase).Mul(hundred), true
}

func computeSummary(items []models.Item, windowDays int, now time.Time) *models.SummaryReport {
	windowed := windowDays > 0
	var cutoff time.Time
	if windowed {
		cutoff = now.AddDate(0, 0, -windowDays)
	}

	report := &models.SummaryReport{PeriodDays: windowDays, TotalItems: len(items)}

	inventoryValue := decimal.Zero
	revenue := decimal.Zero
	cost := decimal.Zero
	marginSum := decimal.Zero
	marginN := 0
	daysSum := int64(0)
	daysN := 0
	spent := decimal.Zero

	for i := range items {
		item := &items[i]

		if item.IsSold {
			report.SoldItems++
		} else {
			report.UnsoldItems++
			inventoryValue = inventoryValue.Add(dec(item.PurchasePrice))
		}

		if !windowed || !item.PurchaseDate.Before(cutoff) {
			report.RecentPurchases.Count++
			spent = spent.Add(dec(item.PurchasePrice))
		}

		if !item.QualifiesForSaleMetrics() {
			continue
		}
		if windowed && item.SaleDate.Before(cutoff) {
			continue
		}

		report.RecentSales.Count++
		revenue = revenue.Add(dec(*item.SalePrice))
		cost = cost.Add(dec(item.PurchasePrice))

		if margin, ok := itemMargin(item); ok {
			marginSum = marginSum.Add(margin)
			marginN++
		}
		if days := item.DaysToSell(); days != nil {
			daysSum += int64(*days)
			daysN++
		}
	}

	report.CurrentInventoryValue = round2(inventoryValue)
	report.RecentSales.Revenue = round2(revenue)
	report.RecentSales.Cost = round2(cost)
	// Profit is derived from the same revenue and cost sums, so the
	// profit == revenue - cost identity holds exactly.
	report.RecentSales.Profit = round2(revenue.Sub(cost))
	report.RecentSales.AvgProfitMargin = meanRound1(marginSum, marginN)
	report.RecentSales.AvgDaysToSell = meanRound1(decimal.NewFromInt(daysSum), daysN)
	report.RecentPurchases.TotalSpent = round2(spent)

	return report
}

type storeAgg struct {
	report   models.StoreReport
	profit   decimal.Decimal
	invested decimal.Decimal
	margins  decimal.Decimal
	marginN  int
	soldAll  int
}

func computeByStore(items []models.Item, stores map[uint]models.Store) []models.StoreReport {
	aggs := make(map[uint]*storeAgg)
	order := make([]uint, 0)

	for i := range items {
		item := &items[i]
		if item.StoreID == nil {
			continue // nothing to attribute the purchase to
		}

		id := *item.StoreID
		agg, ok := aggs[id]
		if !ok {
			agg = &storeAgg{profit: decimal.Zero, invested: decimal.Zero, margins: decimal.Zero}
			agg.report.StoreID = id
			if st, found := stores[id]; found {
				agg.report.StoreName = st.Name
				agg.report.City = st.City
			}
			aggs[id] = agg
			order = append(order, id)
		}

		agg.report.TotalItems++
		agg.invested = agg.invested.Add(dec(item.PurchasePrice))
		if item.IsSold {
			agg.soldAll++
		}

		if !item.QualifiesForSaleMetrics() {
			continue
		}
		agg.report.SoldItems++
		agg.profit = agg.profit.Add(dec(*item.SalePrice).Sub(dec(item.PurchasePrice)))
		if margin, ok := itemMargin(item); ok {
			agg.margins = agg.margins.Add(margin)
			agg.marginN++
		}
	}

	list := make([]*storeAgg, 0, len(aggs))
	for _, id := range order {
		list = append(list, aggs[id])
	}

	sort.Slice(list, func(a, b int) bool {
		if cmp := list[a].profit.Cmp(list[b].profit); cmp != 0 {
			return cmp > 0
		}
		if list[a].report.TotalItems != list[b].report.TotalItems {
			return list[a].report.TotalItems > list[b].report.TotalItems
		}
		return list[a].report.StoreID < list[b].report.StoreID
	})

	reports := make([]models.StoreReport, 0, len(list))
	for _, agg := range list {
		r := agg.report
		r.UnsoldItems = r.TotalItems - agg.soldAll
		r.TotalInvested = round2(agg.invested)
		r.TotalProfit = round2(agg.profit)
		r.AvgProfitMargin = meanRound1(agg.margins, agg.marginN)
		r.SellThroughRate = rate(agg.soldAll, r.TotalItems)
		reports = append(reports, r)
	}
	return reports
}

type categoryAgg struct {
	report  models.CategoryReport
	profit  decimal.Decimal
	revenue decimal.Decimal
	margins decimal.Decimal
	marginN int
	daysSum int64
	daysN   int
	soldAll int
}

func computeByCategory(items []models.Item) []models.CategoryReport {
	aggs := make(map[models.Category]*categoryAgg)
	order := make([]models.Category, 0)

	for i := range items {
		item := &items[i]

		agg, ok := aggs[item.Category]
		if !ok {
			agg = &categoryAgg{profit: decimal.Zero, revenue: decimal.Zero, margins: decimal.Zero}
			agg.report.Category = item.Category
			aggs[item.Category] = agg
			order = append(order, item.Category)
		}

		agg.report.TotalItems++
		if item.IsSold {
			agg.soldAll++
		}

		if !item.QualifiesForSaleMetrics() {
			continue
		}
		agg.report.SoldItems++
		agg.profit = agg.profit.Add(dec(*item.SalePrice).Sub(dec(item.PurchasePrice)))
		agg.revenue = agg.revenue.Add(dec(*item.SalePrice))
		if margin, ok := itemMargin(item); ok {
			agg.margins = agg.margins.Add(margin)
			agg.marginN++
		}
		if days := item.DaysToSell(); days != nil {
			agg.daysSum += int64(*days)
			agg.daysN++
		}
	}

	list := make([]*categoryAgg, 0, len(aggs))
	for _, c := range order {
		list = append(list, aggs[c])
	}

	// Ties break on the stable machine value, not the display label.
	sort.Slice(list, func(a, b int) bool {
		if cmp := list[a].profit.Cmp(list[b].profit); cmp != 0 {
			return cmp > 0
		}
		return strings.Compare(string(list[a].report.Category), string(list[b].report.Category)) < 0
	})

	reports := make([]models.CategoryReport, 0, len(list))
	for _, agg := range list {
		r := agg.report
		r.UnsoldItems = r.TotalItems - agg.soldAll
		r.TotalProfit = round2(agg.profit)
		r.TotalRevenue = round2(agg.revenue)
		r.AvgProfitMargin = meanRound1(agg.margins, agg.marginN)
		r.AvgDaysToSell = meanRound1(decimal.NewFromInt(agg.daysSum), agg.daysN)
		r.SellThroughRate = rate(agg.soldAll, r.TotalItems)
		reports = append(reports, r)
	}
	return reports
}

type weekdayAgg struct {
	count   int
	profit  decimal.Decimal
	margins decimal.Decimal
	marginN int
}

func computeBestShoppingDays(items []models.Item) []models.ShoppingDayReport {
	var days [7]weekdayAgg

	for i := range items {
		item := &items[i]
		wd := item.PurchaseDate.Weekday()
		days[wd].count++

		if !item.QualifiesForSaleMetrics() {
			continue
		}
		days[wd].profit = days[wd].profit.Add(dec(*item.SalePrice).Sub(dec(item.PurchasePrice)))
		if margin, ok := itemMargin(item); ok {
			days[wd].margins = days[wd].margins.Add(margin)
			days[wd].marginN++
		}
	}

	type row struct {
		weekday time.Weekday
		agg     *weekdayAgg
	}
	rows := make([]row, 0, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		// A weekday with zero purchases has no items at all; omit it.
		if days[wd].count == 0 {
			continue
		}
		rows = append(rows, row{weekday: wd, agg: &days[wd]})
	}

	sort.Slice(rows, func(a, b int) bool {
		if cmp := rows[a].agg.profit.Cmp(rows[b].agg.profit); cmp != 0 {
			return cmp > 0
		}
		return rows[a].weekday < rows[b].weekday
	})

	reports := make([]models.ShoppingDayReport, 0, len(rows))
	for _, r := range rows {
		reports = append(reports, models.ShoppingDayReport{
			Day:             r.weekday.String(),
			ItemsPurchased:  r.agg.count,
			TotalProfit:     round2(r.agg.profit),
			AvgProfitMargin: meanRound1(r.agg.margins, r.agg.marginN),
		})
	}
	return reports
}

// agingBucketDefs are evaluated in order; the first matching upper bound
// wins. maxDays < 0 means unbounded.
var agingBucketDefs = []struct {
	label   string
	maxDays int
}{
	{"0-30 days", 30},
	{"31-60 days", 60},
	{"61-90 days", 90},
	{"91-180 days", 180},
	{"180+ days", -1},
}

const agingSampleSize = 5

func computeInventoryAging(items []models.Item, now time.Time) []models.AgingBucket {
	counts := make([]int, len(agingBucketDefs))
	values := make([]decimal.Decimal, len(agingBucketDefs))
	samples := make([][]models.AgingItem, len(agingBucketDefs))
	for i := range values {
		values[i] = decimal.Zero
		samples[i] = []models.AgingItem{}
	}

	for i := range items {
		item := &items[i]
		if item.IsSold {
			continue
		}

		daysOld := int(now.Sub(item.PurchaseDate).Hours() / 24)
		idx := len(agingBucketDefs) - 1
		for b, def := range agingBucketDefs {
			if def.maxDays >= 0 && daysOld <= def.maxDays {
				idx = b
				break
			}
		}

		counts[idx]++
		values[idx] = values[idx].Add(dec(item.PurchasePrice))
		if len(samples[idx]) < agingSampleSize {
			samples[idx] = append(samples[idx], models.AgingItem{
				ID:    item.ID,
				Name:  item.Name,
				Price: item.PurchasePrice,
			})
		}
	}

	buckets := make([]models.AgingBucket, 0, len(agingBucketDefs))
	for i, def := range agingBucketDefs {
		buckets = append(buckets, models.AgingBucket{
			Bucket:     def.label,
			ItemCount:  counts[i],
			TotalValue: round2(values[i]),
			Items:      samples[i],
		})
	}
	return buckets
}

const (
	topItemsDefaultLimit = 10
	topItemsMaxLimit     = 50
)

func computeTopItems(items []models.Item, metric string, limit int) []models.TopItem {
	if limit <= 0 {
		limit = topItemsDefaultLimit
	}
	if limit > topItemsMaxLimit {
		limit = topItemsMaxLimit
	}

	type scored struct {
		row    models.TopItem
		profit decimal.Decimal
		margin decimal.Decimal
	}

	rows := make([]scored, 0)
	for i := range items {
		item := &items[i]
		// Margin ranking needs a real purchase price; zero-cost finds are
		// left out of this report entirely.
		if !item.QualifiesForSaleMetrics() || item.PurchasePrice <= 0 {
			continue
		}

		profit := dec(*item.SalePrice).Sub(dec(item.PurchasePrice))
		margin, _ := itemMargin(item)
		rows = append(rows, scored{
			row: models.TopItem{
				ID:            item.ID,
				Name:          item.Name,
				Category:      item.Category,
				PurchasePrice: item.PurchasePrice,
				SalePrice:     *item.SalePrice,
				Profit:        round2(profit),
				Margin:        round1(margin),
				DaysToSell:    item.DaysToSell(),
			},
			profit: profit,
			margin: margin,
		})
	}

	sort.SliceStable(rows, func(a, b int) bool {
		var cmp int
		switch metric {
		case "margin":
			cmp = rows[a].margin.Cmp(rows[b].margin)
		case "revenue":
			switch {
			case rows[a].row.SalePrice > rows[b].row.SalePrice:
				cmp = 1
			case rows[a].row.SalePrice < rows[b].row.SalePrice:
				cmp = -1
			}
		default: // profit
			cmp = rows[a].profit.Cmp(rows[b].profit)
		}
		if cmp != 0 {
			return cmp > 0
		}
		return rows[a].row.ID < rows[b].row.ID
	})

	if len(rows) > limit {
		rows = rows[:limit]
	}

	out := make([]models.TopItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.row)
	}
	return out
}

func rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(decimal.NewFromInt(int64(part)).Div(decimal.NewFromInt(int64(total))).Mul(hundred))
}
