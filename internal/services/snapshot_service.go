package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/hardysdecor/antique-tracker/internal/database"
	"github.com/hardysdecor/antique-tracker/internal/metrics"
	"github.com/hardysdecor/antique-tracker/internal/models"
)

// SnapshotService records a daily snapshot of inventory value and realized
// profit so the value-history chart has data points to draw.
type SnapshotService struct {
	mu            sync.Mutex
	lastSnapshot  time.Time
	snapshotHour  int // Hour of day to take snapshot (0-23)
	checkInterval time.Duration
}

// NewSnapshotService creates a snapshot service that records at the given
// hour of day.
func NewSnapshotService(snapshotHour int) *SnapshotService {
	if snapshotHour < 0 || snapshotHour > 23 {
		snapshotHour = 23
	}
	return &SnapshotService{
		snapshotHour:  snapshotHour,
		checkInterval: 15 * time.Minute,
	}
}

// Start begins the background snapshot worker.
func (s *SnapshotService) Start(ctx context.Context) {
	log.Println("Snapshot service started: will record daily inventory value")

	// Check if we need a snapshot for today on startup
	s.checkAndSnapshot()

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Snapshot service stopping...")
			return
		case <-ticker.C:
			s.checkAndSnapshot()
		}
	}
}

func (s *SnapshotService) checkAndSnapshot() {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if s.hasSnapshotForDate(today) {
		// Still refresh the gauges so /metrics stays current
		if stats, err := s.currentStats(); err == nil {
			publishInventoryGauges(stats)
		}
		return
	}

	// Only take automatic snapshots at or after the configured hour
	if now.Hour() >= s.snapshotHour {
		if err := s.TakeSnapshot(); err != nil {
			log.Printf("Snapshot service: failed to take snapshot: %v", err)
		}
	}
}

func (s *SnapshotService) hasSnapshotForDate(date time.Time) bool {
	db := database.GetDB()

	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	var count int64
	db.Model(&models.InventoryValueSnapshot{}).
		Where("snapshot_date >= ? AND snapshot_date < ?", startOfDay, endOfDay).
		Count(&count)

	return count > 0
}

// inventoryStats is the point-in-time state a snapshot records.
type inventoryStats struct {
	TotalItems     int
	UnsoldItems    int
	InventoryValue float64
	RealizedProfit float64
}

// computeInventoryStats sums inventory value over unsold items and realized
// profit over completed sales.
func computeInventoryStats(items []models.Item) inventoryStats {
	stats := inventoryStats{TotalItems: len(items)}

	value := dec(0)
	profit := dec(0)
	for i := range items {
		item := &items[i]
		if !item.IsSold {
			stats.UnsoldItems++
			value = value.Add(dec(item.PurchasePrice))
			continue
		}
		if item.QualifiesForSaleMetrics() {
			profit = profit.Add(dec(*item.SalePrice).Sub(dec(item.PurchasePrice)))
		}
	}

	stats.InventoryValue = round2(value)
	stats.RealizedProfit = round2(profit)
	return stats
}

func (s *SnapshotService) currentStats() (inventoryStats, error) {
	db := database.GetDB()

	var items []models.Item
	if err := db.Find(&items).Error; err != nil {
		return inventoryStats{}, err
	}

	return computeInventoryStats(items), nil
}

func publishInventoryGauges(stats inventoryStats) {
	metrics.InventoryItemsTotal.Set(float64(stats.TotalItems))
	metrics.InventoryUnsoldItems.Set(float64(stats.UnsoldItems))
	metrics.InventoryValueUSD.Set(stats.InventoryValue)
	metrics.RealizedProfitUSD.Set(stats.RealizedProfit)
}

// TakeSnapshot records the current inventory state for today, replacing any
// existing snapshot for the same date.
func (s *SnapshotService) TakeSnapshot() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db := database.GetDB()
	now := time.Now()
	snapshotDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats, err := s.currentStats()
	if err != nil {
		return err
	}

	snapshot := models.InventoryValueSnapshot{
		SnapshotDate:   snapshotDate,
		TotalItems:     stats.TotalItems,
		UnsoldItems:    stats.UnsoldItems,
		InventoryValue: stats.InventoryValue,
		RealizedProfit: stats.RealizedProfit,
		CreatedAt:      now,
	}

	// Upsert so re-runs on the same day overwrite rather than duplicate
	result := db.Where("DATE(snapshot_date) = DATE(?)", snapshotDate).
		Assign(models.InventoryValueSnapshot{
			TotalItems:     snapshot.TotalItems,
			UnsoldItems:    snapshot.UnsoldItems,
			InventoryValue: snapshot.InventoryValue,
			RealizedProfit: snapshot.RealizedProfit,
		}).
		FirstOrCreate(&snapshot)

	if result.Error != nil {
		return result.Error
	}

	publishInventoryGauges(stats)

	s.lastSnapshot = now
	log.Printf("Snapshot service: recorded snapshot for %s (inventory: $%.2f, items: %d, realized profit: $%.2f)",
		snapshotDate.Format("2006-01-02"), stats.InventoryValue, stats.TotalItems, stats.RealizedProfit)

	return nil
}

// periodStart maps a history period name to an inclusive start date. The
// zero time means no filter.
func periodStart(period string, now time.Time) time.Time {
	switch period {
	case "week":
		return now.AddDate(0, 0, -7)
	case "month":
		return now.AddDate(0, -1, 0)
	case "3month":
		return now.AddDate(0, -3, 0)
	case "year":
		return now.AddDate(-1, 0, 0)
	case "all":
		return time.Time{}
	default:
		return now.AddDate(0, -1, 0)
	}
}

// GetHistory retrieves snapshots for a period, oldest first.
func (s *SnapshotService) GetHistory(period string) ([]models.InventoryValueSnapshot, error) {
	db := database.GetDB()
	var snapshots []models.InventoryValueSnapshot

	startDate := periodStart(period, time.Now())

	query := db.Order("snapshot_date ASC")
	if !startDate.IsZero() {
		query = query.Where("snapshot_date >= ?", startDate)
	}

	if err := query.Find(&snapshots).Error; err != nil {
		return nil, err
	}

	return snapshots, nil
}

// GetLastSnapshot returns the most recent snapshot, or nil when none exist.
func (s *SnapshotService) GetLastSnapshot() *models.InventoryValueSnapshot {
	db := database.GetDB()
	var snapshot models.InventoryValueSnapshot

	if err := db.Order("snapshot_date DESC").First(&snapshot).Error; err != nil {
		return nil
	}

	return &snapshot
}
