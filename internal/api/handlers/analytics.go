package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hardysdecor/antique-tracker/internal/models"
	"github.com/hardysdecor/antique-tracker/internal/services"
)

type AnalyticsHandler struct {
	analytics *services.AnalyticsService
	snapshots *services.SnapshotService
}

func NewAnalyticsHandler(analytics *services.AnalyticsService, snapshots *services.SnapshotService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
		snapshots: snapshots,
	}
}

// GetSummary returns the windowed business summary. days defaults to 90;
// zero or negative means all time.
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "90"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer"})
		return
	}

	report, err := h.analytics.Summary(days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetByStore returns per-store performance, most profitable first.
func (h *AnalyticsHandler) GetByStore(c *gin.Context) {
	reports, err := h.analytics.ByStore()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, reports)
}

// GetByCategory returns per-category performance, most profitable first.
func (h *AnalyticsHandler) GetByCategory(c *gin.Context) {
	reports, err := h.analytics.ByCategory()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, reports)
}

// GetBestShoppingDays ranks purchase weekdays by realized profit.
func (h *AnalyticsHandler) GetBestShoppingDays(c *gin.Context) {
	reports, err := h.analytics.BestShoppingDays()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, reports)
}

// GetInventoryAging buckets unsold items by time in inventory.
func (h *AnalyticsHandler) GetInventoryAging(c *gin.Context) {
	buckets, err := h.analytics.InventoryAging()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, buckets)
}

// GetTopItems returns the best completed flips by profit, margin or revenue.
func (h *AnalyticsHandler) GetTopItems(c *gin.Context) {
	metric := c.DefaultQuery("metric", "profit")
	switch metric {
	case "profit", "margin", "revenue":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "metric must be profit, margin or revenue"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
		return
	}

	items, err := h.analytics.TopItems(metric, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, items)
}

// GetValueHistory returns daily inventory-value snapshots for a period.
func (h *AnalyticsHandler) GetValueHistory(c *gin.Context) {
	period := c.DefaultQuery("period", "month")

	snapshots, err := h.snapshots.GetHistory(period)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if snapshots == nil {
		snapshots = []models.InventoryValueSnapshot{}
	}

	c.JSON(http.StatusOK, models.ValueHistoryResponse{
		Snapshots: snapshots,
		Period:    period,
	})
}

// TakeSnapshot records a snapshot immediately (manual trigger).
func (h *AnalyticsHandler) TakeSnapshot(c *gin.Context) {
	if err := h.snapshots.TakeSnapshot(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Snapshot recorded"})
}
