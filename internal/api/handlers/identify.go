package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hardysdecor/antique-tracker/internal/services"
)

type IdentifyHandler struct {
	identify *services.IdentifyService
	ebay     *services.EbayService
}

func NewIdentifyHandler(identify *services.IdentifyService, ebay *services.EbayService) *IdentifyHandler {
	return &IdentifyHandler{
		identify: identify,
		ebay:     ebay,
	}
}

// IdentifyRequest carries a photo plus optional notes from the seller.
type IdentifyRequest struct {
	Image             string `json:"image" binding:"required"`
	AdditionalContext string `json:"additional_context"`
}

// ShelfScanRequest carries a shelf photo.
type ShelfScanRequest struct {
	Image    string `json:"image" binding:"required"`
	MaxItems int    `json:"max_items"`
}

// Identify appraises a single item photo.
func (h *IdentifyHandler) Identify(c *gin.Context) {
	var req IdentifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.identify.IsEnabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "OpenAI API key not configured"})
		return
	}

	result, err := h.identify.IdentifyItem(c.Request.Context(), req.Image, req.AdditionalContext)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// QuickValue returns a trimmed-down appraisal: value range and category.
func (h *IdentifyHandler) QuickValue(c *gin.Context) {
	var req IdentifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.identify.IsEnabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "OpenAI API key not configured"})
		return
	}

	result, err := h.identify.IdentifyItem(c.Request.Context(), req.Image, req.AdditionalContext)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"item_name":            result.ItemName,
		"estimated_value_low":  result.EstimatedValueLow,
		"estimated_value_high": result.EstimatedValueHigh,
		"suggested_price":      result.SuggestedPrice,
		"category":             result.Category,
		"market_data":          result.MarketData,
	})
}

// ScanShelf finds the most resale-worthy items in a shelf photo.
func (h *IdentifyHandler) ScanShelf(c *gin.Context) {
	var req ShelfScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.identify.IsEnabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "OpenAI API key not configured"})
		return
	}

	result, err := h.identify.ScanShelf(c.Request.Context(), req.Image, req.MaxItems)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// EbaySearch searches eBay completed sales directly, for manual research.
func (h *IdentifyHandler) EbaySearch(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	if !h.ebay.IsConfigured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "eBay API not configured. Set EBAY_APP_ID."})
		return
	}

	market, err := h.ebay.FindCompletedItems(c.Request.Context(), q, 10, true)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, market)
}

// Status reports which AI features are configured.
func (h *IdentifyHandler) Status(c *gin.Context) {
	hasOpenAI := h.identify.IsEnabled()
	hasEbay := h.ebay.IsConfigured()

	c.JSON(http.StatusOK, gin.H{
		"openai_configured": hasOpenAI,
		"ebay_configured":   hasEbay,
		"model":             "gpt-4o (vision) + gpt-4o-mini (refinement)",
		"features": gin.H{
			"image_identification": hasOpenAI,
			"market_data":          hasEbay,
			"price_refinement":     hasOpenAI && hasEbay,
		},
	})
}
