package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hardysdecor/antique-tracker/internal/database"
	"github.com/hardysdecor/antique-tracker/internal/models"
)

const (
	defaultItemLimit = 50
	maxItemLimit     = 200
)

type ItemHandler struct{}

func NewItemHandler() *ItemHandler {
	return &ItemHandler{}
}

// ListItems returns items newest first, with optional sold/category/store
// filters and limit/offset paging.
func (h *ItemHandler) ListItems(c *gin.Context) {
	db := database.GetDB()

	query := db.Model(&models.Item{}).Order("created_at DESC")

	if sold := c.Query("sold"); sold != "" {
		isSold, err := strconv.ParseBool(sold)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sold must be true or false"})
			return
		}
		query = query.Where("is_sold = ?", isSold)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if storeID := c.Query("store_id"); storeID != "" {
		id, err := strconv.Atoi(storeID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "store_id must be an integer"})
			return
		}
		query = query.Where("store_id = ?", id)
	}

	limit := defaultItemLimit
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
		if limit > maxItemLimit {
			limit = maxItemLimit
		}
	}
	offset := 0
	if o := c.Query("offset"); o != "" {
		parsed, err := strconv.Atoi(o)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be a non-negative integer"})
			return
		}
		offset = parsed
	}

	var items []models.Item
	if err := query.Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]models.ItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, models.NewItemResponse(item))
	}

	c.JSON(http.StatusOK, responses)
}

// CreateItem records a new purchase.
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req models.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := req.Category
	if category == "" {
		category = models.CategoryOther
	}
	if !category.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
		return
	}

	condition := req.Condition
	if condition == "" {
		condition = models.ConditionGood
	}
	if !condition.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown condition"})
		return
	}

	if *req.PurchasePrice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "purchase_price must not be negative"})
		return
	}

	db := database.GetDB()

	if req.StoreID != nil {
		var store models.Store
		if err := db.First(&store, *req.StoreID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "store not found"})
			return
		}
	}

	item := models.Item{
		Name:               req.Name,
		Description:        req.Description,
		Category:           category,
		Condition:          condition,
		PurchasePrice:      *req.PurchasePrice,
		PurchaseDate:       req.PurchaseDate,
		StoreID:            req.StoreID,
		SuggestedPrice:     req.SuggestedPrice,
		ListedPrice:        req.ListedPrice,
		AIIdentification:   req.AIIdentification,
		EstimatedValueLow:  req.EstimatedValueLow,
		EstimatedValueHigh: req.EstimatedValueHigh,
		Photo:              req.Photo,
		Notes:              req.Notes,
	}

	if err := db.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, models.NewItemResponse(item))
}

// GetItem returns one item by id.
func (h *ItemHandler) GetItem(c *gin.Context) {
	db := database.GetDB()

	var item models.Item
	if err := db.First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	c.JSON(http.StatusOK, models.NewItemResponse(item))
}

// UpdateItem applies a partial update. Fields absent from the request body
// are left untouched. Setting is_sold to false also clears the sale fields.
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	var req models.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var item models.Item
	if err := db.First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		if !req.Category.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
			return
		}
		updates["category"] = *req.Category
	}
	if req.Condition != nil {
		if !req.Condition.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown condition"})
			return
		}
		updates["condition"] = *req.Condition
	}
	if req.PurchasePrice != nil {
		if *req.PurchasePrice < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "purchase_price must not be negative"})
			return
		}
		updates["purchase_price"] = *req.PurchasePrice
	}
	if req.PurchaseDate != nil {
		updates["purchase_date"] = *req.PurchaseDate
	}
	if req.StoreID != nil {
		var store models.Store
		if err := db.First(&store, *req.StoreID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "store not found"})
			return
		}
		updates["store_id"] = *req.StoreID
	}
	if req.SuggestedPrice != nil {
		updates["suggested_price"] = *req.SuggestedPrice
	}
	if req.ListedPrice != nil {
		updates["listed_price"] = *req.ListedPrice
	}
	if req.EstimatedValueLow != nil {
		updates["estimated_value_low"] = *req.EstimatedValueLow
	}
	if req.EstimatedValueHigh != nil {
		updates["estimated_value_high"] = *req.EstimatedValueHigh
	}
	if req.Photo != nil {
		updates["photo"] = *req.Photo
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.SalePrice != nil {
		updates["sale_price"] = *req.SalePrice
	}
	if req.SaleDate != nil {
		updates["sale_date"] = *req.SaleDate
	}
	if req.IsSold != nil {
		updates["is_sold"] = *req.IsSold
		if !*req.IsSold {
			// Unselling wipes the sale record
			updates["sale_price"] = nil
			updates["sale_date"] = nil
		}
	}

	if len(updates) > 0 {
		if err := db.Model(&item).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	db.First(&item, item.ID)
	c.JSON(http.StatusOK, models.NewItemResponse(item))
}

// SellItem marks an item sold in a single update. Re-selling an already
// sold item overwrites the previous sale record.
func (h *ItemHandler) SellItem(c *gin.Context) {
	var req models.SellItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if *req.SalePrice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sale_price must not be negative"})
		return
	}

	db := database.GetDB()

	var item models.Item
	if err := db.First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	saleDate := time.Now()
	if req.SaleDate != nil {
		saleDate = *req.SaleDate
	}

	err := db.Model(&item).Updates(map[string]interface{}{
		"is_sold":    true,
		"sale_price": *req.SalePrice,
		"sale_date":  saleDate,
	}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	db.First(&item, item.ID)
	c.JSON(http.StatusOK, models.NewItemResponse(item))
}

// DeleteItem removes an item permanently.
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	db := database.GetDB()

	var item models.Item
	if err := db.First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	if err := db.Delete(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}

// ListCategories returns the category catalog for pickers.
func (h *ItemHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, models.AllCategories())
}
