package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hardysdecor/antique-tracker/internal/database"
	"github.com/hardysdecor/antique-tracker/internal/models"
	"github.com/hardysdecor/antique-tracker/internal/services"
)

const (
	defaultStoreSearchLimit = 20
	maxStoreSearchLimit     = 100
)

type StoreHandler struct{}

func NewStoreHandler() *StoreHandler {
	return &StoreHandler{}
}

// ListStores returns all stores alphabetically.
func (h *StoreHandler) ListStores(c *gin.Context) {
	db := database.GetDB()

	var stores []models.Store
	if err := db.Order("name ASC").Find(&stores).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stores)
}

// SearchStores matches stores by name or city substring and returns them
// most-used first. An empty query returns the most used stores.
func (h *StoreHandler) SearchStores(c *gin.Context) {
	db := database.GetDB()

	limit := defaultStoreSearchLimit
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
		if limit > maxStoreSearchLimit {
			limit = maxStoreSearchLimit
		}
	}

	query := db.Table("stores").
		Select("stores.id, stores.name, stores.address, stores.city, stores.notes, COUNT(items.id) AS usage_count").
		Joins("LEFT JOIN items ON items.store_id = stores.id").
		Group("stores.id")

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(stores.name) LIKE ? OR LOWER(stores.city) LIKE ?", pattern, pattern)
	}

	var results []models.StoreWithUsage
	err := query.Order("usage_count DESC").Order("stores.name ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if results == nil {
		results = []models.StoreWithUsage{}
	}

	c.JSON(http.StatusOK, results)
}

// CreateStore adds a store.
func (h *StoreHandler) CreateStore(c *gin.Context) {
	var req models.StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	store := models.Store{
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
		Notes:   req.Notes,
	}

	db := database.GetDB()
	if err := db.Create(&store).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, store)
}

// GetStore returns one store by id.
func (h *StoreHandler) GetStore(c *gin.Context) {
	db := database.GetDB()

	var store models.Store
	if err := db.First(&store, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		return
	}

	c.JSON(http.StatusOK, store)
}

// UpdateStore applies a partial update to a store.
func (h *StoreHandler) UpdateStore(c *gin.Context) {
	var req models.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var store models.Store
	if err := db.First(&store, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name must not be empty"})
			return
		}
		updates["name"] = *req.Name
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if len(updates) > 0 {
		if err := db.Model(&store).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	db.First(&store, store.ID)
	c.JSON(http.StatusOK, store)
}

// DeleteStore removes a store. A store still referenced by items is kept
// unless force=true is passed; forcing detaches the items first.
func (h *StoreHandler) DeleteStore(c *gin.Context) {
	db := database.GetDB()

	var store models.Store
	if err := db.First(&store, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		return
	}

	var usageCount int64
	if err := db.Model(&models.Item{}).Where("store_id = ?", store.ID).Count(&usageCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	force, _ := strconv.ParseBool(c.Query("force"))
	if usageCount > 0 && !force {
		c.JSON(http.StatusConflict, gin.H{
			"error":       "store is referenced by items",
			"usage_count": usageCount,
		})
		return
	}

	if usageCount > 0 {
		if err := db.Model(&models.Item{}).Where("store_id = ?", store.ID).
			Update("store_id", nil).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	if err := db.Delete(&store).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Store deleted"})
}

// SeedStores inserts the default store catalog, skipping stores that
// already exist by name.
func (h *StoreHandler) SeedStores(c *gin.Context) {
	db := database.GetDB()

	added, err := services.SeedDefaultStores(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Seeded default stores",
		"added":   added,
		"total":   len(services.DefaultStores()),
	})
}
