package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/hardysdecor/antique-tracker/internal/models"
)

// RunMigrations runs custom data migrations after schema changes. All of
// these are safe to run repeatedly.
func RunMigrations(db *gorm.DB) error {
	if err := normalizeCategoryValues(db); err != nil {
		return err
	}
	if err := normalizeConditionValues(db); err != nil {
		return err
	}
	return nil
}

// normalizeCategoryValues maps legacy free-text categories onto the closed
// enumeration. Stored values that already match a known category are kept
// exactly; anything unknown or empty becomes 'other'.
func normalizeCategoryValues(db *gorm.DB) error {
	if !db.Migrator().HasTable("items") {
		return nil
	}

	result := db.Exec(`UPDATE items SET category = 'other' WHERE category IS NULL OR category = ''`)
	if result.Error != nil {
		return result.Error
	}

	known := models.AllCategories()
	values := make([]string, 0, len(known))
	for _, c := range known {
		values = append(values, string(c.Value))
	}

	result = db.Exec(`UPDATE items SET category = 'other' WHERE category NOT IN ?`, values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Normalized %d items with unknown category values", result.RowsAffected)
	}

	return nil
}

// normalizeConditionValues backfills the default condition on legacy rows.
func normalizeConditionValues(db *gorm.DB) error {
	if !db.Migrator().HasTable("items") {
		return nil
	}

	result := db.Exec(`UPDATE items SET condition = 'good' WHERE condition IS NULL OR condition = ''`)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Backfilled condition on %d items", result.RowsAffected)
	}

	return nil
}
