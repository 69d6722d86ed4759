package services

import (
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/hardysdecor/antique-tracker/internal/models"
)

// onlineMarketplaces are sourcing venues that are not physical stores.
var onlineMarketplaces = []models.Store{
	{Name: "Facebook Marketplace", City: "Online"},
	{Name: "eBay", City: "Online"},
	{Name: "Craigslist", City: "Online"},
	{Name: "OfferUp", City: "Online"},
	{Name: "Mercari", City: "Online"},
	{Name: "Etsy", City: "Online"},
	{Name: "Poshmark", City: "Online"},
	{Name: "Nextdoor", City: "Online"},
	{Name: "Estate Sale", City: "Various"},
	{Name: "Garage Sale", City: "Various"},
	{Name: "Auction", City: "Various"},
	{Name: "Flea Market", City: "Various"},
	{Name: "Antique Mall", City: "Various"},
}

// brevardStores are the thrift and resale stores around Brevard County, FL.
var brevardStores = []models.Store{
	{Name: "Goodwill - Melbourne", Address: "1455 N Harbor City Blvd", City: "Melbourne"},
	{Name: "Goodwill - Palm Bay", Address: "1140 Malabar Rd SE", City: "Palm Bay"},
	{Name: "Goodwill - Titusville", Address: "2835 Garden St", City: "Titusville"},
	{Name: "Goodwill - Merritt Island", Address: "295 E Merritt Island Cswy", City: "Merritt Island"},
	{Name: "Goodwill - Rockledge", Address: "3830 Murrell Rd", City: "Rockledge"},
	{Name: "Goodwill - Cocoa", Address: "900 Dixon Blvd", City: "Cocoa"},
	{Name: "Salvation Army - Melbourne", Address: "4135 W New Haven Ave", City: "Melbourne"},
	{Name: "Salvation Army - Cocoa", Address: "1275 Dixon Blvd", City: "Cocoa"},
	{Name: "Salvation Army - Titusville", Address: "4245 S Hopkins Ave", City: "Titusville"},
	{Name: "SPCA of Brevard Thrift Store - Titusville", Address: "4220 S Washington Ave", City: "Titusville"},
	{Name: "SPCA of Brevard Thrift Store - Melbourne", Address: "510 E Hibiscus Blvd", City: "Melbourne"},
	{Name: "Community Thrift", Address: "2425 N Courtenay Pkwy", City: "Merritt Island"},
	{Name: "Molly Mutt III Thrift Shop", Address: "5575 N Atlantic Ave", City: "Cocoa Beach"},
	{Name: "Daily Thrift", Address: "3369 Suntree Blvd", City: "Melbourne"},
	{Name: "Village Thrift", Address: "2275 Palm Bay Rd NE", City: "Palm Bay"},
	{Name: "Patriots & Paws Thrift Store", Address: "1275 N Courtenay Pkwy", City: "Merritt Island"},
	{Name: "Brevard Humane Society Thrift", Address: "750 W New Haven Ave", City: "Melbourne"},
	{Name: "The Shabby Loft", Address: "1500 S Wickham Rd", City: "West Melbourne"},
	{Name: "The Astronaut's Wife", Address: "208 Brevard Ave", City: "Cocoa Village"},
	{Name: "Drifthouse", Address: "211 Brevard Ave", City: "Cocoa Village"},
	{Name: "North Brevard Sharing Center", Address: "4475 S Hopkins Ave", City: "Titusville"},
	{Name: "Women's Center Upscale Resale", Address: "750 Cone Rd", City: "Merritt Island"},
	{Name: "Shop of the Gulls", Address: "155 S Atlantic Ave", City: "Cocoa Beach"},
	{Name: "Beachside Retro & Records", Address: "318 S Atlantic Ave", City: "Cocoa Beach"},
	{Name: "Home to Home Consignment", Address: "665 N Courtenay Pkwy", City: "Merritt Island"},
	{Name: "A+ Thrift Shop", Address: "1755 E Merritt Island Cswy", City: "Merritt Island"},
	{Name: "Second Time Around", Address: "903 Cheney Hwy", City: "Titusville"},
	{Name: "Habitat ReStore - Melbourne", Address: "4600 Lipscomb St NE", City: "Palm Bay"},
	{Name: "Habitat ReStore - Rockledge", Address: "1751 Dixon Blvd", City: "Rockledge"},
	{Name: "Angels Attic Thrift", Address: "2345 N Wickham Rd", City: "Melbourne"},
	{Name: "Encore Resale", Address: "1120 N Harbor City Blvd", City: "Melbourne"},
}

// DefaultStores returns the seed catalog: online marketplaces followed by
// the Brevard County stores.
func DefaultStores() []models.Store {
	stores := make([]models.Store, 0, len(onlineMarketplaces)+len(brevardStores))
	stores = append(stores, onlineMarketplaces...)
	stores = append(stores, brevardStores...)
	return stores
}

// normalizeStoreName reduces a store name for dedup comparison.
func normalizeStoreName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// missingSeeds returns the seed stores whose names are not already present,
// compared case-insensitively after trimming.
func missingSeeds(seeds []models.Store, existing []string) []models.Store {
	seen := make(map[string]bool, len(existing))
	for _, name := range existing {
		seen[normalizeStoreName(name)] = true
	}

	var missing []models.Store
	for _, store := range seeds {
		if !seen[normalizeStoreName(store.Name)] {
			missing = append(missing, store)
		}
	}
	return missing
}

// SeedDefaultStores inserts any default stores not yet in the database and
// returns how many were added.
func SeedDefaultStores(db *gorm.DB) (int, error) {
	var existing []string
	if err := db.Model(&models.Store{}).Pluck("name", &existing).Error; err != nil {
		return 0, err
	}

	missing := missingSeeds(DefaultStores(), existing)
	if len(missing) == 0 {
		return 0, nil
	}

	if err := db.Create(&missing).Error; err != nil {
		return 0, err
	}

	log.Printf("Store seed: added %d of %d default stores", len(missing), len(DefaultStores()))
	return len(missing), nil
}
