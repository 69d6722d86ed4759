package models

// Category is the closed set of item groupings used by analytics. The
// machine values are stable; labels are display-only.
type Category string

const (
	CategoryFurniture    Category = "furniture"
	CategoryArt          Category = "art"
	CategoryVases        Category = "vases"
	CategoryFigurines    Category = "figurines"
	CategoryKnickKnacks  Category = "knick_knacks"
	CategoryJewelry      Category = "jewelry"
	CategoryPottery      Category = "pottery"
	CategoryGlassware    Category = "glassware"
	CategoryTextiles     Category = "textiles"
	CategoryBooks        Category = "books"
	CategoryCollectibles Category = "collectibles"
	CategoryVintageDecor Category = "vintage_decor"
	CategoryKitchenware  Category = "kitchenware"
	CategoryLighting     Category = "lighting"
	CategoryMirrors      Category = "mirrors"
	CategoryClocks       Category = "clocks"
	CategoryOther        Category = "other"
)

// CategoryInfo pairs a machine value with its display label.
type CategoryInfo struct {
	Value Category `json:"value"`
	Label string   `json:"label"`
}

var categoryLabels = []CategoryInfo{
	{CategoryFurniture, "Furniture"},
	{CategoryArt, "Art & Paintings"},
	{CategoryVases, "Vases"},
	{CategoryFigurines, "Figurines"},
	{CategoryKnickKnacks, "Knick Knacks"},
	{CategoryJewelry, "Jewelry"},
	{CategoryPottery, "Pottery & Ceramics"},
	{CategoryGlassware, "Glassware"},
	{CategoryTextiles, "Textiles & Linens"},
	{CategoryBooks, "Books"},
	{CategoryCollectibles, "Collectibles"},
	{CategoryVintageDecor, "Vintage Decor"},
	{CategoryKitchenware, "Kitchenware"},
	{CategoryLighting, "Lighting & Lamps"},
	{CategoryMirrors, "Mirrors"},
	{CategoryClocks, "Clocks"},
	{CategoryOther, "Other"},
}

// AllCategories returns every category with its label, in display order.
func AllCategories() []CategoryInfo {
	out := make([]CategoryInfo, len(categoryLabels))
	copy(out, categoryLabels)
	return out
}

// Valid reports whether c is one of the known category values.
func (c Category) Valid() bool {
	for _, info := range categoryLabels {
		if info.Value == c {
			return true
		}
	}
	return false
}
