package feature

// Allow-lists per feature kind. Order is the export column order.
var (
	// LanduseColumns covers the tag keys the classifier draws on.
	LanduseColumns = []string{
		"landuse", "name", "building", "amenity", "shop", "office",
		"industrial", "craft", "man_made", "operator", "brand",
		"description", "notes", "addr:housenumber", "addr:street",
	}

	// BuildingColumns covers building footprint exports.
	BuildingColumns = []string{
		"building", "name", "addr:housenumber", "addr:street",
		"height", "levels",
	}
)
