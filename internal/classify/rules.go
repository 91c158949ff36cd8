// Package classify assigns a sector and intensity tier to land-use features
// by keyword matching, and maps the result to a display color.
package classify

// Sector is the classification output: industrial or service.
type Sector string

// Sector labels.
const (
	SectorIndustrial Sector = "industrial"
	SectorService    Sector = "service"
	SectorNone       Sector = ""
)

// tier pairs an intensity level with its keyword list. Tiers are held as an
// ordered slice, not a map: evaluation order is highest severity first and
// must not depend on map iteration.
type tier struct {
	level    int
	keywords []string
}

// Rule tables, scanned in slice order (4 down to 1). The first tier with any
// substring match wins; lower tiers are unreachable once a higher one matched.
var (
	industrialTiers = []tier{
		{4, []string{"refinery", "heavy", "smelter", "processing", "plant", "steel"}},
		{3, []string{"logistics", "distribution", "warehouse", "utility", "substation"}},
		{2, []string{"industrial", "light", "workshop", "manufactur", "depot"}},
		{1, []string{"storage", "craft"}},
	}

	serviceTiers = []tier{
		{4, []string{"corporate hq", "headquarters", "campus"}},
		{3, []string{"it", "data center", "telecom", "tech park", "technology park"}},
		{2, []string{"office", "shop", "school", "college", "university"}},
		{1, []string{"service", "clinic", "health", "hairdresser", "cafe", "restaurant"}},
	}
)
