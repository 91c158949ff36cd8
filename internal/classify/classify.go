package classify

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/helioavila/landuse-intensity/internal/feature"
)

// Classification is the sector/intensity pair assigned to a feature.
// The zero value means unclassified.
type Classification struct {
	Sector    Sector
	Intensity int
}

// Classified reports whether a sector was assigned.
func (c Classification) Classified() bool { return c.Sector != SectorNone }

// textFrom concatenates every non-absent attribute value of a feature into a
// single lowercase string, in attribute-iteration order, with list values
// expanded element by element. Geometry is not an attribute and never
// contributes. The result is the only input to keyword matching.
func textFrom(f *feature.Feature) string {
	var parts []string
	for _, key := range f.Keys() {
		parts = append(parts, f.Get(key).Strings()...)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// matchTiers scans a rule table in declared order and returns the first tier
// level with any keyword substring match, or 0 when none match.
func matchTiers(tiers []tier, text string) int {
	for _, t := range tiers {
		for _, kw := range t.keywords {
			if strings.Contains(text, kw) {
				return t.level
			}
		}
	}
	return 0
}

// Classify assigns a sector and intensity to one feature. The industrial
// table is evaluated strictly before the service table so that heavy-industry
// text is never claimed by a weaker service keyword. When neither table
// matches, the landuse tag alone decides: exactly "industrial" or
// "commercial" maps to tier 2 of the respective sector.
func Classify(f *feature.Feature) Classification {
	text := textFrom(f)

	if level := matchTiers(industrialTiers, text); level > 0 {
		return Classification{Sector: SectorIndustrial, Intensity: level}
	}
	if level := matchTiers(serviceTiers, text); level > 0 {
		return Classification{Sector: SectorService, Intensity: level}
	}

	if lu, ok := f.Get("landuse").Scalar(); ok {
		switch strings.ToLower(lu) {
		case "industrial":
			return Classification{Sector: SectorIndustrial, Intensity: 2}
		case "commercial":
			return Classification{Sector: SectorService, Intensity: 2}
		}
	}

	return Classification{}
}

// Enrich classifies every feature in place, storing sector, intensity and
// fill as attributes. An empty collection is returned untouched.
func Enrich(c *feature.Collection) {
	if c.Empty() {
		return
	}

	counts := make(map[Sector]int)
	for _, f := range c.Features {
		cls := Classify(f)
		if cls.Classified() {
			f.Set("sector", feature.String(string(cls.Sector)))
			f.Set("intensity", feature.String(strconv.Itoa(cls.Intensity)))
		} else {
			f.Set("sector", feature.Absent())
			f.Set("intensity", feature.Absent())
		}
		f.Set("fill", feature.String(ColorFor(cls)))
		counts[cls.Sector]++
	}

	zap.L().Info("classified features",
		zap.Int("total", c.Len()),
		zap.Int("industrial", counts[SectorIndustrial]),
		zap.Int("service", counts[SectorService]),
		zap.Int("unclassified", counts[SectorNone]),
	)
}
