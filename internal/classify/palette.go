package classify

// Fill palettes, light to dark. Service renders in blues, industrial in
// oranges; unclassified features share one neutral gray.
var (
	serviceBlues = map[int]string{
		1: "#E8F1FA",
		2: "#A9C8EA",
		3: "#5B8FCB",
		4: "#1F4E94",
	}

	industrialOranges = map[int]string{
		1: "#FCECDD",
		2: "#F7B87A",
		3: "#E97A1C",
		4: "#8C3D06",
	}
)

// NeutralFill is the color for features with no assigned sector.
const NeutralFill = "#DDDDDD"

// ColorFor maps a classification to its hex fill color. Pure: the same
// (sector, intensity) pair always yields the same color. An intensity
// outside the palette falls back to the sector's tier-1 color.
func ColorFor(c Classification) string {
	switch c.Sector {
	case SectorService:
		if hex, ok := serviceBlues[c.Intensity]; ok {
			return hex
		}
		return serviceBlues[1]
	case SectorIndustrial:
		if hex, ok := industrialOranges[c.Intensity]; ok {
			return hex
		}
		return industrialOranges[1]
	default:
		return NeutralFill
	}
}
