// internal/domain/sentiment/regions.go

package sentiment

// regionCatalog maps ISO alpha-2 codes to display names and alpha-3 codes
// for the markets the analyzer knows how to sample. The alpha-3 code is
// what downstream choropleth tooling keys on.
var regionCatalog = map[string]Region{
	"US": {Code: "US", Name: "United States", Alpha3: "USA"},
	"GB": {Code: "GB", Name: "United Kingdom", Alpha3: "GBR"},
	"CA": {Code: "CA", Name: "Canada", Alpha3: "CAN"},
	"AU": {Code: "AU", Name: "Australia", Alpha3: "AUS"},
	"IN": {Code: "IN", Name: "India", Alpha3: "IND"},
	"DE": {Code: "DE", Name: "Germany", Alpha3: "DEU"},
	"FR": {Code: "FR", Name: "France", Alpha3: "FRA"},
	"JP": {Code: "JP", Name: "Japan", Alpha3: "JPN"},
	"BR": {Code: "BR", Name: "Brazil", Alpha3: "BRA"},
	"ZA": {Code: "ZA", Name: "South Africa", Alpha3: "ZAF"},
}

// defaultRegionCodes is the curated sweep order used when the caller
// does not narrow the region list.
var defaultRegionCodes = []string{"US", "GB", "CA", "AU", "IN", "DE", "FR", "JP", "BR", "ZA"}

// DefaultRegions returns the full curated region list in sweep order
func DefaultRegions() []Region {
	return RegionsFor(defaultRegionCodes)
}

// RegionsFor resolves alpha-2 codes against the catalog, skipping
// codes the analyzer does not know about.
func RegionsFor(codes []string) []Region {
	regions := make([]Region, 0, len(codes))
	for _, code := range codes {
		if r, ok := regionCatalog[code]; ok {
			regions = append(regions, r)
		}
	}
	return regions
}

// RegionByCode resolves a single alpha-2 code
func RegionByCode(code string) (Region, bool) {
	r, ok := regionCatalog[code]
	return r, ok
}
