package shapefile

import (
	"regexp"
	"strings"
)

// DefaultProjection is assumed when an upload carries no PRJ component.
const DefaultProjection = "EPSG:4326"

// ProjectionUnknown is returned when nothing in the WKT can be resolved.
const ProjectionUnknown = "Unknown"

var (
	epsgAuthorityRe = regexp.MustCompile(`AUTHORITY\[\s*"EPSG"\s*,\s*"(\d+)"\s*\]`)
	wktNameRe       = regexp.MustCompile(`(?:GEOGCS|PROJCS)\[\s*"([^"]+)"`)
)

// ResolveProjection maps PRJ text (WKT) to a CRS identifier. Resolution order:
// an explicit EPSG authority clause, well-known CRS name substrings, the quoted
// GEOGCS/PROJCS name as a readable fallback, then "Unknown". Empty or missing
// PRJ text resolves to the WGS84 default.
func ResolveProjection(wkt []byte) string {
	text := strings.TrimSpace(string(wkt))
	if text == "" {
		return DefaultProjection
	}

	// Projected WKT nests an authority clause per component; the file-level
	// one closes the outermost bracket, so it appears last.
	if ms := epsgAuthorityRe.FindAllStringSubmatch(text, -1); len(ms) > 0 {
		return "EPSG:" + ms[len(ms)-1][1]
	}

	// Mercator names embed WGS 84 strings, so check them first.
	upper := strings.ToUpper(text)
	switch {
	case strings.Contains(upper, "WEB_MERCATOR"),
		strings.Contains(upper, "WEB MERCATOR"),
		strings.Contains(upper, "PSEUDO-MERCATOR"):
		return "EPSG:3857"
	case strings.Contains(upper, "GCS_WGS_1984"),
		strings.Contains(upper, "WGS84"),
		strings.Contains(upper, "WGS 84"):
		return "EPSG:4326"
	}

	if m := wktNameRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}

	return ProjectionUnknown
}
