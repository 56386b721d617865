package shapefile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveProjection(t *testing.T) {
	tests := []struct {
		name string
		wkt  string
		want string
	}{
		{
			name: "missing prj defaults to wgs84",
			wkt:  "",
			want: "EPSG:4326",
		},
		{
			name: "authority clause wins",
			wkt:  `PROJCS["WGS 84 / Pseudo-Mercator",GEOGCS["WGS 84"],AUTHORITY["EPSG","3857"]]`,
			want: "EPSG:3857",
		},
		{
			name: "outermost authority wins over nested ones",
			wkt:  `PROJCS["WGS 84 / Pseudo-Mercator",GEOGCS["WGS 84",AUTHORITY["EPSG","4326"]],AUTHORITY["EPSG","3857"]]`,
			want: "EPSG:3857",
		},
		{
			name: "authority with whitespace",
			wkt:  `GEOGCS["GCS_WGS_1984",AUTHORITY[ "EPSG" , "4269" ]]`,
			want: "EPSG:4269",
		},
		{
			name: "gcs name match",
			wkt:  `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984"]]`,
			want: "EPSG:4326",
		},
		{
			name: "web mercator name match",
			wkt:  `PROJCS["WGS_1984_Web_Mercator_Auxiliary_Sphere",GEOGCS["GCS_WGS_1984"]]`,
			want: "EPSG:3857",
		},
		{
			name: "projcs name fallback",
			wkt:  `PROJCS["NAD_1983_UTM_Zone_17N",GEOGCS["GCS_North_American_1983"]]`,
			want: "NAD_1983_UTM_Zone_17N",
		},
		{
			name: "unresolvable text",
			wkt:  "not wkt at all",
			want: "Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveProjection([]byte(tt.wkt)))
		})
	}
}
