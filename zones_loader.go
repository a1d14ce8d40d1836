package gridengine

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GeoJSON zone ingestion. Zone files hold FeatureCollections of Polygon or
// MultiPolygon features in geographic (lon, lat) coordinates; holes are
// preserved. Recognized feature properties:
//
//	kind      "no_fly" (default) or "cost"
//	name      display name
//	cost_type id into the cost-zone-type table (cost zones)
//	id        stable zone id; a fresh uuid is assigned when absent
//
// Malformed files and unsupported geometries are skipped with a warning, not
// fatal: one bad export should not take down a whole zone set.

// LoadZonesFromDir loads every *.geojson file in a directory.
func LoadZonesFromDir(dir string, bufferM float64) ([]*Zone, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.geojson"))
	if err != nil {
		return nil, err
	}

	log.Printf("Loading zones from %d GeoJSON files...\n", len(files))

	var all []*Zone
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			log.Printf("⚠️  Failed to read %s: %v\n", file, err)
			continue
		}

		zones, err := ParseZones(data, bufferM)
		if err != nil {
			log.Printf("⚠️  Failed to parse %s: %v\n", file, err)
			continue
		}

		all = append(all, zones...)
		log.Printf("   ✅ Loaded %d zones from %s\n", len(zones), filepath.Base(file))
	}

	log.Printf("Total zones loaded: %d\n", len(all))
	return all, nil
}

// ParseZones decodes a GeoJSON FeatureCollection into planar zones. No-fly
// geometry is buffered outward by bufferM meters after projection.
func ParseZones(data []byte, bufferM float64) ([]*Zone, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode feature collection: %w", err)
	}

	zones := make([]*Zone, 0, len(fc.Features))
	for _, f := range fc.Features {
		zone, ok := featureToZone(f, bufferM)
		if !ok {
			continue
		}
		zones = append(zones, zone)
	}
	return zones, nil
}

func featureToZone(f *geojson.Feature, bufferM float64) (*Zone, bool) {
	var geo orb.MultiPolygon
	switch g := f.Geometry.(type) {
	case orb.Polygon:
		geo = orb.MultiPolygon{g}
	case orb.MultiPolygon:
		geo = g
	default:
		log.Printf("⚠️  Skipping feature with geometry type %T\n", f.Geometry)
		return nil, false
	}

	projected := ForwardMultiPolygon(geo)
	id := featureID(f)
	name := propString(f, "name")

	switch propString(f, "kind") {
	case "cost":
		return NewCostZone(id, name, projected, propString(f, "cost_type")), true
	default:
		return NewNoFlyZone(id, name, projected, bufferM), true
	}
}

func featureID(f *geojson.Feature) string {
	if s, ok := f.ID.(string); ok && s != "" {
		return s
	}
	if s := propString(f, "id"); s != "" {
		return s
	}
	return uuid.NewString()
}

func propString(f *geojson.Feature, key string) string {
	if f.Properties == nil {
		return ""
	}
	s, _ := f.Properties[key].(string)
	return s
}
