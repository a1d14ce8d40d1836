package gridengine

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// zoneEntry wraps a zone for R-tree storage.
type zoneEntry struct {
	zone *Zone
	bbox rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *zoneEntry) Bounds() rtreego.Rect {
	return e.bbox
}

// SpatialIndex answers "which zones can touch this rectangle" queries so the
// rasterizer never scans zones that lie outside the planning bounds.
type SpatialIndex struct {
	tree *rtreego.Rtree
	size int
}

// NewSpatialIndex indexes zones by the bounding box of their raster geometry.
// Zones with empty geometry are skipped.
func NewSpatialIndex(zones []*Zone) *SpatialIndex {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node
	idx := &SpatialIndex{tree: tree}

	for _, zone := range zones {
		b := zone.Bound()
		if len(zone.RasterGeometry()) == 0 || b.IsEmpty() {
			continue
		}
		rect, err := boundToRect(b)
		if err != nil {
			continue
		}
		tree.Insert(&zoneEntry{zone: zone, bbox: rect})
		idx.size++
	}
	return idx
}

// Len returns the number of indexed zones.
func (si *SpatialIndex) Len() int {
	return si.size
}

// QueryRegion returns the zones whose bounding boxes intersect the given
// rectangle.
func (si *SpatialIndex) QueryRegion(minX, minY, maxX, maxY float64) []*Zone {
	rect, err := boundToRect(orb.Bound{
		Min: orb.Point{minX, minY},
		Max: orb.Point{maxX, maxY},
	})
	if err != nil {
		return nil
	}

	results := si.tree.SearchIntersect(rect)
	zones := make([]*Zone, 0, len(results))
	for _, item := range results {
		zones = append(zones, item.(*zoneEntry).zone)
	}
	return zones
}

// boundToRect converts an orb bound to an rtreego rectangle. rtreego rejects
// zero extents, so degenerate spans are padded by a millimeter instead of
// dropping the zone.
func boundToRect(b orb.Bound) (rtreego.Rect, error) {
	const minSpan = 1e-3
	spanX := b.Max.X() - b.Min.X()
	spanY := b.Max.Y() - b.Min.Y()
	if spanX < minSpan {
		spanX = minSpan
	}
	if spanY < minSpan {
		spanY = minSpan
	}
	return rtreego.NewRect(
		rtreego.Point{b.Min.X(), b.Min.Y()},
		[]float64{spanX, spanY},
	)
}
