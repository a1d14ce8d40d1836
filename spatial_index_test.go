package gridengine

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planarRectZone(id string, minX, minY, maxX, maxY float64) *Zone {
	return NewNoFlyZone(id, id, orb.MultiPolygon{{square(minX, minY, maxX, maxY)}}, 0)
}

func zoneIDs(zones []*Zone) []string {
	ids := make([]string, 0, len(zones))
	for _, z := range zones {
		ids = append(ids, z.ID)
	}
	return ids
}

func TestSpatialIndexQueryRegion(t *testing.T) {
	zones := []*Zone{
		planarRectZone("a", 0, 0, 10, 10),
		planarRectZone("b", 50, 50, 60, 60),
		planarRectZone("c", 200, 200, 210, 210),
	}
	idx := NewSpatialIndex(zones)
	require.Equal(t, 3, idx.Len())

	hits := idx.QueryRegion(0, 0, 100, 100)
	assert.ElementsMatch(t, []string{"a", "b"}, zoneIDs(hits))

	hits = idx.QueryRegion(500, 500, 600, 600)
	assert.Empty(t, hits)
}

func TestSpatialIndexSkipsEmptyGeometry(t *testing.T) {
	zones := []*Zone{
		planarRectZone("a", 0, 0, 10, 10),
		NewNoFlyZone("empty", "empty", orb.MultiPolygon{}, 0),
	}
	idx := NewSpatialIndex(zones)
	assert.Equal(t, 1, idx.Len())
}

func TestSpatialIndexDegenerateExtent(t *testing.T) {
	// A zone collapsed to a vertical line still gets indexed (rtreego
	// rejects zero extents, so the index pads them).
	line := NewNoFlyZone("line", "line", orb.MultiPolygon{{orb.Ring{{5, 0}, {5, 10}, {5, 20}}}}, 0)
	idx := NewSpatialIndex([]*Zone{line})
	require.Equal(t, 1, idx.Len())

	hits := idx.QueryRegion(0, 0, 10, 30)
	assert.Len(t, hits, 1)
}
