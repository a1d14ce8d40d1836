package gridengine

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"gopkg.in/yaml.v3"
)

// GeoPoint is a geographic coordinate in degrees.
type GeoPoint struct {
	Lon float64 `yaml:"lon" json:"lon"`
	Lat float64 `yaml:"lat" json:"lat"`
}

// GeoRect is a geographic rectangle in degrees.
type GeoRect struct {
	MinLon float64 `yaml:"min_lon" json:"min_lon"`
	MinLat float64 `yaml:"min_lat" json:"min_lat"`
	MaxLon float64 `yaml:"max_lon" json:"max_lon"`
	MaxLat float64 `yaml:"max_lat" json:"max_lat"`
}

// Scenario is the YAML description of one rasterization request: where to
// plan, at what resolution, which zones and cost types apply, and the
// start/goal endpoints.
type Scenario struct {
	Bounds              GeoRect        `yaml:"bounds"`
	CellSizeM           float64        `yaml:"cell_size_m"`
	NoFlyBufferM        *float64       `yaml:"no_fly_buffer_m,omitempty"`
	ZoneDir             string         `yaml:"zone_dir,omitempty"`
	CostTypes           []CostZoneType `yaml:"cost_types,omitempty"`
	AvoidHighMultiplier bool           `yaml:"avoid_high_multiplier,omitempty"`
	RolloffDistanceM    float64        `yaml:"rolloff_distance_m,omitempty"`
	Start               GeoPoint       `yaml:"start"`
	Goal                GeoPoint       `yaml:"goal"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the scenario invariants before any projection happens.
func (s *Scenario) Validate() error {
	if !(s.CellSizeM > 0) {
		return fmt.Errorf("cell_size_m must be positive, got %v", s.CellSizeM)
	}
	if s.Bounds.MinLon >= s.Bounds.MaxLon || s.Bounds.MinLat >= s.Bounds.MaxLat {
		return fmt.Errorf("bounds must satisfy min < max, got %+v", s.Bounds)
	}
	if s.RolloffDistanceM < 0 {
		return fmt.Errorf("rolloff_distance_m must not be negative, got %v", s.RolloffDistanceM)
	}
	for _, t := range s.CostTypes {
		if !(t.Multiplier > 0) {
			return fmt.Errorf("cost type %q multiplier must be positive, got %v", t.ID, t.Multiplier)
		}
	}
	return nil
}

// NoFlyBuffer returns the configured buffer margin or the 10 m default.
func (s *Scenario) NoFlyBuffer() float64 {
	if s.NoFlyBufferM != nil {
		return *s.NoFlyBufferM
	}
	return DefaultNoFlyBufferM
}

// PlanarBounds projects the geographic rectangle to planar meters.
func (s *Scenario) PlanarBounds() orb.Bound {
	return ForwardBound(orb.Bound{
		Min: orb.Point{s.Bounds.MinLon, s.Bounds.MinLat},
		Max: orb.Point{s.Bounds.MaxLon, s.Bounds.MaxLat},
	})
}

// CostTypeTable indexes the cost types by id for the rasterizer.
func (s *Scenario) CostTypeTable() map[string]CostZoneType {
	table := make(map[string]CostZoneType, len(s.CostTypes))
	for _, t := range s.CostTypes {
		table[t.ID] = t
	}
	return table
}
