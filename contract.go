package gridengine

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// The frozen shapes crossing the boundary to pluggable algorithms. These are
// value objects: the arrays they carry are shared with the environment that
// produced them and must be treated as read-only by every consumer.

// BoundsMeters is the planning rectangle in planar Web Mercator meters.
type BoundsMeters struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// GridProblem is a single-source single-target grid routing problem.
//
// Cell ids are row-major (id = row*width + col), the grid is 8-connected,
// and the default edge cost is step_distance_m * cost_multiplier[to_cell].
// Callers must ensure start and goal are in range and unblocked before
// handing the problem to an algorithm; Validate checks exactly that.
type GridProblem struct {
	Width          int
	Height         int
	CellSizeM      float64
	Bounds         BoundsMeters
	Start          int
	Goal           int
	Blocked        []bool
	CostMultiplier []float64
}

// gridProblemWire is the JSON shape exchanged with an out-of-process
// algorithm runner: blocked travels as 0/1 integers.
type gridProblemWire struct {
	Width          int          `json:"width"`
	Height         int          `json:"height"`
	CellSizeM      float64      `json:"cell_size_m"`
	Bounds         BoundsMeters `json:"bounds"`
	Start          int          `json:"start"`
	Goal           int          `json:"goal"`
	Blocked        []int        `json:"blocked"`
	CostMultiplier []float64    `json:"cost_multiplier"`
}

// MarshalJSON encodes blocked cells as 0/1 integers.
func (p GridProblem) MarshalJSON() ([]byte, error) {
	w := gridProblemWire{
		Width:          p.Width,
		Height:         p.Height,
		CellSizeM:      p.CellSizeM,
		Bounds:         p.Bounds,
		Start:          p.Start,
		Goal:           p.Goal,
		Blocked:        make([]int, len(p.Blocked)),
		CostMultiplier: p.CostMultiplier,
	}
	for i, b := range p.Blocked {
		if b {
			w.Blocked[i] = 1
		}
	}
	return json.Marshal(w)
}

// UnmarshalJSON accepts the wire shape; any non-zero blocked entry counts.
func (p *GridProblem) UnmarshalJSON(data []byte) error {
	var w gridProblemWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	p.Width = w.Width
	p.Height = w.Height
	p.CellSizeM = w.CellSizeM
	p.Bounds = w.Bounds
	p.Start = w.Start
	p.Goal = w.Goal
	p.CostMultiplier = w.CostMultiplier
	p.Blocked = make([]bool, len(w.Blocked))
	for i, v := range w.Blocked {
		p.Blocked[i] = v != 0
	}
	return nil
}

// Size returns Width*Height.
func (p *GridProblem) Size() int {
	return p.Width * p.Height
}

// Environment reopens the problem as a queryable grid view. The arrays are
// shared, so this is cheap; algorithm authors get Neighbors8, StepCost and
// the coordinate conversions without any bookkeeping of their own.
func (p *GridProblem) Environment() *GridEnvironment {
	return &GridEnvironment{
		Width:          p.Width,
		Height:         p.Height,
		CellSizeM:      p.CellSizeM,
		Bounds:         orb.Bound{Min: orb.Point{p.Bounds.MinX, p.Bounds.MinY}, Max: orb.Point{p.Bounds.MaxX, p.Bounds.MaxY}},
		Blocked:        p.Blocked,
		CostMultiplier: p.CostMultiplier,
	}
}

// Validate checks the preconditions an algorithm may rely on: array lengths
// matching the grid size, start/goal in range, and both endpoints unblocked.
func (p *GridProblem) Validate() error {
	n := p.Size()
	if n <= 0 {
		return fmt.Errorf("%w: width %d, height %d", ErrMalformedProblem, p.Width, p.Height)
	}
	if len(p.Blocked) != n {
		return fmt.Errorf("%w: blocked length %d != %d", ErrMalformedProblem, len(p.Blocked), n)
	}
	if len(p.CostMultiplier) != n {
		return fmt.Errorf("%w: cost_multiplier length %d != %d", ErrMalformedProblem, len(p.CostMultiplier), n)
	}
	if p.Start < 0 || p.Start >= n || p.Goal < 0 || p.Goal >= n {
		return fmt.Errorf("%w: start %d / goal %d not in [0,%d)", ErrOutOfBounds, p.Start, p.Goal, n)
	}
	if p.Blocked[p.Start] {
		return fmt.Errorf("%w: start %d", ErrBlockedEndpoint, p.Start)
	}
	if p.Blocked[p.Goal] {
		return fmt.Errorf("%w: goal %d", ErrBlockedEndpoint, p.Goal)
	}
	return nil
}

// HeuristicEuclideanM is the admissible straight-line heuristic to the goal,
// in meters. A finite, positive minMultiplier scales the estimate so the
// heuristic stays admissible when the grid contains multipliers below 1;
// pass 0 for the unscaled distance.
func (p *GridProblem) HeuristicEuclideanM(cellID int, minMultiplier float64) float64 {
	env := p.Environment()
	colA, rowA := env.ColRow(cellID)
	colB, rowB := env.ColRow(p.Goal)
	base := p.CellSizeM * math.Hypot(float64(colB-colA), float64(rowB-rowA))
	if !(minMultiplier > 0) || math.IsInf(minMultiplier, 0) || math.IsNaN(minMultiplier) {
		return base
	}
	return base * minMultiplier
}

// RunOptions tunes a single algorithm run. The wind fields are read only by
// wind-aware algorithms; the engine itself never consumes them.
type RunOptions struct {
	ReturnVisited    bool    `json:"return_visited"`
	MaxVisited       int     `json:"max_visited"`
	WindEnabled      bool    `json:"wind_enabled"`
	WindDirectionDeg float64 `json:"wind_direction_deg"`
	WindSpeedMS      float64 `json:"wind_speed_ms"`
	DroneAirspeedMS  float64 `json:"drone_airspeed_ms"`
}

// DefaultRunOptions mirrors the runner's defaults.
func DefaultRunOptions() RunOptions {
	return RunOptions{
		MaxVisited:      50000,
		DroneAirspeedMS: 10.0,
	}
}

// AlgorithmResult is what an algorithm hands back. Path is empty and Cost is
// +Inf exactly when no route exists; a non-empty path runs from start to goal
// inclusive. Visited stays empty unless the caller asked for it.
type AlgorithmResult struct {
	Path     []int
	Visited  []int
	Expanded int
	Cost     float64
}

// RunResult is the wire response shape: the algorithm result plus measured
// runtime. An infinite cost travels as JSON null, since JSON has no Infinity
// literal.
type RunResult struct {
	Path      []int   `json:"path"`
	Visited   []int   `json:"visited"`
	Expanded  int     `json:"expanded"`
	Cost      float64 `json:"cost"`
	RuntimeMS float64 `json:"runtime_ms"`
}

type runResultWire struct {
	Path      []int    `json:"path"`
	Visited   []int    `json:"visited"`
	Expanded  int      `json:"expanded"`
	Cost      *float64 `json:"cost"`
	RuntimeMS float64  `json:"runtime_ms"`
}

func (r RunResult) MarshalJSON() ([]byte, error) {
	w := runResultWire{
		Path:      emptyIfNil(r.Path),
		Visited:   emptyIfNil(r.Visited),
		Expanded:  r.Expanded,
		RuntimeMS: r.RuntimeMS,
	}
	if !math.IsInf(r.Cost, 0) && !math.IsNaN(r.Cost) {
		cost := r.Cost
		w.Cost = &cost
	}
	return json.Marshal(w)
}

func (r *RunResult) UnmarshalJSON(data []byte) error {
	var w runResultWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r.Path = w.Path
	r.Visited = w.Visited
	r.Expanded = w.Expanded
	r.RuntimeMS = w.RuntimeMS
	if w.Cost != nil {
		r.Cost = *w.Cost
	} else {
		r.Cost = math.Inf(1)
	}
	return nil
}

func emptyIfNil(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}

// ReconstructPath walks a predecessor array back from goal to start. Entries
// are cell ids, -1 meaning "not reached". Returns nil when the goal was never
// reached or the indices are out of range.
func ReconstructPath(cameFrom []int, start, goal int) []int {
	if goal < 0 || goal >= len(cameFrom) {
		return nil
	}
	if cameFrom[goal] == -1 && goal != start {
		return nil
	}
	var out []int
	cur := goal
	for {
		out = append(out, cur)
		if cur == start {
			break
		}
		cur = cameFrom[cur]
		if cur == -1 {
			return nil
		}
	}
	// reverse in place
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// PathCost totals a path under the default cost model: each step is priced
// by the destination cell. A single-cell path costs 0; an empty path costs
// +Inf (no route).
func PathCost(p *GridProblem, path []int) float64 {
	if len(path) == 0 {
		return math.Inf(1)
	}
	if len(path) == 1 {
		return 0
	}
	env := p.Environment()
	total := 0.0
	for i := 1; i < len(path); i++ {
		ac, ar := env.ColRow(path[i-1])
		bc, br := env.ColRow(path[i])
		stepDist := p.CellSizeM * math.Hypot(float64(bc-ac), float64(br-ar))
		total += env.StepCost(path[i], stepDist)
	}
	return total
}
