package gridengine

import (
	"fmt"
	"sort"
	"time"
)

// AlgorithmSpec is the metadata a registered algorithm exposes to callers.
type AlgorithmSpec struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Algorithm is the plugin contract. Implementations must be pure functions
// of (problem, options): no retained state between runs, arrays treated as
// read-only. The engine guarantees the problem shapes and invariants; it
// never prescribes the search strategy.
type Algorithm interface {
	Spec() AlgorithmSpec
	Run(problem *GridProblem, options RunOptions) (AlgorithmResult, error)
}

// funcAlgorithm adapts a bare function into an Algorithm.
type funcAlgorithm struct {
	spec AlgorithmSpec
	run  func(*GridProblem, RunOptions) (AlgorithmResult, error)
}

func (f *funcAlgorithm) Spec() AlgorithmSpec { return f.spec }

func (f *funcAlgorithm) Run(p *GridProblem, o RunOptions) (AlgorithmResult, error) {
	return f.run(p, o)
}

// NewAlgorithm wraps a run function with its spec, the shape most plugins
// take.
func NewAlgorithm(spec AlgorithmSpec, run func(*GridProblem, RunOptions) (AlgorithmResult, error)) Algorithm {
	return &funcAlgorithm{spec: spec, run: run}
}

// Registry is a start-time registration table of algorithms keyed by id.
// Populate it during setup; it is safe for concurrent readers afterwards.
type Registry struct {
	byID map[string]Algorithm
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Algorithm)}
}

// Register adds an algorithm. Ids must be unique and non-empty.
func (r *Registry) Register(a Algorithm) error {
	id := a.Spec().ID
	if id == "" {
		return fmt.Errorf("algorithm id must not be empty")
	}
	if _, dup := r.byID[id]; dup {
		return fmt.Errorf("duplicate algorithm id: %s", id)
	}
	r.byID[id] = a
	return nil
}

// Get looks up an algorithm by id.
func (r *Registry) Get(id string) (Algorithm, bool) {
	a, ok := r.byID[id]
	return a, ok
}

// List returns the registered specs sorted by id.
func (r *Registry) List() []AlgorithmSpec {
	out := make([]AlgorithmSpec, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a.Spec())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Execute validates the problem, dispatches to the algorithm with the given
// id, and measures the run. A panicking plugin is captured as
// ErrAlgorithmFault; its partial result is discarded because the contract
// says a result from an abnormal return must not be trusted. Visited is
// cleared unless requested and trimmed to MaxVisited otherwise.
func (r *Registry) Execute(id string, problem *GridProblem, options RunOptions) (RunResult, error) {
	algo, ok := r.byID[id]
	if !ok {
		return RunResult{}, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, id)
	}
	if err := problem.Validate(); err != nil {
		return RunResult{}, err
	}

	start := time.Now()
	result, err := runGuarded(algo, problem, options)
	runtimeMS := float64(time.Since(start)) / float64(time.Millisecond)
	if err != nil {
		return RunResult{}, err
	}

	visited := result.Visited
	if !options.ReturnVisited {
		visited = nil
	} else if options.MaxVisited >= 0 && len(visited) > options.MaxVisited {
		visited = visited[:options.MaxVisited]
	}

	return RunResult{
		Path:      result.Path,
		Visited:   visited,
		Expanded:  result.Expanded,
		Cost:      result.Cost,
		RuntimeMS: runtimeMS,
	}, nil
}

func runGuarded(algo Algorithm, problem *GridProblem, options RunOptions) (result AlgorithmResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = AlgorithmResult{}
			err = fmt.Errorf("%w: %s panicked: %v", ErrAlgorithmFault, algo.Spec().ID, rec)
		}
	}()
	result, err = algo.Run(problem, options)
	if err != nil {
		err = fmt.Errorf("%w: %s: %v", ErrAlgorithmFault, algo.Spec().ID, err)
	}
	return result, err
}
