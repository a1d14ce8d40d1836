package gridengine

import "errors"

// Error taxonomy for the engine and the algorithm dispatch boundary.
//
// Geometry and rasterization functions are total and never return these;
// they degrade to "outside" / infinite distance on degenerate input. The
// errors below only appear at the caller-facing seams: grid sizing guards,
// start/goal resolution, and algorithm dispatch.
var (
	// ErrInputTooLarge means the requested grid would exceed MaxGridCells.
	// Callers check this before rasterizing; Rasterize itself never does.
	ErrInputTooLarge = errors.New("requested grid exceeds the cell cap")

	// ErrOutOfBounds means a world coordinate or cell id maps to no cell.
	ErrOutOfBounds = errors.New("coordinate outside the planning grid")

	// ErrBlockedEndpoint means start or goal resolves to a blocked cell.
	ErrBlockedEndpoint = errors.New("endpoint cell is blocked")

	// ErrUnknownAlgorithm means no registered algorithm has the given id.
	ErrUnknownAlgorithm = errors.New("unknown algorithm id")

	// ErrMalformedProblem means a GridProblem's arrays do not match its
	// declared width*height.
	ErrMalformedProblem = errors.New("problem arrays do not match grid size")

	// ErrAlgorithmFault means an algorithm plugin panicked or returned an
	// error; its result fields must not be trusted.
	ErrAlgorithmFault = errors.New("algorithm fault")
)
