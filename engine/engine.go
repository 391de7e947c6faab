package engine

import (
	"context"

	"treesearch/experiments/metrics"
	"treesearch/searcher"
)

const MaxMoves = 10000

type Runner interface {
	// Run plays from the initial state until a terminal state or MaxMoves
	Run() (gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric)
	// Start plays in the background and streams every chosen state
	Start(ctx context.Context) (updates <-chan Update, wait func() error)
}

// Update is one step of a game: the state chosen by the agent whose turn it was.
type Update struct {
	State  searcher.State
	Metric metrics.MoveMetric
}

// Orienter is implemented by states that score from the point of view of the
// player about to search.
type Orienter interface {
	Orient() searcher.State
}
