package searcher

import "github.com/pkg/errors"

// State is a position in the search space. The engine never mutates a State;
// enumeration and sampling must return new values.
type State interface {
	// Score is a heuristic value for this state. Keep values in a stable range
	// (tens, not thousands) so the exploration term stays meaningful.
	Score() float64
	// NextStates enumerates every legal successor, deterministically.
	NextStates() []State
	// SampleNextState picks one successor. Never called when HasNextStates is false.
	SampleNextState() State
	HasNextStates() bool
}

// ErrInvalidArgument is returned for a negative iteration budget.
var ErrInvalidArgument = errors.New("invalid argument")

// Strategy selects which child a node descends into.
type Strategy int

const (
	// UpperConfidence forces MinVisits visits per child and then picks the
	// child maximizing mean + C*sqrt(2*ln(N)/n).
	UpperConfidence Strategy = iota
	// GreedyMean picks the child with the best mean, locking exhausted children.
	GreedyMean
)

func (s Strategy) String() string {
	switch s {
	case UpperConfidence:
		return "ucb"
	case GreedyMean:
		return "greedy"
	default:
		return "unknown"
	}
}

// ParseStrategy maps "ucb" and "greedy" to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "ucb", "":
		return UpperConfidence, nil
	case "greedy":
		return GreedyMean, nil
	}
	return UpperConfidence, errors.Wrapf(ErrInvalidArgument, "unknown strategy %q", name)
}

// TieBreak decides between root children with equal mean score.
type TieBreak int

const (
	FirstFound TieBreak = iota
	RandomAmongTies
)
