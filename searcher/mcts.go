package searcher

import (
	"time"

	"treesearch/experiments/metrics"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(mcts *MCTS)

// MCTS grows a fresh tree for every Search call. It is not safe for
// concurrent use; give each goroutine its own engine.
type MCTS struct {
	iterations  int
	cutoff      int
	strategy    Strategy
	exploration float64
	minVisits   int
	tieBreak    TieBreak
	rng         *rand.Rand
	metrics     metrics.Collector
}

func WithIterations(iterations int) Option {
	return func(m *MCTS) {
		if iterations >= 0 {
			m.iterations = iterations
		}
	}
}

// WithCutoff limits every rollout to depth sampled successors. A negative
// depth rolls out until a terminal state.
func WithCutoff(depth int) Option {
	return func(m *MCTS) {
		if depth < 0 {
			depth = ToBottom
		}
		m.cutoff = depth
	}
}

func WithStrategy(strategy Strategy) Option {
	return func(m *MCTS) {
		m.strategy = strategy
	}
}

func WithExploration(c float64) Option {
	return func(m *MCTS) {
		if c >= 0 {
			m.exploration = c
		}
	}
}

func WithMinVisits(visits int) Option {
	return func(m *MCTS) {
		if visits > 0 {
			m.minVisits = visits
		}
	}
}

func WithTieBreak(tieBreak TieBreak) Option {
	return func(m *MCTS) {
		m.tieBreak = tieBreak
	}
}

// WithSeed makes random tie-breaking reproducible.
func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.rng = rand.New(rand.NewSource(seed))
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(m *MCTS) {
		if collector != nil {
			m.metrics = collector
		}
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		cutoff:      ToBottom,
		strategy:    UpperConfidence,
		exploration: Exploration,
		minVisits:   MinVisits,
		tieBreak:    FirstFound,
		metrics:     metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return m
}

func (m *MCTS) Iterations() int {
	return m.iterations
}

// Search runs the iteration budget from state and returns the most promising
// successor. A terminal state is returned unchanged without building a tree.
func (m *MCTS) Search(state State) (State, metrics.SearchMetric) {
	if state == nil {
		panic("cannot search from a nil state")
	}
	if !state.HasNextStates() {
		log.Debug().Msg("root state has no successors, returning it unchanged")
		return state, metrics.SearchMetric{}
	}

	t := newTree(state)
	m.metrics.Start(m.iterations, m.cutoff, m.strategy.String())
	m.metrics.AddNodes(1)
	for i := 0; i < m.iterations; i++ {
		m.simulate(t)
		m.metrics.AddEpisode()
	}
	metric := m.metrics.Complete()

	best := t.bestChild(m.tieBreak, m.rng)
	log.Debug().
		Int("iterations", m.iterations).
		Int("cutoff", m.cutoff).
		Str("strategy", m.strategy.String()).
		Int("nodes", t.size()).
		Int("best_visits", t.at(best).visits).
		Float64("best_mean", t.at(best).mean()).
		Msg("search complete")
	return t.at(best).state, metric
}

func (m *MCTS) simulate(t *tree) {
	leaf := m.selectThenExpand(t)
	score := m.rollout(t.at(leaf).state)
	t.backup(leaf, score)
}

// selectThenExpand descends from the root until it reaches a node visited for
// the first time, which it expands, or a node with nothing left to select.
func (m *MCTS) selectThenExpand(t *tree) int {
	current := rootIndex
	for {
		if !t.at(current).expanded {
			m.metrics.AddNodes(t.expand(current))
			return current
		}
		child, ok := m.pick(t, current)
		if !ok {
			return current
		}
		current = child
	}
}

func (m *MCTS) rollout(state State) float64 {
	depth := 0
	// Rollout till a terminal state or for cutoff number of samples
	for state.HasNextStates() && (m.cutoff == ToBottom || depth < m.cutoff) {
		state = state.SampleNextState()
		depth++
	}

	if !state.HasNextStates() {
		m.metrics.AddFullPlayout()
	}
	return state.Score()
}
