package engine

import (
	"context"
	"time"

	"treesearch/experiments/metrics"
	"treesearch/searcher"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Engine applies searched states one step at a time. Agents take turns in
// order, so two agents alternate like players.
type Engine struct {
	State  searcher.State
	Agents []*searcher.MCTS
	step   int
}

var _ Runner = (*Engine)(nil)

func LocalEngine(initial searcher.State, agents ...*searcher.MCTS) *Engine {
	if initial == nil {
		panic("need an initial state")
	}
	if len(agents) == 0 {
		panic("need at least one agent")
	}
	for _, agent := range agents {
		if agent.Iterations() == 0 {
			panic("agent without an iteration budget cannot make progress")
		}
	}

	return &Engine{
		State:  initial,
		Agents: agents,
	}
}

// Run executes the entire loop until a terminal state is reached.
func (e *Engine) Run() (metrics.GameMetric, []metrics.MoveMetric) {
	start := time.Now()
	var moveMetrics []metrics.MoveMetric

	log.Info().Msg("game started")
	for e.more() {
		update := e.advance()
		moveMetrics = append(moveMetrics, update.Metric)
	}
	log.Info().Int("moves", e.step).Float64("score", e.State.Score()).Msg("game over")

	return e.gameMetric(start), moveMetrics
}

// Start runs the loop on a background goroutine. Every chosen state is sent
// on updates, which is closed when the game ends or ctx is cancelled; wait
// reports ctx.Err() in the latter case. The search of a move in progress is
// not interrupted.
func (e *Engine) Start(ctx context.Context) (<-chan Update, func() error) {
	updates := make(chan Update)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(updates)
		for e.more() {
			if err := ctx.Err(); err != nil {
				return err
			}
			select {
			case updates <- e.advance():
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	return updates, g.Wait
}

func (e *Engine) more() bool {
	return e.State.HasNextStates() && e.step < MaxMoves
}

func (e *Engine) advance() Update {
	agent := e.Agents[e.step%len(e.Agents)]
	state := e.State
	if o, ok := state.(Orienter); ok {
		state = o.Orient()
	}

	next, searchMetric := agent.Search(state)
	e.step++
	e.State = next

	log.Debug().Int("step", e.step).Float64("score", next.Score()).Msg("move applied")
	return Update{
		State: next,
		Metric: metrics.MoveMetric{
			Step:         e.step,
			Score:        next.Score(),
			SearchMetric: searchMetric,
		},
	}
}

func (e *Engine) gameMetric(start time.Time) metrics.GameMetric {
	end := time.Now()
	return metrics.GameMetric{
		StartTime:  start,
		EndTime:    end,
		Duration:   end.Sub(start),
		TotalMoves: e.step,
		FinalScore: e.State.Score(),
	}
}
