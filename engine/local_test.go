package engine

import (
	"context"
	"testing"

	"treesearch/experiments/metrics"
	"treesearch/game"
	"treesearch/searcher"

	"github.com/stretchr/testify/require"
)

func chain() game.GraphState {
	g := game.NewGraph(1).
		AddEdge("A", "B").
		AddEdge("B", "C").
		SetScore("B", 1).
		SetScore("C", 5)
	return g.State("A")
}

func TestLocalEngine(t *testing.T) {
	t.Run("panics without agents", func(t *testing.T) {
		require.Panics(t, func() { LocalEngine(chain()) })
	})

	t.Run("panics with an agent that cannot search", func(t *testing.T) {
		require.Panics(t, func() { LocalEngine(chain(), searcher.NewMCTS()) })
	})

	t.Run("panics without an initial state", func(t *testing.T) {
		require.Panics(t, func() { LocalEngine(nil, searcher.NewMCTS(searcher.WithIterations(1))) })
	})
}

func TestEngineRun(t *testing.T) {
	t.Run("walks a chain to its terminal state", func(t *testing.T) {
		agent := searcher.NewMCTS(searcher.WithIterations(20), searcher.WithMetrics(metrics.NewCollector()))
		e := LocalEngine(chain(), agent)

		gameMetric, moveMetrics := e.Run()

		require.Equal(t, "C", e.State.(game.GraphState).Name, "Should end on the terminal state")
		require.Equal(t, 2, gameMetric.TotalMoves, "A to B to C takes two moves")
		require.Equal(t, 5.0, gameMetric.FinalScore)
		require.Len(t, moveMetrics, 2, "Should record one metric per move")
		require.Equal(t, 1, moveMetrics[0].Step)
		require.Equal(t, 1.0, moveMetrics[0].Score, "First move lands on B")
		require.Equal(t, 20, moveMetrics[0].Episodes, "Should carry the search metric")
	})

	t.Run("two agents finish a tic-tac-toe game", func(t *testing.T) {
		x := searcher.NewMCTS(searcher.WithIterations(300), searcher.WithSeed(1))
		o := searcher.NewMCTS(searcher.WithIterations(300), searcher.WithSeed(2))
		e := LocalEngine(game.NewTicTacToe(1), x, o)

		gameMetric, moveMetrics := e.Run()

		final := e.State.(game.TicTacToe)
		require.False(t, final.HasNextStates(), "Game should be finished")
		require.GreaterOrEqual(t, gameMetric.TotalMoves, 5, "No game ends before five moves")
		require.LessOrEqual(t, gameMetric.TotalMoves, 9, "Board has nine squares")
		require.Len(t, moveMetrics, gameMetric.TotalMoves)
	})
}

func TestEngineStart(t *testing.T) {
	t.Run("streams every move", func(t *testing.T) {
		e := LocalEngine(chain(), searcher.NewMCTS(searcher.WithIterations(10)))

		updates, wait := e.Start(context.Background())
		var names []string
		for update := range updates {
			names = append(names, update.State.(game.GraphState).Name)
		}

		require.NoError(t, wait())
		require.Equal(t, []string{"B", "C"}, names, "Should deliver each chosen state in order")
	})

	t.Run("stops on a cancelled context", func(t *testing.T) {
		e := LocalEngine(chain(), searcher.NewMCTS(searcher.WithIterations(10)))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		updates, wait := e.Start(ctx)
		for range updates {
		}

		require.ErrorIs(t, wait(), context.Canceled)
		require.Equal(t, "A", e.State.(game.GraphState).Name, "No move should be applied")
	})
}
