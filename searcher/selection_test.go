package searcher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// mixedGraph has two terminal children (p, q) and one live child (r) under root.
func mixedGraph() *mockGraph {
	return newMockGraph(1,
		map[string][]string{"root": {"p", "q", "r"}, "r": {"r1"}},
		map[string]float64{"p": 9, "q": 8, "r": 1, "r1": 2},
	)
}

func expandedRoot(g *mockGraph) *tree {
	tr := newTree(g.state("root"))
	tr.expand(rootIndex)
	return tr
}

func TestPickGreedy(t *testing.T) {
	t.Run("skips exhausted children while a live one remains", func(t *testing.T) {
		tr := expandedRoot(mixedGraph())
		p, r := 1, 3
		tr.at(p).rewards, tr.at(p).visits = 9, 1

		got, ok := pickGreedy(tr, rootIndex)

		require.True(t, ok, "Should select a child")
		require.Equal(t, r, got, "Should skip exhausted children despite their better mean")
		require.False(t, tr.at(p).locked, "Exhausted child should not be locked yet")
	})

	t.Run("locks an exhausted child when it is the only option", func(t *testing.T) {
		tr := expandedRoot(mixedGraph())
		p, r := 1, 3
		tr.at(r).locked = true

		got, ok := pickGreedy(tr, rootIndex)

		require.True(t, ok, "Should select the unvisited exhausted child")
		require.Equal(t, p, got, "Should take the first exhausted child")
		require.True(t, tr.at(p).locked, "Selected exhausted child should be locked")
	})

	t.Run("exhausted children are locked on their first visit", func(t *testing.T) {
		g := newMockGraph(1,
			map[string][]string{"root": {"p", "q"}},
			map[string]float64{"p": 9, "q": 8},
		)
		m := NewMCTS(WithStrategy(GreedyMean))
		tr := newTree(g.state("root"))

		for i := 0; i < 10; i++ {
			m.simulate(tr)
		}

		p, q := 1, 2
		require.Equal(t, 10, tr.at(rootIndex).visits)
		require.True(t, tr.at(p).locked)
		require.True(t, tr.at(q).locked)
		require.Equal(t, 1, tr.at(p).visits, "Locked child should be backed up exactly once")
		require.Equal(t, 1, tr.at(q).visits, "Locked child should be backed up exactly once")
	})

	t.Run("retries after locking a visited exhausted child", func(t *testing.T) {
		tr := expandedRoot(mixedGraph())
		p, q, r := 1, 2, 3
		tr.at(r).locked = true
		tr.at(p).rewards, tr.at(p).visits = 9, 1

		got, ok := pickGreedy(tr, rootIndex)

		require.True(t, ok, "Should select the next exhausted child")
		require.Equal(t, q, got, "Should retry past the visited locked child")
		require.True(t, tr.at(p).locked, "Visited exhausted child should be locked")
		require.True(t, tr.at(q).locked, "Selected exhausted child should be locked")
	})

	t.Run("node with every child locked is the leaf", func(t *testing.T) {
		tr := expandedRoot(mixedGraph())
		for _, c := range tr.at(rootIndex).children {
			tr.at(c).locked = true
		}

		_, ok := pickGreedy(tr, rootIndex)

		require.False(t, ok, "Nothing should be selectable")
	})

	t.Run("prefers the best mean and the first on ties", func(t *testing.T) {
		g := newMockGraph(1,
			map[string][]string{"root": {"a", "b", "c"}, "a": {"x"}, "b": {"x"}, "c": {"x"}},
			map[string]float64{},
		)
		tr := expandedRoot(g)
		tr.at(2).rewards, tr.at(2).visits = 4, 2
		tr.at(3).rewards, tr.at(3).visits = 6, 3

		got, _ := pickGreedy(tr, rootIndex)

		require.Equal(t, 2, got, "Should pick the first child with the best mean")
	})
}

func TestPickUpperConfidence(t *testing.T) {
	t.Run("forces visits below the threshold in order", func(t *testing.T) {
		tr := expandedRoot(mixedGraph())
		tr.at(1).rewards, tr.at(1).visits = 18, 2
		tr.at(2).rewards, tr.at(2).visits = 8, 1
		tr.at(rootIndex).visits = 4

		got, ok := pickUpperConfidence(tr, rootIndex, Exploration, 2)

		require.True(t, ok, "Should select a child")
		require.Equal(t, 2, got, "Should pick the first child under the visit threshold")
	})

	t.Run("selects the max UCT child once every child passed the threshold", func(t *testing.T) {
		tr := expandedRoot(mixedGraph())
		tr.at(1).rewards, tr.at(1).visits = 2, 2
		tr.at(2).rewards, tr.at(2).visits = 16, 2
		tr.at(3).rewards, tr.at(3).visits = 4, 2
		tr.at(rootIndex).visits = 7

		got, ok := pickUpperConfidence(tr, rootIndex, Exploration, 2)

		require.True(t, ok, "Should select a child")
		require.Equal(t, 2, got, "Equal visits should reduce to the best mean")
	})

	t.Run("exploration favors the less visited child", func(t *testing.T) {
		tr := expandedRoot(mixedGraph())
		tr.at(1).rewards, tr.at(1).visits = 50, 100
		tr.at(2).rewards, tr.at(2).visits = 1, 2
		tr.at(3).rewards, tr.at(3).visits = 50, 100
		tr.at(rootIndex).visits = 203

		got, _ := pickUpperConfidence(tr, rootIndex, 2.0, 2)

		require.Equal(t, 2, got, "Rarely visited child should win on exploration")
	})

	t.Run("node without children is the leaf", func(t *testing.T) {
		tr := newTree(chainGraph(1).state("C"))
		tr.expand(rootIndex)

		_, ok := pickUpperConfidence(tr, rootIndex, Exploration, 2)

		require.False(t, ok, "Terminal node should have nothing to select")
	})
}
