package searcher

import (
	"math"

	"golang.org/x/exp/rand"
)

const rootIndex = 0

// tree owns every node of one search. Nodes refer to each other by index so
// the arena is the only owner of node storage.
type tree struct {
	nodes []node
}

func newTree(root State) *tree {
	return &tree{nodes: []node{newNode(noParent, root)}}
}

func (t *tree) at(i int) *node {
	return &t.nodes[i]
}

func (t *tree) size() int {
	return len(t.nodes)
}

// expand materializes one child per successor of the node at i. It returns
// the number of nodes added, which is 0 when the node was already expanded.
func (t *tree) expand(i int) int {
	if t.nodes[i].expanded {
		return 0
	}

	next := t.nodes[i].state.NextStates()
	children := make([]int, 0, len(next))
	for _, state := range next {
		children = append(children, len(t.nodes))
		t.nodes = append(t.nodes, newNode(i, state))
	}
	// t.nodes may have been reallocated by append
	t.nodes[i].children = children
	t.nodes[i].expanded = true
	return len(children)
}

// backup folds score into the leaf and every ancestor up to the root.
func (t *tree) backup(leaf int, score float64) {
	for i := leaf; i != noParent; i = t.nodes[i].parent {
		t.nodes[i].update(score)
	}
}

// depth counts the edges between i and the root.
func (t *tree) depth(i int) int {
	d := 0
	for i = t.nodes[i].parent; i != noParent; i = t.nodes[i].parent {
		d++
	}
	return d
}

// bestChild returns the root child with the highest mean score, or the root
// itself when it has no children. Visited children take precedence over
// unvisited ones, whose mean is undefined.
func (t *tree) bestChild(tieBreak TieBreak, rng *rand.Rand) int {
	root := t.at(rootIndex)
	if len(root.children) == 0 {
		return rootIndex
	}

	candidates := make([]int, 0, len(root.children))
	for _, c := range root.children {
		if t.at(c).visits > 0 {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		candidates = root.children
	}

	bestIndex := -1
	maxMean := math.Inf(-1)
	ties := 0
	for _, c := range candidates {
		mean := t.at(c).mean()
		switch {
		case mean > maxMean:
			bestIndex, maxMean, ties = c, mean, 1
		case mean == maxMean && tieBreak == RandomAmongTies:
			// Reservoir sampling keeps each tied child with probability 1/ties
			ties++
			if rng.Intn(ties) == 0 {
				bestIndex = c
			}
		}
	}
	return bestIndex
}
