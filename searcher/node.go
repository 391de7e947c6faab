package searcher

const noParent = -1

// node is one arena slot. Children and parent are arena indices; the parent
// index is only ever used to walk back up during backup.
type node struct {
	state    State
	parent   int
	children []int
	rewards  float64
	visits   int
	expanded bool
	locked   bool
}

func newNode(parent int, state State) node {
	return node{
		state:  state,
		parent: parent,
	}
}

// mean is the average backed-up score, 0 for an unvisited node.
func (n *node) mean() float64 {
	if n.visits == 0 {
		return 0
	}
	return n.rewards / float64(n.visits)
}

func (n *node) exhausted() bool {
	return !n.state.HasNextStates()
}

func (n *node) update(score float64) {
	n.rewards += score
	n.visits++
}
