package searcher

import "math"

// pick chooses the child of parent to descend into. ok is false when parent
// has no selectable child and is therefore the leaf of this iteration.
func (m *MCTS) pick(t *tree, parent int) (child int, ok bool) {
	switch m.strategy {
	case GreedyMean:
		return pickGreedy(t, parent)
	default:
		return pickUpperConfidence(t, parent, m.exploration, m.minVisits)
	}
}

// pickGreedy selects the active child with the best mean. Exhausted children
// are skipped while a non-exhausted one remains; after that the first
// exhausted child is locked out of the active set. A locked child that was
// never visited becomes the leaf so its own score gets backed up once.
func pickGreedy(t *tree, parent int) (int, bool) {
	for {
		best, fallback := -1, -1
		maxMean := math.Inf(-1)
		for _, c := range t.at(parent).children {
			child := t.at(c)
			if child.locked {
				continue
			}
			if child.exhausted() {
				if fallback == -1 {
					fallback = c
				}
				continue
			}
			if mean := child.mean(); mean > maxMean {
				best, maxMean = c, mean
			}
		}

		if best != -1 {
			return best, true
		}
		if fallback == -1 {
			return 0, false
		}

		locked := t.at(fallback)
		locked.locked = true
		// Exhausted children gain visits only once locked, so a visited one
		// here means statistics were seeded from outside a search.
		if locked.visits == 0 {
			return fallback, true
		}
	}
}

// pickUpperConfidence returns the first child under minVisits visits, or else
// the child maximizing the UCT value. Exhausted children stay selectable: they
// are leaves whose rollout is their own score.
func pickUpperConfidence(t *tree, parent int, c float64, minVisits int) (int, bool) {
	p := t.at(parent)
	if len(p.children) == 0 {
		return 0, false
	}

	for _, i := range p.children {
		if t.at(i).visits < minVisits {
			return i, true
		}
	}

	policy := newUCT(c, float64(p.visits))
	maxIndex := -1
	maxScore := math.Inf(-1)
	for _, i := range p.children {
		child := t.at(i)
		if score := policy.evaluate(child.rewards, float64(child.visits)); score > maxScore {
			maxScore = score
			maxIndex = i
		}
	}
	return maxIndex, true
}
