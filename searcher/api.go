package searcher

import "github.com/pkg/errors"

// ComputeNextState searches from state for iterations rounds with rollouts
// cut off after depth samples and returns the chosen successor.
//
// A depth of 0 returns state unchanged. A negative depth behaves exactly like
// ComputeToBottom. The options tune the engine as in NewMCTS; iteration
// budget and cutoff given here take precedence.
func ComputeNextState(state State, iterations, depth int, options ...Option) (State, error) {
	if iterations < 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "iterations must be non-negative, got %d", iterations)
	}
	if depth == 0 {
		return state, nil
	}
	if depth < 0 {
		return ComputeToBottom(state, iterations, options...)
	}
	return search(state, iterations, depth, options)
}

// ComputeToBottom is ComputeNextState with every rollout running until a
// state reports no successors.
func ComputeToBottom(state State, iterations int, options ...Option) (State, error) {
	if iterations < 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "iterations must be non-negative, got %d", iterations)
	}
	return search(state, iterations, ToBottom, options)
}

func search(state State, iterations, cutoff int, options []Option) (State, error) {
	all := make([]Option, 0, len(options)+2)
	all = append(all, options...)
	all = append(all, WithIterations(iterations), WithCutoff(cutoff))

	next, _ := NewMCTS(all...).Search(state)
	return next, nil
}
