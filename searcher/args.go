package searcher

// Hyperparameters for MCTS

const Exploration = 1.0 // C in mean + C*sqrt(2*ln(N)/n)

const MinVisits = 2 // Visits every child gets before the UCB term applies

const ToBottom = -1 // Rollout cutoff sentinel: sample until a terminal state
