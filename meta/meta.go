// meta/meta.go
package meta

// ITERATIONS defines the default search budget per move.
const ITERATIONS = 1000

// DEPTH defines the default rollout cutoff; negative rolls out to a terminal state.
const DEPTH = -1

// STRATEGY defines the default selection strategy.
const STRATEGY = "ucb"

// TRIALS defines the number of seeded trials per experiment agent.
const TRIALS = 30

// OUTPUT_DIR defines where experiment CSV files are written.
const OUTPUT_DIR = "experiments"

// LOG_LEVEL defines the default zerolog level.
const LOG_LEVEL = "info"
