package experiments

import (
	"treesearch/experiments/metrics"
	"treesearch/game"
	"treesearch/searcher"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// BranchValues is the best score reachable under each child of the
// BranchGraph root. "good" is the unique optimal branch; "bad" hides a trap
// next to its best leaf.
var BranchValues = map[string]float64{"bad": 9, "mid": 3, "good": 10}

// BranchGraph returns the root of the benchmark graph, sampling with seed.
func BranchGraph(seed uint64) game.GraphState {
	g := game.NewGraph(seed).
		AddEdge("root", "bad").AddEdge("root", "mid").AddEdge("root", "good").
		AddEdge("bad", "b1").AddEdge("bad", "b2").
		AddEdge("mid", "m1").
		AddEdge("good", "g1").AddEdge("good", "g2").
		SetScore("b1", 9).SetScore("b2", -20).
		SetScore("m1", 3).
		SetScore("g1", 10).SetScore("g2", 6)
	return g.State("root")
}

// ScalingConfigs pairs every iteration budget with both selection strategies,
// rolling out to the bottom.
func ScalingConfigs(budgets []int) []metrics.AgentConfig {
	configs := []metrics.AgentConfig{}
	for _, strategy := range []searcher.Strategy{searcher.UpperConfidence, searcher.GreedyMean} {
		for _, iterations := range budgets {
			configs = append(configs, metrics.AgentConfig{
				ID:         len(configs) + 1,
				Iterations: iterations,
				Depth:      searcher.ToBottom,
				Strategy:   strategy.String(),
			})
		}
	}
	return configs
}

type Summary struct {
	Agent     metrics.AgentConfig
	MeanValue float64 // Mean BranchValues entry of the chosen child
}

// RunIterationScaling searches the BranchGraph trials times per config, with
// trial seeds shared across configs, and stores the results under root.
// newCollector supplies the collector of every search; nil uses an in-memory
// one.
func RunIterationScaling(root string, trials int, configs []metrics.AgentConfig, newCollector func() metrics.Collector) ([]Summary, error) {
	if newCollector == nil {
		newCollector = metrics.NewCollector
	}
	runID := uuid.NewString()
	records := []metrics.SearchRecord{}
	summaries := make([]Summary, 0, len(configs))

	log.Info().Str("run", runID).Int("configs", len(configs)).Int("trials", trials).Msg("starting iteration scaling experiment...")

	for _, config := range configs {
		strategy, err := searcher.ParseStrategy(config.Strategy)
		if err != nil {
			return nil, errors.Wrapf(err, "agent %d", config.ID)
		}

		total := 0.0
		for trial := 1; trial <= trials; trial++ {
			seed := uint64(trial)
			m := searcher.NewMCTS(
				searcher.WithIterations(config.Iterations),
				searcher.WithCutoff(config.Depth),
				searcher.WithStrategy(strategy),
				searcher.WithSeed(seed),
				searcher.WithMetrics(newCollector()),
			)
			next, metric := m.Search(BranchGraph(seed))
			chosen := next.(game.GraphState).Name
			total += BranchValues[chosen]

			records = append(records, metrics.SearchRecord{
				RunID:        runID,
				Agent:        config.ID,
				Trial:        trial,
				Seed:         seed,
				Chosen:       chosen,
				Value:        BranchValues[chosen],
				SearchMetric: metric,
			})
		}

		summary := Summary{Agent: config}
		if trials > 0 {
			summary.MeanValue = total / float64(trials)
		}
		summaries = append(summaries, summary)
		log.Info().
			Int("agent", config.ID).
			Int("iterations", config.Iterations).
			Str("strategy", config.Strategy).
			Float64("mean_value", summary.MeanValue).
			Msg("completed agent")
	}

	writer, err := metrics.NewWriter(root, "iteration_scaling")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create experiment writer")
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return nil, err
	}
	log.Info().Msg("stored agent configs")
	if err := writer.WriteSearchRecords(records); err != nil {
		return nil, err
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored search records")

	return summaries, nil
}
