package main

import (
	"fmt"
	"os"
	"time"

	"treesearch/config"
	"treesearch/engine"
	"treesearch/experiments"
	"treesearch/experiments/metrics"
	"treesearch/game"
	"treesearch/searcher"

	"github.com/muesli/termenv"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	cfg := config.Default()

	root := &cobra.Command{
		Use:          "mcts",
		Short:        "Monte Carlo tree search over sample state spaces",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := applyFlags(cmd, &loaded); err != nil {
				return err
			}
			cfg = loaded
			setupLogging(cfg.Logging)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "path to a YAML config file")
	flags.Int("iterations", cfg.Search.Iterations, "search iterations per move")
	flags.Int("depth", cfg.Search.Depth, "rollout depth, negative rolls out to a terminal state")
	flags.String("strategy", cfg.Search.Strategy, "selection strategy: ucb or greedy")
	flags.Uint64("seed", cfg.Search.Seed, "random seed, 0 seeds from the clock")
	flags.String("metrics", cfg.Metrics.File, "write Prometheus search metrics to this file")

	root.AddCommand(newPlayCmd(&cfg), newSearchCmd(&cfg), newExperimentCmd(&cfg))
	return root
}

// applyFlags overrides config values with flags set on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error
	if flags.Changed("iterations") {
		if cfg.Search.Iterations, err = flags.GetInt("iterations"); err != nil {
			return err
		}
	}
	if flags.Changed("depth") {
		if cfg.Search.Depth, err = flags.GetInt("depth"); err != nil {
			return err
		}
	}
	if flags.Changed("strategy") {
		if cfg.Search.Strategy, err = flags.GetString("strategy"); err != nil {
			return err
		}
	}
	if flags.Changed("seed") {
		if cfg.Search.Seed, err = flags.GetUint64("seed"); err != nil {
			return err
		}
	}
	if flags.Changed("metrics") {
		if cfg.Metrics.File, err = flags.GetString("metrics"); err != nil {
			return err
		}
	}
	return cfg.Validate()
}

func setupLogging(logging config.LoggingConfig) {
	zerolog.SetGlobalLevel(logging.ZerologLevel())
	if logging.Console {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// metricsSink mirrors every search of a command into a Prometheus registry
// that is written out once the command is done. A nil sink records nothing.
type metricsSink struct {
	path      string
	registry  *prometheus.Registry
	collector *metrics.PrometheusCollector
}

func newMetricsSink(cfg config.MetricsConfig) *metricsSink {
	if cfg.File == "" {
		return nil
	}
	registry := prometheus.NewRegistry()
	return &metricsSink{
		path:      cfg.File,
		registry:  registry,
		collector: metrics.NewPrometheusCollector(registry),
	}
}

func (s *metricsSink) options() []searcher.Option {
	if s == nil {
		return nil
	}
	return []searcher.Option{searcher.WithMetrics(s.collector)}
}

// factory hands the shared collector to every search. Searches run one after
// another, so the per-search counters never overlap.
func (s *metricsSink) factory() func() metrics.Collector {
	if s == nil {
		return nil
	}
	return func() metrics.Collector { return s.collector }
}

func (s *metricsSink) flush() error {
	if s == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(s.path, s.registry); err != nil {
		return errors.Wrap(err, "write metrics")
	}
	log.Info().Str("file", s.path).Msg("stored search metrics")
	return nil
}

func newAgent(search config.SearchConfig, seed uint64, extra ...searcher.Option) *searcher.MCTS {
	options := append(search.Options(),
		searcher.WithIterations(search.Iterations),
		searcher.WithCutoff(search.Depth),
	)
	options = append(options, extra...)
	if search.Seed != 0 {
		options = append(options, searcher.WithSeed(search.Seed+seed))
	}
	return searcher.NewMCTS(options...)
}

func newPlayCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Let two agents play tic-tac-toe against each other",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Search.Iterations == 0 {
				return errors.New("play needs a positive iteration budget")
			}
			seed := cfg.Search.Seed
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}

			sink := newMetricsSink(cfg.Metrics)
			e := engine.LocalEngine(game.NewTicTacToe(seed),
				newAgent(cfg.Search, 1, sink.options()...),
				newAgent(cfg.Search, 2, sink.options()...),
			)
			profile := termenv.EnvColorProfile()
			out := cmd.OutOrStdout()

			updates, wait := e.Start(cmd.Context())
			for update := range updates {
				board := update.State.(game.TicTacToe)
				fmt.Fprintf(out, "move %d (%s):\n%s\n", update.Metric.Step, board.ToMove().Opponent(), renderBoard(board, profile))
			}
			if err := wait(); err != nil {
				return err
			}

			final := e.State.(game.TicTacToe)
			if winner := final.Winner(); winner != game.Empty {
				fmt.Fprintf(out, "%s wins\n", winner)
			} else {
				fmt.Fprintln(out, "draw")
			}
			return sink.flush()
		},
	}
}

func newSearchCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "search GRAPH.yaml",
		Short: "Pick the next state of a YAML state graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			seed := cfg.Search.Seed
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}
			root, err := game.LoadGraph(f, seed)
			if err != nil {
				return err
			}

			sink := newMetricsSink(cfg.Metrics)
			options := append(cfg.Search.Options(), sink.options()...)
			next, err := searcher.ComputeNextState(root, cfg.Search.Iterations, cfg.Search.Depth, options...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), next.(game.GraphState).Name)
			return sink.flush()
		},
	}
}

func newExperimentCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "experiment",
		Short: "Compare iteration budgets and strategies on the benchmark graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configs := experiments.ScalingConfigs(cfg.Experiment.Budgets)
			sink := newMetricsSink(cfg.Metrics)
			summaries, err := experiments.RunIterationScaling(cfg.Experiment.OutputDir, cfg.Experiment.Trials, configs, sink.factory())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-6s %-8s %10s %10s\n", "agent", "strategy", "iterations", "mean")
			for _, s := range summaries {
				fmt.Fprintf(out, "%-6d %-8s %10d %10.2f\n", s.Agent.ID, s.Agent.Strategy, s.Agent.Iterations, s.MeanValue)
			}
			return sink.flush()
		},
	}
}
