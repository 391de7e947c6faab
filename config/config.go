package config

import (
	"os"
	"strconv"

	"treesearch/meta"
	"treesearch/searcher"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config is the file/env configuration of the command line tool.
type Config struct {
	Search     SearchConfig     `yaml:"search"`
	Experiment ExperimentConfig `yaml:"experiment"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

type SearchConfig struct {
	Iterations  int     `yaml:"iterations"`
	Depth       int     `yaml:"depth"`
	Strategy    string  `yaml:"strategy"`
	Exploration float64 `yaml:"exploration"`
	MinVisits   int     `yaml:"min_visits"`
	TieBreak    string  `yaml:"tie_break"` // "first" or "random"
	Seed        uint64  `yaml:"seed"`      // 0 seeds from the clock
}

type ExperimentConfig struct {
	Trials    int    `yaml:"trials"`
	OutputDir string `yaml:"output_dir"`
	Budgets   []int  `yaml:"budgets"`
}

// MetricsConfig enables Prometheus search metrics. When File is set the
// registry is written there in text exposition format after each command.
type MetricsConfig struct {
	File string `yaml:"file"`
}

type LoggingConfig struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

func Default() Config {
	return Config{
		Search: SearchConfig{
			Iterations:  meta.ITERATIONS,
			Depth:       meta.DEPTH,
			Strategy:    meta.STRATEGY,
			Exploration: searcher.Exploration,
			MinVisits:   searcher.MinVisits,
			TieBreak:    "first",
		},
		Experiment: ExperimentConfig{
			Trials:    meta.TRIALS,
			OutputDir: meta.OUTPUT_DIR,
			Budgets:   []int{10, 100, 1000},
		},
		Logging: LoggingConfig{
			Level:   meta.LOG_LEVEL,
			Console: true,
		},
	}
}

// Load merges configuration with priority env > file > defaults. A missing
// file is not an error.
func Load(path string) (Config, error) {
	config := Default()

	if path != "" {
		if err := loadFile(path, &config); err != nil {
			return config, errors.Wrap(err, "load config file")
		}
	}
	if err := loadEnv(&config); err != nil {
		return config, errors.Wrap(err, "load config from environment")
	}
	if err := config.Validate(); err != nil {
		return config, errors.Wrap(err, "invalid config")
	}
	return config, nil
}

func loadFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, config)
}

func loadEnv(config *Config) error {
	ints := map[string]*int{
		"MCTS_ITERATIONS": &config.Search.Iterations,
		"MCTS_DEPTH":      &config.Search.Depth,
		"MCTS_TRIALS":     &config.Experiment.Trials,
	}
	for key, target := range ints {
		if v, ok := os.LookupEnv(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return errors.Wrapf(err, "%s", key)
			}
			*target = n
		}
	}

	if v, ok := os.LookupEnv("MCTS_SEED"); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return errors.Wrap(err, "MCTS_SEED")
		}
		config.Search.Seed = seed
	}
	if v, ok := os.LookupEnv("MCTS_STRATEGY"); ok {
		config.Search.Strategy = v
	}
	if v, ok := os.LookupEnv("MCTS_LOG_LEVEL"); ok {
		config.Logging.Level = v
	}
	if v, ok := os.LookupEnv("MCTS_METRICS_FILE"); ok {
		config.Metrics.File = v
	}
	return nil
}

func (c Config) Validate() error {
	if c.Search.Iterations < 0 {
		return errors.Errorf("search.iterations must be non-negative, got %d", c.Search.Iterations)
	}
	if c.Search.Exploration < 0 {
		return errors.Errorf("search.exploration must be non-negative, got %g", c.Search.Exploration)
	}
	if c.Search.MinVisits < 1 {
		return errors.Errorf("search.min_visits must be at least 1, got %d", c.Search.MinVisits)
	}
	if _, err := searcher.ParseStrategy(c.Search.Strategy); err != nil {
		return err
	}
	if c.Search.TieBreak != "first" && c.Search.TieBreak != "random" {
		return errors.Errorf("search.tie_break must be first or random, got %q", c.Search.TieBreak)
	}
	if c.Experiment.Trials < 0 {
		return errors.Errorf("experiment.trials must be non-negative, got %d", c.Experiment.Trials)
	}
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return errors.Wrap(err, "logging.level")
	}
	return nil
}

// Options converts the search section into engine options. Iterations and
// depth are left to the caller, which passes them to the driver functions.
func (s SearchConfig) Options() []searcher.Option {
	strategy, _ := searcher.ParseStrategy(s.Strategy)
	options := []searcher.Option{
		searcher.WithStrategy(strategy),
		searcher.WithExploration(s.Exploration),
		searcher.WithMinVisits(s.MinVisits),
	}
	if s.TieBreak == "random" {
		options = append(options, searcher.WithTieBreak(searcher.RandomAmongTies))
	}
	if s.Seed != 0 {
		options = append(options, searcher.WithSeed(s.Seed))
	}
	return options
}

// ZerologLevel returns the configured level, falling back to info.
func (l LoggingConfig) ZerologLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
