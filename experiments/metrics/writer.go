package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

type AgentConfig struct {
	ID         int
	Iterations int
	Depth      int // Negative for to-bottom rollouts
	Strategy   string
}

type SearchRecord struct {
	RunID  string
	Agent  int // AgentConfig.ID
	Trial  int
	Seed   uint64
	Chosen string
	Value  float64 // Value of the chosen state
	SearchMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates root/name/<timestamp> to hold the experiment's CSV files.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create directory")
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "iterations", "depth", "strategy"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			strconv.Itoa(config.Iterations),
			strconv.Itoa(config.Depth),
			config.Strategy,
		})
	}
	return errors.Wrap(w.write("agent_configs.csv", header, rows), "failed to write agent configs")
}

func (w *Writer) WriteSearchRecords(records []SearchRecord) error {
	header := []string{"run", "agent", "trial", "seed", "chosen", "value", "duration", "episodes", "full_playouts", "nodes"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.RunID,
			strconv.Itoa(record.Agent),
			strconv.Itoa(record.Trial),
			strconv.FormatUint(record.Seed, 10),
			record.Chosen,
			strconv.FormatFloat(record.Value, 'f', -1, 64),
			record.Duration.String(),
			strconv.Itoa(record.Episodes),
			strconv.Itoa(record.FullPlayouts),
			strconv.Itoa(record.Nodes),
		})
	}
	return errors.Wrap(w.write("search_records.csv", header, rows), "failed to write search records")
}

func (w *Writer) write(name string, header []string, rows [][]string) error {
	f, err := os.Create(filepath.Join(w.baseDir, name))
	if err != nil {
		return err
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}
