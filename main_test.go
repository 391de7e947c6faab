package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"treesearch/game"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderBoard(t *testing.T) {
	board := game.NewTicTacToe(1).Play(0).Play(4)

	t.Run("plain profile", func(t *testing.T) {
		require.Equal(t, "X . .\n. O .\n. . .\n", renderBoard(board, termenv.Ascii))
	})

	t.Run("colored profile", func(t *testing.T) {
		got := renderBoard(board, termenv.TrueColor)

		require.Contains(t, got, "\x1b[", "Marks should be colored")
		require.Contains(t, got, "X")
	})
}

func TestSearchCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chain.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
root: A
states:
  A: {score: 0, next: [B]}
  B: {score: 1, next: [C]}
  C: {score: 5}
`), 0o644))

	t.Run("prints the chosen state", func(t *testing.T) {
		out, err := execute(t, "search", path, "--iterations", "50", "--seed", "3")

		require.NoError(t, err)
		require.Equal(t, "B\n", out)
	})

	t.Run("depth zero prints the root", func(t *testing.T) {
		out, err := execute(t, "search", path, "--depth", "0")

		require.NoError(t, err)
		require.Equal(t, "A\n", out)
	})

	t.Run("writes search metrics", func(t *testing.T) {
		metricsPath := filepath.Join(t.TempDir(), "search.prom")

		_, err := execute(t, "search", path, "--iterations", "50", "--seed", "3", "--metrics", metricsPath)

		require.NoError(t, err)
		data, err := os.ReadFile(metricsPath)
		require.NoError(t, err)
		require.Contains(t, string(data), "mcts_searches_total 1")
		require.Contains(t, string(data), "mcts_episodes_total 50")
	})

	t.Run("rejects invalid flags", func(t *testing.T) {
		_, err := execute(t, "search", path, "--strategy", "minimax")

		require.Error(t, err)
	})
}

func TestPlayCommand(t *testing.T) {
	out, err := execute(t, "play", "--iterations", "200", "--seed", "5")

	require.NoError(t, err)
	require.Contains(t, out, "move 5", "A game lasts at least five moves")
	last := strings.TrimSpace(out[strings.LastIndex(strings.TrimSpace(out), "\n")+1:])
	require.Contains(t, []string{"X wins", "O wins", "draw"}, last)
}

func TestExperimentCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MCTS_TRIALS", "2")
	config := filepath.Join(dir, "mcts.yaml")
	require.NoError(t, os.WriteFile(config, []byte("experiment:\n  budgets: [10]\n  output_dir: "+dir+"\n"), 0o644))

	out, err := execute(t, "experiment", "--config", config)

	require.NoError(t, err)
	require.Contains(t, out, "ucb")
	require.Contains(t, out, "greedy")
}

func TestPlayCommandMetrics(t *testing.T) {
	metricsPath := filepath.Join(t.TempDir(), "play.prom")

	_, err := execute(t, "play", "--iterations", "50", "--seed", "2", "--metrics", metricsPath)

	require.NoError(t, err)
	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "mcts_searches_total", "Every move should be counted")
	require.Contains(t, string(data), "mcts_search_duration_seconds_bucket")
}
