package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/poiesic/docintel/core"
	"github.com/poiesic/docintel/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const corpusJSON = `[
  {"id": "setup", "source_type": "confluence", "source_title": "Build setup",
   "text": "Install Python 3.11 on the build agents."},
  {"id": "readme", "source_type": "git", "source_title": "README",
   "text": "Install Python 3.9 on the build agents."},
  {"id": "budget", "source_type": "jira", "source_title": "Budget",
   "text": "Quarterly marketing budget review for the events team."},
  {"id": "onboarding", "source_type": "confluence", "source_title": "Onboarding",
   "text": "New engineers should read Build setup first."}
]`

func writeCorpus(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docs.json")
	require.NoError(t, os.WriteFile(path, []byte(corpusJSON), 0644))
	return path
}

// run executes the CLI with output captured.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	color.NoColor = true

	var stdout, stderr bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	err := app.Run(append([]string{"docintel"}, args...))
	return stdout.String(), stderr.String(), err
}

func findStringFlag(flags []cli.Flag, name string) *cli.StringFlag {
	for _, flag := range flags {
		if f, ok := flag.(*cli.StringFlag); ok && f.Name == name {
			return f
		}
	}
	return nil
}

func findCommand(app *cli.App, name string) *cli.Command {
	for _, cmd := range app.Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	return nil
}

func TestAppFlags(t *testing.T) {
	app := newApp()

	t.Run("global defaults", func(t *testing.T) {
		tests := []struct {
			name string
			want string
		}{
			{"log-level", "warn"},
			{"format", "text"},
			{"db", ""},
			{"config", ""},
			{"host", "http://localhost:11434/v1"},
		}
		for _, tt := range tests {
			flag := findStringFlag(app.Flags, tt.name)
			require.NotNil(t, flag, tt.name)
			assert.Equal(t, tt.want, flag.Value, tt.name)
		}
	})

	t.Run("every command is registered", func(t *testing.T) {
		for _, name := range []string{"analyze", "cluster", "conflicts", "similar", "complement", "relationships", "neighbours", "index"} {
			assert.NotNil(t, findCommand(app, name), name)
		}
	})

	t.Run("target is required for single-target commands", func(t *testing.T) {
		for _, name := range []string{"similar", "complement", "relationships", "neighbours"} {
			flag := findStringFlag(findCommand(app, name).Flags, "target")
			require.NotNil(t, flag, name)
			assert.True(t, flag.Required, name)
		}
	})
}

func TestSetupLogger_Invalid(t *testing.T) {
	path := writeCorpus(t)

	_, _, err := run(t, "--log-level", "loud", "conflicts", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")

	_, _, err = run(t, "--format", "yaml", "conflicts", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestLoadDocuments(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		docs, err := loadDocuments(writeCorpus(t), nil)
		require.NoError(t, err)
		require.Len(t, docs, 4)
		assert.Equal(t, "setup", docs[0].DocID())
	})

	t.Run("wrapped object from stdin", func(t *testing.T) {
		input := strings.NewReader(`{"documents": [{"source_type": "git", "source_title": "README", "text": "hello"}]}`)
		docs, err := loadDocuments("-", input)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "git:README", docs[0].DocID())
	})

	t.Run("invalid document", func(t *testing.T) {
		_, err := loadDocuments("-", strings.NewReader(`[{"id": "empty", "text": "  "}]`))
		assert.ErrorIs(t, err, core.ErrEmptyContent)
		assert.Contains(t, err.Error(), "document 0")
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := loadDocuments("-", strings.NewReader(`[{"id": `))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse documents")
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := loadDocuments("", nil)
		assert.Error(t, err)

		_, err = loadDocuments(filepath.Join(t.TempDir(), "missing.json"), nil)
		assert.Error(t, err)
	})
}

func TestConflictsCommand_JSON(t *testing.T) {
	stdout, _, err := run(t, "--format", "json", "conflicts", writeCorpus(t))
	require.NoError(t, err)

	var analysis core.ConflictAnalysis
	require.NoError(t, json.Unmarshal([]byte(stdout), &analysis))
	require.Len(t, analysis.Pairs, 1)
	assert.Equal(t, core.ConflictVersion, analysis.Pairs[0].Kind)
	assert.False(t, analysis.Pairs[0].LLMValidated)
}

func TestAnalyzeCommand_Text(t *testing.T) {
	stdout, stderr, err := run(t, "--verbose", "analyze", writeCorpus(t))
	require.NoError(t, err)

	assert.Contains(t, stdout, "(full)")
	assert.Contains(t, stdout, "Similarity")
	assert.Contains(t, stdout, "Clusters")
	assert.Contains(t, stdout, "Conflicts (1 of")

	assert.Contains(t, stderr, "start")
	assert.Contains(t, stderr, "4 documents")
	assert.Contains(t, stderr, "finish")
}

func TestAnalyzeCommand_PairBudget(t *testing.T) {
	stdout, _, err := run(t, "--format", "json", "--max-pairs", "2", "analyze", writeCorpus(t))
	require.NoError(t, err)

	var report core.AnalysisReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, 2, report.PairsEvaluated)
	assert.True(t, report.Truncated)
	assert.Contains(t, report.TruncationReason, "pair budget exhausted")
}

func TestSingleTargetCommands(t *testing.T) {
	path := writeCorpus(t)

	t.Run("similar", func(t *testing.T) {
		stdout, _, err := run(t, "similar", "--target", "setup", "--limit", "2", path)
		require.NoError(t, err)
		assert.Contains(t, stdout, "Similar to setup (2)")
		assert.Contains(t, stdout, "1. readme")
	})

	t.Run("complement", func(t *testing.T) {
		stdout, _, err := run(t, "--format", "json", "complement", "--target", "setup", path)
		require.NoError(t, err)
		var ranked []core.RankedDocument
		require.NoError(t, json.Unmarshal([]byte(stdout), &ranked))
		assert.LessOrEqual(t, len(ranked), 3)
	})

	t.Run("relationships", func(t *testing.T) {
		stdout, _, err := run(t, "relationships", "--target", "setup", "--type", "cross_reference", path)
		require.NoError(t, err)
		assert.Contains(t, stdout, "Relationships of setup")
		assert.Contains(t, stdout, "onboarding")
	})

	t.Run("unknown target", func(t *testing.T) {
		_, _, err := run(t, "similar", "--target", "nope", path)
		assert.Error(t, err)
	})

	t.Run("unknown relationship type", func(t *testing.T) {
		_, _, err := run(t, "relationships", "--target", "setup", "--type", "cousin", path)
		assert.ErrorIs(t, err, core.ErrUnknownValue)
	})
}

func TestClusterCommand(t *testing.T) {
	path := writeCorpus(t)

	stdout, _, err := run(t, "cluster", "--strategy", "topic-based", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "topic_based")

	_, _, err = run(t, "cluster", "--strategy", "astrology", path)
	assert.ErrorIs(t, err, core.ErrUnknownValue)
}

func TestIndexCommand_RequiresLLM(t *testing.T) {
	_, _, err := run(t, "index", writeCorpus(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--llm")
}

func TestConfigFile(t *testing.T) {
	path := writeCorpus(t)
	configPath := filepath.Join(t.TempDir(), "engine.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("max_pairs_total = 1\n"), 0644))

	stdout, _, err := run(t, "--format", "json", "--config", configPath, "analyze", path)
	require.NoError(t, err)
	var report core.AnalysisReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, 1, report.PairsEvaluated)

	t.Run("flag overrides file", func(t *testing.T) {
		stdout, _, err := run(t, "--format", "json", "--config", configPath, "--max-pairs", "3", "analyze", path)
		require.NoError(t, err)
		var report core.AnalysisReport
		require.NoError(t, json.Unmarshal([]byte(stdout), &report))
		assert.Equal(t, 3, report.PairsEvaluated)
	})

	t.Run("invalid file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(configPath, []byte("max_pairs_total = -1\n"), 0644))
		_, _, err := run(t, "--config", configPath, "analyze", path)
		assert.Error(t, err)
	})
}

func TestNeighboursCommand(t *testing.T) {
	_, _, err := run(t, "neighbours", "--target", "setup")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--db")

	db := filepath.Join(t.TempDir(), "store")
	_, _, err = run(t, "--db", db, "neighbours", "--target", "setup")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
