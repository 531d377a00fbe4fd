package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/efebarandurmaz/pronet/internal/config"
	"github.com/efebarandurmaz/pronet/internal/network"
	"github.com/efebarandurmaz/pronet/internal/pronet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixture = filepath.Join("..", "..", "testdata", "pronet.xml")

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--network", fixture}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"skills", "Bill"}, "Ruby\nPerl\nPHP\n"},
		{[]string{"recommendations", "Ed"}, "Liz\nRick\nBill\n"},
		{[]string{"degrees", "Jill", "Rick"}, "3\n"},
		{[]string{"path", "Jill", "Rick"}, "Jill -> Bill -> Ed -> Rick\n"},
		{[]string{"team", "Java", "3"}, "Nick\nJason\nDave\n"},
		{[]string{"rank", "Jill"}, "0.150000\n"},
		{[]string{"strength", "Java", "Harry"}, "0.000000\n"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, "_"), func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestCommands_Errors(t *testing.T) {
	_, err := run(t, "skills", "Ghost")
	assert.ErrorIs(t, err, network.ErrProgrammerNotFound)

	_, err = run(t, "team", "Java", "zero")
	assert.Error(t, err)

	_, err = run(t, "team", "Java", "0")
	assert.EqualError(t, err, "team size must be greater than zero")

	_, err = run(t, "export", "--format", "svg")
	assert.Error(t, err)

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--network", filepath.Join(t.TempDir(), "missing.xml"), "skills", "Bill"})
	err = cmd.Execute()
	assert.ErrorContains(t, err, "was not found")
}

func TestLeaderboardJSON(t *testing.T) {
	out, err := run(t, "leaderboard", "--json", "--top", "2")
	require.NoError(t, err)

	var rows []struct {
		Name  string  `json:"name"`
		Score float64 `json:"score"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Nick", rows[0].Name)
	assert.Equal(t, "Jason", rows[1].Name)
}

func TestReport(t *testing.T) {
	out, err := run(t, "report", "--json", "--size", "2")
	require.NoError(t, err)

	var rows []reportRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))

	p, err := pronet.Load(context.Background(), fixture)
	require.NoError(t, err)
	skills := p.Network().SkillNames()
	require.Len(t, rows, len(skills))
	for i, row := range rows {
		assert.Equal(t, skills[i], row.Skill)
		assert.LessOrEqual(t, len(row.Team), 2)
		assert.NotEmpty(t, row.Team)
		assert.Greater(t, row.Strength, 0.0)
		assert.LessOrEqual(t, row.Strength, 1.0)
	}
}

func TestExport(t *testing.T) {
	out, err := run(t, "export", "--format", "dot")
	require.NoError(t, err)
	assert.Contains(t, out, `"Jill" -> "Bill";`)

	path := filepath.Join(t.TempDir(), "network.json")
	out, err = run(t, "export", "--format", "json", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	_, err = run(t, "export", "--format", "neo4j")
	assert.ErrorContains(t, err, "graph.uri")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
