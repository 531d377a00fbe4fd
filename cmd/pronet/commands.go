package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/efebarandurmaz/pronet/internal/config"
	"github.com/efebarandurmaz/pronet/internal/graph/neo4j"
	"github.com/efebarandurmaz/pronet/internal/network"
	"github.com/efebarandurmaz/pronet/internal/observability"
	"github.com/efebarandurmaz/pronet/internal/pronet"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// app carries state shared by every subcommand.
type app struct {
	configPath  string
	networkPath string
	fromGraph   bool

	cfg    *config.Config
	tracer *observability.TracerProvider
	out    io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	rootCmd := &cobra.Command{
		Use:          "pronet",
		Short:        "Query a professional network of programmers",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.shutdown(cmd.Context())
		},
	}
	rootCmd.SetOut(out)
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file path")
	rootCmd.PersistentFlags().StringVar(&a.networkPath, "network", "", "Network file (.xml, .yaml, .json, .hcl)")
	rootCmd.PersistentFlags().BoolVar(&a.fromGraph, "from-graph", false, "Read the network from the configured graph store")

	skillsCmd := &cobra.Command{
		Use:   "skills PROGRAMMER",
		Short: "List a programmer's skills",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			skills, err := p.Skills(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.printList(skills)
			return nil
		},
	}

	recommendationsCmd := &cobra.Command{
		Use:   "recommendations PROGRAMMER",
		Short: "List whom a programmer recommends",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			recs, err := p.Recommendations(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.printList(recs)
			return nil
		},
	}

	rankCmd := &cobra.Command{
		Use:   "rank PROGRAMMER",
		Short: "Show a programmer's rank",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			score, err := p.Rank(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%.6f\n", score)
			return nil
		},
	}

	degreesCmd := &cobra.Command{
		Use:   "degrees PROGRAMMER1 PROGRAMMER2",
		Short: "Show the degrees of separation between two programmers",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			d, err := p.DegreesOfSeparation(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, d)
			return nil
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path PROGRAMMER1 PROGRAMMER2",
		Short: "Show a shortest chain of connections between two programmers",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			path, err := p.Path(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, strings.Join(path, " -> "))
			return nil
		},
	}

	strengthCmd := &cobra.Command{
		Use:   "strength SKILL MEMBER...",
		Short: "Score a team for a skill",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			s, err := p.TeamStrength(cmd.Context(), args[0], args[1:])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%.6f\n", s)
			return nil
		},
	}

	teamCmd := &cobra.Command{
		Use:   "team SKILL SIZE",
		Short: "Find the strongest team for a skill",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("team size %q is not a number", args[1])
			}
			p, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			members, err := p.FindStrongestTeam(cmd.Context(), args[0], size)
			if err != nil {
				return err
			}
			a.printList(members)
			return nil
		},
	}

	var (
		top      int
		jsonRank bool
	)
	leaderboardCmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "List programmers by rank",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			board := p.Leaderboard(cmd.Context())
			if top > 0 && top < len(board) {
				board = board[:top]
			}
			if jsonRank {
				return a.printJSON(board)
			}
			for i, e := range board {
				fmt.Fprintf(a.out, "%3d. %-12s %.6f\n", i+1, e.Name, e.Score)
			}
			return nil
		},
	}
	leaderboardCmd.Flags().IntVar(&top, "top", 0, "Show only the first N programmers")
	leaderboardCmd.Flags().BoolVar(&jsonRank, "json", false, "Output as JSON")

	var (
		reportSize int
		jsonReport bool
	)
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Find the strongest team for every skill",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			rows, err := buildReport(cmd.Context(), p, reportSize)
			if err != nil {
				return err
			}
			if jsonReport {
				return a.printJSON(rows)
			}
			for _, r := range rows {
				fmt.Fprintf(a.out, "%-10s %.4f  %s\n", r.Skill, r.Strength, strings.Join(r.Team, ", "))
			}
			return nil
		},
	}
	reportCmd.Flags().IntVar(&reportSize, "size", 3, "Team size")
	reportCmd.Flags().BoolVar(&jsonReport, "json", false, "Output as JSON")

	var (
		exportFormat string
		exportOutput string
	)
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the network as dot, mermaid, json or stats, or store it in neo4j",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			return a.export(cmd.Context(), p.Network(), exportFormat, exportOutput)
		},
	}
	exportCmd.Flags().StringVar(&exportFormat, "format", "dot", "Export format: dot, mermaid, json, stats, neo4j")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")

	rootCmd.AddCommand(skillsCmd, recommendationsCmd, rankCmd, degreesCmd, pathCmd,
		strengthCmd, teamCmd, leaderboardCmd, reportCmd, exportCmd)
	return rootCmd
}

func (a *app) setup(ctx context.Context) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	slog.SetDefault(newLogger(cfg.Log, os.Stderr))

	tp, err := observability.InitTracing(ctx, cfg.Tracing.Observability())
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
		return nil
	}
	a.tracer = tp
	return nil
}

func (a *app) shutdown(ctx context.Context) error {
	if a.tracer == nil {
		return nil
	}
	return a.tracer.Shutdown(ctx)
}

// open loads the network from the graph store or from a file. The --network
// flag wins over network.path.
func (a *app) open(ctx context.Context) (*pronet.ProNet, error) {
	opts := []pronet.Option{pronet.WithRankOptions(a.cfg.Rank.Options())}
	if a.tracer != nil {
		opts = append(opts, pronet.WithTracer(a.tracer.Tracer()))
	}

	if a.fromGraph {
		repo, err := a.graph(ctx)
		if err != nil {
			return nil, err
		}
		defer repo.Close(ctx)
		n, err := repo.LoadNetwork(ctx)
		if err != nil {
			return nil, err
		}
		slog.Debug("network loaded from graph store", "uri", a.cfg.Graph.URI, "programmers", n.Len())
		return pronet.New(n, opts...), nil
	}

	path := a.networkPath
	if path == "" {
		path = a.cfg.Network.Path
	}
	return pronet.Load(ctx, path, opts...)
}

func (a *app) graph(ctx context.Context) (*neo4j.Neo4jRepository, error) {
	if a.cfg.Graph.URI == "" {
		return nil, fmt.Errorf("graph.uri is not configured")
	}
	return neo4j.NewNeo4j(ctx, a.cfg.Graph.URI, a.cfg.Graph.Username, a.cfg.Graph.Password)
}

func (a *app) export(ctx context.Context, n *network.Network, format, output string) error {
	var data []byte
	switch format {
	case "dot":
		data = []byte(network.ExportDOT(n))
	case "mermaid":
		data = []byte(network.ExportMermaid(n))
	case "json":
		var err error
		data, err = network.ExportJSON(n)
		if err != nil {
			return err
		}
		data = append(data, '\n')
	case "stats":
		data = []byte(network.FormatStats(n))
	case "neo4j":
		repo, err := a.graph(ctx)
		if err != nil {
			return err
		}
		defer repo.Close(ctx)
		if err := repo.StoreNetwork(ctx, n); err != nil {
			return err
		}
		slog.Info("network stored", "uri", a.cfg.Graph.URI, "programmers", n.Len(), "recommendations", n.EdgeCount())
		fmt.Fprintf(a.out, "Stored %d programmers and %d recommendations\n", n.Len(), n.EdgeCount())
		return nil
	default:
		return fmt.Errorf("unknown export format %q (want dot, mermaid, json, stats or neo4j)", format)
	}

	if output == "" {
		_, err := a.out.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	fmt.Fprintf(a.out, "Wrote %s\n", output)
	return nil
}

// reportRow is the strongest team for one skill.
type reportRow struct {
	Skill    string   `json:"skill"`
	Team     []string `json:"team"`
	Strength float64  `json:"strength"`
}

// buildReport computes every skill's strongest team concurrently. Rows keep
// the network's skill order.
func buildReport(ctx context.Context, p *pronet.ProNet, size int) ([]reportRow, error) {
	skills := p.Network().SkillNames()
	rows := make([]reportRow, len(skills))

	g, ctx := errgroup.WithContext(ctx)
	for i, skill := range skills {
		g.Go(func() error {
			members, err := p.FindStrongestTeam(ctx, skill, size)
			if err != nil {
				return fmt.Errorf("skill %s: %w", skill, err)
			}
			strength, err := p.TeamStrength(ctx, skill, members)
			if err != nil {
				return fmt.Errorf("skill %s: %w", skill, err)
			}
			rows[i] = reportRow{Skill: skill, Team: members, Strength: strength}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

func (a *app) printList(items []string) {
	for _, item := range items {
		fmt.Fprintln(a.out, item)
	}
}

func (a *app) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, string(data))
	return nil
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
