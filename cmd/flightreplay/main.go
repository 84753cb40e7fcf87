// Command flightreplay replays recorded server responses against a recorded
// router state, and inspects the mismatch reports a reducer stored.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	router "github.com/conveyGhost/next.js"
	"github.com/conveyGhost/next.js/persist/file"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type step struct {
	Index         int         `json:"index"`
	CanonicalURL  string      `json:"canonicalUrl"`
	NextURL       string      `json:"nextUrl"`
	MPANavigation bool        `json:"mpaNavigation"`
	PendingPush   bool        `json:"pendingPush"`
	Fingerprint   string      `json:"fingerprint"`
	Tree          interface{} `json:"tree"`
	Changes       []string    `json:"changes,omitempty"`
}

func main() {
	var (
		level      = envOr("FLIGHTREPLAY_LOG_LEVEL", "info")
		out        = envOr("FLIGHTREPLAY_OUT", "text")
		reportsDir = envOr("FLIGHTREPLAY_REPORTS", "")
		logger     *zap.Logger
	)

	root := &cobra.Command{
		Use:           "flightreplay",
		Short:         "Replay server patches against a router state",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, err = buildLogger(level)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&level, "log-level", level, "debug|info|warn|error (env FLIGHTREPLAY_LOG_LEVEL)")
	root.PersistentFlags().StringVar(&out, "out", out, "Output format: json|text (env FLIGHTREPLAY_OUT)")
	root.PersistentFlags().StringVar(&reportsDir, "reports", reportsDir, "Directory mismatch reports are stored in (env FLIGHTREPLAY_REPORTS)")

	var showMetrics bool
	replayCmd := &cobra.Command{
		Use:   "replay FIXTURE",
		Short: "Apply the fixture's responses in order and print each resulting state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFixture(args[0])
			if err != nil {
				return err
			}
			state, err := f.state()
			if err != nil {
				return err
			}
			registry := prometheus.NewRegistry()
			cfg := router.Config{Logger: logger, Registerer: registry}
			if reportsDir != "" {
				p, err := file.NewPersistForPath(reportsDir)
				if err != nil {
					return err
				}
				cfg.Reports = p
			}
			reducer, err := router.NewReducer(cfg)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			for i, r := range f.Responses {
				resp, err := r.serverResponse()
				if err != nil {
					return fmt.Errorf("response %d: %w", i, err)
				}
				next := reducer.Reduce(ctx, state, router.ServerPatchAction{ServerResponse: resp})
				s, err := newStep(i, reducer, state, next)
				if err != nil {
					return fmt.Errorf("response %d: %w", i, err)
				}
				if err := printStep(out, s, next); err != nil {
					return err
				}
				if next.PushRef.MPANavigation {
					break
				}
				state = next
			}
			if showMetrics {
				return printMetrics(registry)
			}
			return nil
		},
	}
	replayCmd.Flags().BoolVar(&showMetrics, "metrics", false, "Print reducer metrics after the replay")

	fingerprintCmd := &cobra.Command{
		Use:   "fingerprint FIXTURE",
		Short: "Print the fingerprint of the fixture's tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFixture(args[0])
			if err != nil {
				return err
			}
			tree, err := f.routeTree()
			if err != nil {
				return err
			}
			fmt.Println(router.NewFingerprinter(nil).Fingerprint(tree))
			return nil
		},
	}

	headerCmd := &cobra.Command{
		Use:   "header FIXTURE",
		Short: "Print the router state header a request from the fixture's page would carry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFixture(args[0])
			if err != nil {
				return err
			}
			tree, err := f.routeTree()
			if err != nil {
				return err
			}
			h, err := router.PrepareRouterStateForRequest(tree)
			if err != nil {
				return err
			}
			fmt.Println(h)
			return nil
		},
	}

	reportsCmd := &cobra.Command{
		Use:   "reports",
		Short: "Inspect stored mismatch reports",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := root.PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			if reportsDir == "" {
				return fmt.Errorf("--reports is required")
			}
			return nil
		},
	}
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := file.NewPersistForPath(reportsDir)
			if err != nil {
				return err
			}
			names, err := p.Names()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
	showCmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Print a stored report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := file.NewPersistForPath(reportsDir)
			if err != nil {
				return err
			}
			report, err := router.LoadMismatchReport(cmd.Context(), p, args[0])
			if err != nil {
				return err
			}
			if out == "json" {
				return printJSON(report)
			}
			fmt.Printf("reason:      %s\n", report.Reason)
			fmt.Printf("url:         %s\n", report.CanonicalURL)
			fmt.Printf("path:        %s\n", report.Path)
			fmt.Printf("fingerprint: %s\n", report.Fingerprint)
			tree, err := report.RouteTree()
			if err != nil {
				return fmt.Errorf("tree: %w", err)
			}
			patch, err := report.FlightDataPath()
			if err != nil {
				return fmt.Errorf("patch: %w", err)
			}
			fmt.Printf("tree:\n%s", tree)
			fmt.Printf("patch:\n%s", patch.Tree)
			return nil
		},
	}
	reportsCmd.AddCommand(listCmd)
	reportsCmd.AddCommand(showCmd)

	root.AddCommand(replayCmd)
	root.AddCommand(fingerprintCmd)
	root.AddCommand(headerCmd)
	root.AddCommand(reportsCmd)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	zcfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	zcfg.DisableStacktrace = true
	return zcfg.Build()
}

func newStep(i int, reducer *router.Reducer, prev, next router.State) (step, error) {
	s := step{
		Index:         i,
		CanonicalURL:  next.CanonicalURL,
		NextURL:       next.NextURL,
		MPANavigation: next.PushRef.MPANavigation,
		PendingPush:   next.PushRef.PendingPush,
		Fingerprint:   reducer.Fingerprint(next.Tree),
		Tree:          router.EncodeRouterState(next.Tree),
	}
	err := router.DiffTrees(prev.Tree, next.Tree, func(c router.TreeChange) (bool, error) {
		s.Changes = append(s.Changes, c.String())
		return true, nil
	})
	if err != nil {
		return step{}, fmt.Errorf("diff: %w", err)
	}
	return s, nil
}

func printStep(out string, s step, state router.State) error {
	if out == "json" {
		return printJSON(s)
	}
	fmt.Printf("#%d %s", s.Index, s.CanonicalURL)
	if s.MPANavigation {
		fmt.Printf(" (full navigation, push=%v)\n", s.PendingPush)
		return nil
	}
	fmt.Printf(" next=%s fingerprint=%s\n", s.NextURL, s.Fingerprint)
	for _, c := range s.Changes {
		fmt.Printf("  %s\n", c)
	}
	fmt.Print(state.Tree)
	return nil
}

func printJSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func printMetrics(g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := ""
			for _, lp := range m.GetLabel() {
				labels += fmt.Sprintf("{%s=%q}", lp.GetName(), lp.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				fmt.Printf("%s%s %g\n", mf.GetName(), labels, m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				fmt.Printf("%s%s count=%d sum=%g\n", mf.GetName(), labels, h.GetSampleCount(), h.GetSampleSum())
			}
		}
	}
	return nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
