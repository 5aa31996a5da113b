package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/skyops/nightplan/app"
	"github.com/skyops/nightplan/config"
	"github.com/skyops/nightplan/core/catalog"
	"github.com/skyops/nightplan/core/model"
	"github.com/skyops/nightplan/infra/logger"
	"github.com/skyops/nightplan/pkg/export"
)

var (
	planDate   string
	planSearch string
	planTypes  []string
	planMaxMag float64
	planOut    string
	planFormat string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute the observation schedule for a night",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planDate, "date", "", "night to plan, YYYY-MM-DD (default: today)")
	planCmd.Flags().StringVar(&planSearch, "search", "", "substring filter on target id or name")
	planCmd.Flags().StringSliceVar(&planTypes, "types", nil, "object types to include")
	planCmd.Flags().Float64Var(&planMaxMag, "max-magnitude", 0, "drop targets fainter than this magnitude")
	planCmd.Flags().StringVarP(&planOut, "output", "o", "", "write the plan to a file instead of stdout only")
	planCmd.Flags().StringVar(&planFormat, "format", "json", "export format: json or csv")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	date := time.Now()
	if planDate != "" {
		date, err = time.Parse("2006-01-02", planDate)
		if err != nil {
			return fmt.Errorf("parse date: %w", err)
		}
	}

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	sched, stats, err := svc.Run(ctx, date, catalog.Filter{
		Search:          planSearch,
		Types:           planTypes,
		MaxMagnitude:    planMaxMag,
		ExcludeStatuses: []model.CaptureStatus{model.StatusComplete},
	})
	if err != nil {
		return err
	}

	printPlan(cmd, sched, stats)
	if planOut != "" {
		if err := exportPlan(planOut, planFormat, sched); err != nil {
			return fmt.Errorf("export plan: %w", err)
		}
	}
	return nil
}

func exportPlan(path, format string, sched model.Schedule) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	switch format {
	case "json":
		return export.WriteJSON(f, sched)
	case "csv":
		return export.WriteCSV(f, sched)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func printPlan(cmd *cobra.Command, sched model.Schedule, stats model.GapFillStats) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "session %s -> %s (%d entries)\n",
		sched.Window.Dusk.Format("15:04"), sched.Window.Dawn.Format("15:04"), len(sched.Entries))
	for _, e := range sched.Entries {
		tag := ""
		if e.Origin == model.OriginGapFiller {
			tag = " [gap]"
		}
		fmt.Fprintf(out, "  %s - %s  %-12s score %.2f%s\n",
			e.Start.Format("15:04"), e.End.Format("15:04"), e.Target.ID, e.Score, tag)
	}
	fmt.Fprintf(out, "gaps: %d found, %d filled (%.0f of %.0f idle minutes)\n",
		stats.GapsFound, stats.GapsFilled, stats.FilledMinutes, stats.TotalMinutes)
	for _, r := range stats.UnfilledReasons {
		fmt.Fprintf(out, "  unfilled: %s\n", r)
	}
}
