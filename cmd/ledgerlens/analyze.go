package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Veraticus/ledgerlens/internal/analysis"
	"github.com/Veraticus/ledgerlens/internal/cli"
	"github.com/Veraticus/ledgerlens/internal/common"
	"github.com/Veraticus/ledgerlens/internal/config"
	"github.com/Veraticus/ledgerlens/internal/ingest"
	"github.com/Veraticus/ledgerlens/internal/llm"
	"github.com/Veraticus/ledgerlens/internal/scoring"
	"github.com/Veraticus/ledgerlens/internal/telemetry"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze financial data and rank improvement initiatives",
		Long: `Analyze monthly financial data and produce a ranked list of evidence-backed
recommendations.

Inputs are YAML/JSON dataset documents, CSV tables or OFX/QFX bank
statements. Prefix a path with a data pack to say what a CSV contains.

Examples:
  # A dataset document holding several packs
  ledgerlens analyze --input ~/books/2024.yaml

  # Separate P&L and labor exports
  ledgerlens analyze --input PNL=pnl.csv --input LABOR=payroll.csv

  # Deposits from the bank as revenue transactions
  ledgerlens analyze --input pnl.csv --input REVENUE=checking.qfx

  # Skip an initiative and favour another
  ledgerlens analyze --input pnl.csv --blacklist discount_audit --boost waste_tracking

  # Machine-readable output, stored for later
  ledgerlens analyze --input pnl.csv --output json --save`,
		RunE: runAnalyze,
	}

	cmd.Flags().StringArrayP("input", "i", nil, "input file as [PACK=]path (repeatable; earlier inputs take precedence)")
	cmd.Flags().String("vertical", "", "industry vertical for benchmarks (default from config: restaurant)")
	cmd.Flags().String("reference", "", "YAML file overriding benchmarks, catalog and signals")
	cmd.Flags().Int("max-recommendations", 0, "number of recommendations (0 = by analysis mode)")
	cmd.Flags().StringSlice("blacklist", nil, "initiative ids to exclude")
	cmd.Flags().StringSlice("boost", nil, "initiative ids to favour")
	cmd.Flags().Bool("no-pricing-control", false, "prices are set externally (franchise, contract)")
	cmd.Flags().StringP("output", "o", "summary", "output format (summary, json)")
	cmd.Flags().Bool("save", false, "store the report in the database")
	cmd.Flags().Bool("narrate", false, "append LLM-written summaries to each rationale")
	cmd.Flags().Bool("no-progress", false, "hide the progress bar")

	_ = cmd.MarkFlagRequired("input")
	return cmd
}

type analyzeFlags struct {
	inputs           []string
	blacklist        []string
	boosts           []string
	vertical         string
	reference        string
	output           string
	maxRecs          int
	noPricingControl bool
	save             bool
	narrate          bool
	noProgress       bool
}

func readAnalyzeFlags(cmd *cobra.Command, settings *config.Settings) analyzeFlags {
	f := analyzeFlags{
		vertical:  settings.Vertical,
		reference: settings.ReferencePath,
		maxRecs:   settings.MaxRecommendations,
	}
	f.inputs, _ = cmd.Flags().GetStringArray("input")
	blacklist, _ := cmd.Flags().GetStringSlice("blacklist")
	boosts, _ := cmd.Flags().GetStringSlice("boost")
	f.blacklist = splitList(blacklist)
	f.boosts = splitList(boosts)
	if cmd.Flags().Changed("vertical") {
		f.vertical, _ = cmd.Flags().GetString("vertical")
	}
	if cmd.Flags().Changed("reference") {
		f.reference, _ = cmd.Flags().GetString("reference")
	}
	if cmd.Flags().Changed("max-recommendations") {
		f.maxRecs, _ = cmd.Flags().GetInt("max-recommendations")
	}
	f.output, _ = cmd.Flags().GetString("output")
	f.noPricingControl, _ = cmd.Flags().GetBool("no-pricing-control")
	f.save, _ = cmd.Flags().GetBool("save")
	f.narrate, _ = cmd.Flags().GetBool("narrate")
	f.noProgress, _ = cmd.Flags().GetBool("no-progress")
	return f
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	flags := readAnalyzeFlags(cmd, settings)

	if flags.output != "summary" && flags.output != "json" {
		return common.NewUserError(fmt.Sprintf("invalid output format %q (valid options: summary, json)", flags.output), nil)
	}

	sources := make([]ingest.Source, 0, len(flags.inputs))
	for _, arg := range flags.inputs {
		src, err := ingest.ParseSource(arg)
		if err != nil {
			return common.NewUserError("invalid --input", err)
		}
		src.Path = config.ExpandPath(src.Path)
		sources = append(sources, src)
	}
	dataset, err := ingest.Load(sources...)
	if err != nil {
		return common.NewUserError("could not read input data", err)
	}

	vertical, err := loadVertical(flags.vertical, flags.reference)
	if err != nil {
		return err
	}

	registry := telemetry.NewRegistry()
	deps := analysis.Deps{Vertical: vertical, Observer: registry}
	if flags.narrate {
		narrator, err := newNarrator(settings, vertical.Name)
		if err != nil {
			return err
		}
		deps.Narrator = narrator
	}

	engine, err := analysis.NewEngine(deps)
	if err != nil {
		return fmt.Errorf("failed to create analysis engine: %w", err)
	}

	interruptHandler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Analysis canceled")
	ctx, stop := interruptHandler.HandleInterrupts(cmd.Context())
	defer stop()

	opts := analysis.Options{
		Dataset:            dataset,
		Blacklist:          flags.blacklist,
		Boosts:             flags.boosts,
		MaxRecommendations: flags.maxRecs,
		Narrate:            flags.narrate,
	}
	if flags.noPricingControl {
		opts.Constraints = scoring.Constraints{PricingControl: scoring.PricingNoControl}
	}
	if !flags.noProgress {
		opts.Progress = newProgressReporter(cmd.ErrOrStderr())
	}

	report, err := engine.Analyze(ctx, opts)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("analysis failed: %w", err)
	}

	if settings.TelemetryTextfile != "" {
		if err := registry.WriteTextfile(settings.TelemetryTextfile); err != nil {
			slog.Warn("Failed to write telemetry", "path", settings.TelemetryTextfile, "error", err)
		}
	}

	if flags.save {
		if err := saveReport(ctx, settings, report); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	switch flags.output {
	case "json":
		return writeJSON(out, report)
	default:
		formatter := analysis.NewCLIFormatter()
		if _, err := fmt.Fprintln(out, formatter.FormatSummary(report)); err != nil {
			return err
		}
		if flags.save {
			_, err := fmt.Fprintln(out, "\n"+cli.FormatSuccess("Saved report "+report.ID))
			return err
		}
		return nil
	}
}

func newNarrator(settings *config.Settings, verticalName string) (analysis.Narrator, error) {
	if !settings.NarrationEnabled() {
		return nil, common.NewUserError("--narrate needs llm.provider set to openai or anthropic", common.ErrMissingConfig)
	}
	writer, err := llm.NewWriter(settings.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM writer: %w", err)
	}
	return analysis.NewLLMNarrator(writer, verticalName)
}

func saveReport(ctx context.Context, settings *config.Settings, report *analysis.Report) error {
	store, err := initStorage(ctx, settings)
	if err != nil {
		return err
	}
	defer closeStore(store)

	if err := store.SaveReport(ctx, report); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	common.LogInfo("Saved report", common.Fields{
		"id":              report.ID,
		"path":            store.Path(),
		"recommendations": len(report.Recommendations),
	})
	return nil
}

// newProgressReporter draws stage progress on w.
func newProgressReporter(w io.Writer) analysis.ProgressFunc {
	if w == nil {
		w = os.Stderr
	}
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Analyzing...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionClearOnFinish(),
	)
	return func(stage string, percent int) {
		bar.Describe(fmt.Sprintf("[cyan][bold]%-28s[reset]", stage))
		if err := bar.Set(percent); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}
}
