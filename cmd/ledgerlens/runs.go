package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Veraticus/ledgerlens/internal/analysis"
	"github.com/Veraticus/ledgerlens/internal/cli"
	"github.com/Veraticus/ledgerlens/internal/common"
)

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect saved analysis reports",
	}
	cmd.AddCommand(runsListCmd())
	cmd.AddCommand(runsShowCmd())
	cmd.AddCommand(runsDeleteCmd())
	return cmd
}

func runsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved reports, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			settings, err := loadSettings()
			if err != nil {
				return err
			}
			store, err := initStorage(cmd.Context(), settings)
			if err != nil {
				return err
			}
			defer closeStore(store)

			runs, err := store.ListReports(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to list reports: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				_, err := fmt.Fprintln(out, cli.FormatInfo("No saved reports"))
				return err
			}

			rows := make([][]string, 0, len(runs))
			for _, r := range runs {
				rows = append(rows, []string{
					r.ID,
					r.GeneratedAt.Format("2006-01-02 15:04"),
					r.Vertical,
					string(r.Mode),
					strconv.Itoa(r.Months),
					strconv.Itoa(r.Recommendations),
					fmt.Sprintf("$%.0f", r.ImpactMid),
				})
			}
			_, err = fmt.Fprintln(out, cli.RenderTable(
				[]string{"ID", "Generated", "Vertical", "Mode", "Months", "Recs", "Impact (mid)"},
				rows,
			))
			return err
		},
	}
	cmd.Flags().Int("limit", 20, "maximum number of reports to list")
	return cmd
}

func runsShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a saved report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")

			settings, err := loadSettings()
			if err != nil {
				return err
			}
			store, err := initStorage(cmd.Context(), settings)
			if err != nil {
				return err
			}
			defer closeStore(store)

			report, err := store.GetReport(cmd.Context(), args[0])
			if errors.Is(err, common.ErrNotFound) {
				return common.NewUserError("no saved report with id "+args[0], err)
			}
			if err != nil {
				return fmt.Errorf("failed to load report: %w", err)
			}

			out := cmd.OutOrStdout()
			switch output {
			case "json":
				return writeJSON(out, report)
			case "summary":
				_, err := fmt.Fprintln(out, analysis.NewCLIFormatter().FormatSummary(report))
				return err
			case "full":
				formatter := analysis.NewCLIFormatter()
				if _, err := fmt.Fprintln(out, formatter.FormatSummary(report)); err != nil {
					return err
				}
				for _, rec := range report.Recommendations {
					if _, err := fmt.Fprintln(out, "\n"+formatter.FormatRecommendation(rec)); err != nil {
						return err
					}
				}
				return nil
			default:
				return common.NewUserError(fmt.Sprintf("invalid output format %q (valid options: summary, full, json)", output), nil)
			}
		},
	}
	cmd.Flags().StringP("output", "o", "summary", "output format (summary, full, json)")
	return cmd
}

func runsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a saved report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			store, err := initStorage(cmd.Context(), settings)
			if err != nil {
				return err
			}
			defer closeStore(store)

			if err := store.DeleteReport(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError("no saved report with id "+args[0], err)
				}
				return fmt.Errorf("failed to delete report: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted report "+args[0]))
			return err
		},
	}
}
