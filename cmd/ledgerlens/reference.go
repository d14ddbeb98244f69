package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/ledgerlens/internal/cli"
)

func benchmarksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "benchmarks",
		Short: "Show the benchmark table for a vertical",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			verticalID, referencePath := settings.Vertical, settings.ReferencePath
			if cmd.Flags().Changed("vertical") {
				verticalID, _ = cmd.Flags().GetString("vertical")
			}
			if cmd.Flags().Changed("reference") {
				referencePath, _ = cmd.Flags().GetString("reference")
			}

			vertical, err := loadVertical(verticalID, referencePath)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, vertical.Benchmarks.Len())
			for _, b := range vertical.Benchmarks.All() {
				kind := "published"
				if b.IsAssumption() {
					kind = "assumption"
				}
				rows = append(rows, []string{
					b.MetricID,
					strconv.FormatFloat(b.Value, 'f', -1, 64),
					b.Unit,
					fmt.Sprintf("%.2f", b.Confidence),
					kind,
					b.Source,
				})
			}

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintln(out, cli.FormatTitle(cli.ChartIcon+" Benchmarks: "+vertical.Name)); err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, cli.RenderTable(
				[]string{"Metric", "Value", "Unit", "Confidence", "Kind", "Source"},
				rows,
			))
			return err
		},
	}
	cmd.Flags().String("vertical", "", "industry vertical")
	cmd.Flags().String("reference", "", "YAML reference file")
	return cmd
}

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the initiatives that can be recommended",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			referencePath := settings.ReferencePath
			if cmd.Flags().Changed("reference") {
				referencePath, _ = cmd.Flags().GetString("reference")
			}

			vertical, err := loadVertical(settings.Vertical, referencePath)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(vertical.Initiatives))
			for _, ini := range vertical.Initiatives {
				packs := make([]string, 0, len(ini.Eligibility.RequiresData))
				for _, p := range ini.Eligibility.RequiresData {
					packs = append(packs, string(p))
				}
				requires := strings.Join(packs, ",")
				if requires == "" {
					requires = "-"
				}
				rows = append(rows, []string{
					ini.ID,
					ini.Title,
					string(ini.Type),
					strconv.Itoa(ini.Eligibility.MinMonths),
					requires,
				})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderTable(
				[]string{"ID", "Title", "Type", "Min months", "Requires"},
				rows,
			))
			return err
		},
	}
	cmd.Flags().String("reference", "", "YAML reference file")
	return cmd
}
