package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/arnold/healthgoals-api/internal/services"
	"github.com/spf13/cobra"
)

func biomarkersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "biomarkers",
		Short: "List biomarkers that need attention",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printBiomarkers(cmd.OutOrStdout())
		},
	}
}

func planCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan <biomarker>",
		Short: "Show the action plan generated for a biomarker",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printPlan(cmd.OutOrStdout(), strings.Join(args, " "))
		},
	}
}

func progressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress <initial> <current> <target>",
		Short: "Compute goal progress for three measurements",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make([]float64, len(args))
			for i, arg := range args {
				v, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return fmt.Errorf("%q is not a number", arg)
				}
				values[i] = v
			}
			report := services.ProgressReport(values[0], values[1], values[2])
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%d%% (%s)\n", report.Progress, report.Phase)
			return err
		},
	}
}

func printBiomarkers(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCURRENT\tOPTIMAL\tSTATUS")
	for _, b := range services.BiomarkersNeedingAttention() {
		fmt.Fprintf(tw, "%s\t%g %s\t%s\t%s\n", b.Name, b.Current, b.Unit, b.OptimalRange, b.Status)
	}
	return tw.Flush()
}

func printPlan(w io.Writer, name string) error {
	if b, ok := services.FindBiomarker(name); ok {
		name = b.Name
	}
	plan := services.GenerateActionPlan(name)
	if len(plan) == 0 {
		_, err := fmt.Fprintf(w, "No action plan for %q\n", name)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tTITLE\tDESCRIPTION")
	for _, item := range plan {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", item.ID, item.Category, item.Title, item.Description)
	}
	return tw.Flush()
}
