package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "View the results of your last search",
}

var listJobsCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs from the last search",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		snap := a.Dashboard.Snapshot()
		out := cmd.OutOrStdout()

		if !snap.HasSearched {
			fmt.Fprintln(out, "Search to begin: jobdash search --role <role>")
			return nil
		}
		if len(snap.Jobs) == 0 {
			fmt.Fprintln(out, "No results for your last search.")
			return nil
		}

		title := fmt.Sprintf("%d jobs for '%s'", len(snap.Jobs), snap.Criteria.Role)
		if snap.Criteria.Location != "" {
			title += " in " + snap.Criteria.Location
		}
		fmt.Fprintln(out, titleStyle.Render(title))
		printJobs(out, snap.Jobs, -1)
		return nil
	},
}

var showJobCmd = &cobra.Command{
	Use:   "show <n>",
	Short: "Show one job from the last search",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		snap := a.Dashboard.Snapshot()
		i, err := jobIndex(args[0], len(snap.Jobs))
		if err != nil {
			return err
		}
		printJob(cmd.OutOrStdout(), snap.Jobs[i])
		return nil
	},
}

var clearJobsCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the last search",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		if err := a.Dashboard.ClearSearch(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear search: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Cleared the last search")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.AddCommand(listJobsCmd)
	jobsCmd.AddCommand(showJobCmd)
	jobsCmd.AddCommand(clearJobsCmd)
}
