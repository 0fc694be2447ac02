package cmd

import (
	"fmt"

	"github.com/ecodeclub/ekit/slice"
	"github.com/khrees2412/jobdash/internal/dashboard"
	"github.com/khrees2412/jobdash/pkg/models"
	"github.com/spf13/cobra"
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Track your applications",
	Long:  "Record jobs you applied to and follow their status. Requires 'jobdash auth login'.",
}

var trackAddCmd = &cobra.Command{
	Use:   "add <n>",
	Short: "Track a job from the last search as applied",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		return a.RequireAuth(func() error {
			snap := a.Dashboard.Snapshot()
			i, err := jobIndex(args[0], len(snap.Jobs))
			if err != nil {
				return err
			}
			job := snap.Jobs[i]

			tracked, err := a.Tracker.Track(cmd.Context(), job)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Tracking %s at %s (id %s, %s)\n", tracked.Title, tracked.Company, tracked.ID, statusBadge(tracked.Status))
			if job.ApplyLink != "" {
				fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Apply:"), job.ApplyLink)
			}
			return nil
		})
	},
}

var trackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		return a.RequireAuth(func() error {
			filter, _ := cmd.Flags().GetString("status")
			jobs, err := a.Tracker.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			if filter != "" {
				status, err := models.ParseStatus(filter)
				if err != nil {
					return err
				}
				jobs = filterByStatus(jobs, status)
			}
			printTracked(cmd.OutOrStdout(), jobs)
			return nil
		})
	},
}

var trackUpdateCmd = &cobra.Command{
	Use:     "update <id>",
	Short:   "Change the status of a tracked job",
	Args:    cobra.ExactArgs(1),
	Example: `  jobdash track update 12 --status interview`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		return a.RequireAuth(func() error {
			raw, _ := cmd.Flags().GetString("status")
			status, err := models.ParseStatus(raw)
			if err != nil {
				return err
			}
			updated, err := a.Tracker.UpdateStatus(cmd.Context(), args[0], status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Job %s is now %s\n", args[0], statusBadge(updated.Status))
			return nil
		})
	},
}

var trackStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "View application statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		return a.RequireAuth(func() error {
			jobs, err := a.Tracker.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), dashboard.Summarize(jobs))
			return nil
		})
	},
}

func filterByStatus(jobs []models.TrackedJob, status models.Status) []models.TrackedJob {
	return slice.FilterMap(jobs, func(_ int, j models.TrackedJob) (models.TrackedJob, bool) {
		return j, j.Status == status
	})
}

func init() {
	rootCmd.AddCommand(trackCmd)
	trackCmd.AddCommand(trackAddCmd)
	trackCmd.AddCommand(trackListCmd)
	trackCmd.AddCommand(trackUpdateCmd)
	trackCmd.AddCommand(trackStatsCmd)

	trackListCmd.Flags().String("status", "", "Only show jobs with this status")
	trackUpdateCmd.Flags().String("status", "", "New status (Applied, Interview, Rejected, Offer)")
	_ = trackUpdateCmd.MarkFlagRequired("status")
}
