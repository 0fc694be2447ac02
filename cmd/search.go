package cmd

import (
	"fmt"

	"github.com/khrees2412/jobdash/pkg/models"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for jobs",
	Long: `Search job listings through the backend. Results and the search itself are
saved locally and can be viewed again with 'jobdash jobs list'.`,
	Example: `  jobdash search --role "software engineer" --location remote
  jobdash search --role backend --level senior --last24`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}

		role, _ := cmd.Flags().GetString("role")
		location, _ := cmd.Flags().GetString("location")
		level, _ := cmd.Flags().GetString("level")
		last24, _ := cmd.Flags().GetBool("last24")

		criteria := models.SearchCriteria{Role: role, Location: location, ExperienceLevel: level, Last24: last24}
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "Searching for jobs: '%s'", criteria.Normalized().Role)
		if criteria.Location != "" {
			fmt.Fprintf(out, " in %s", criteria.Normalized().Location)
		}
		fmt.Fprintln(out)

		jobs, err := a.Dashboard.Search(cmd.Context(), criteria)
		if err != nil {
			return err
		}

		if len(jobs) == 0 {
			fmt.Fprintln(out, "No jobs found matching your criteria.")
			return nil
		}

		fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Found %d jobs", len(jobs))))
		printJobs(out, jobs, -1)
		fmt.Fprintln(out, mutedStyle.Render("\nShow a job with 'jobdash jobs show <n>'"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().String("role", "", "Job title or keywords (required)")
	searchCmd.Flags().String("location", "", "Job location")
	searchCmd.Flags().String("level", "", "Experience level (entry, mid, senior)")
	searchCmd.Flags().Bool("last24", false, "Only jobs posted in the last 24 hours")
}
