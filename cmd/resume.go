package cmd

import (
	"fmt"
	"os"

	"github.com/khrees2412/jobdash/internal/app"
	"github.com/spf13/cobra"
)

// prepareResume loads the resume named by --resume and, when args holds a job
// number, selects that job from the last search
func prepareResume(cmd *cobra.Command, args []string) (*app.App, error) {
	a, err := appFrom(cmd)
	if err != nil {
		return nil, err
	}
	path, _ := cmd.Flags().GetString("resume")
	resume, err := readResume(path, cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	a.Dashboard.SetResume(resume)

	if len(args) > 0 {
		i, err := jobIndex(args[0], len(a.Dashboard.Snapshot().Jobs))
		if err != nil {
			return nil, err
		}
		if err := a.Dashboard.SelectJob(i); err != nil {
			return nil, err
		}
	}
	return a, nil
}

var analyzeCmd = &cobra.Command{
	Use:     "analyze <n>",
	Short:   "Score your resume against a job from the last search",
	Args:    cobra.ExactArgs(1),
	Example: `  jobdash analyze 2 --resume resume.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := prepareResume(cmd, args)
		if err != nil {
			return err
		}
		res, err := a.Dashboard.Analyze(cmd.Context())
		if err != nil {
			return err
		}
		printAnalysis(cmd.OutOrStdout(), res)
		return nil
	},
}

var optimizeCmd = &cobra.Command{
	Use:   "optimize <n>",
	Short: "Rewrite your resume for a job from the last search",
	Long: `Analyze the resume against the job, then ask the backend for an optimized
version and report the score before and after.`,
	Args:    cobra.ExactArgs(1),
	Example: `  jobdash optimize 2 --resume resume.txt --out resume-acme.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := prepareResume(cmd, args)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Analyzing resume...")
		if _, err := a.Dashboard.Analyze(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(out, "Optimizing resume...")
		res, err := a.Dashboard.Optimize(cmd.Context())
		if err != nil {
			return err
		}
		printOptimization(out, res)
		return writeOut(cmd, res.OptimizedResume)
	},
}

var matchCmd = &cobra.Command{
	Use:     "match",
	Short:   "Score your resume against every job from the last search",
	Example: `  jobdash match --resume resume.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := prepareResume(cmd, nil)
		if err != nil {
			return err
		}
		if _, err := a.Dashboard.MatchAll(cmd.Context()); err != nil {
			return err
		}
		printMatches(cmd.OutOrStdout(), a.Dashboard.Snapshot().Jobs)
		return nil
	},
}

var coverLetterCmd = &cobra.Command{
	Use:   "cover-letter <n>",
	Short: "Generate a cover letter for a job from the last search",
	Args:  cobra.ExactArgs(1),
	Example: `  jobdash cover-letter 1 --resume resume.txt
  jobdash cover-letter 3 --resume - --out letter.txt < resume.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := prepareResume(cmd, args)
		if err != nil {
			return err
		}
		job, _ := a.Dashboard.Snapshot().SelectedJob()
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Generating cover letter...")
		fmt.Fprintf(out, "Job: %s at %s\n", job.Title, job.Company)

		letter, err := a.Dashboard.GenerateCoverLetter(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(out, titleStyle.Render("Generated Cover Letter"))
		fmt.Fprintln(out, letter)
		return writeOut(cmd, letter)
	},
}

// writeOut saves text to the file named by --out, if any
func writeOut(cmd *cobra.Command, text string) error {
	path, _ := cmd.Flags().GetString("out")
	if path == "" {
		return nil
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("save output: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Saved to %s\n", path)
	return nil
}

func init() {
	for _, c := range []*cobra.Command{analyzeCmd, optimizeCmd, matchCmd, coverLetterCmd} {
		rootCmd.AddCommand(c)
		c.Flags().String("resume", "", "Resume text file, or - for stdin (required)")
	}
	optimizeCmd.Flags().String("out", "", "Write the optimized resume to this file")
	coverLetterCmd.Flags().String("out", "", "Write the cover letter to this file")
}
