package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/khrees2412/jobdash/internal/api"
	"github.com/khrees2412/jobdash/internal/app"
	"github.com/spf13/cobra"
)

// application is set once PersistentPreRunE has built it so Execute can close it
var application *app.App

var rootCmd = &cobra.Command{
	Use:   "jobdash",
	Short: "AI job search dashboard for the terminal",
	Long: `jobdash searches job listings, scores your resume against them, writes cover
letters and optimized resumes, and tracks your applications. All scoring and
generation is done by the jobdash backend.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize app with all dependencies
		a, err := app.NewApp(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}
		application = a

		// Store app in command context
		cmd.SetContext(app.WithApp(cmd.Context(), a))
		return nil
	},
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)

	if application != nil {
		application.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+api.Message(err)))
		stop()
		os.Exit(1)
	}
}

func appFrom(cmd *cobra.Command) (*app.App, error) {
	return app.FromContext(cmd.Context())
}
