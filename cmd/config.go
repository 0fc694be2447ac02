package cmd

import (
	"fmt"

	"github.com/ecodeclub/ekit/slice"
	"github.com/khrees2412/jobdash/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  "View and update configuration settings",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		cfg := config.AppConfig
		fmt.Fprintln(out, titleStyle.Render("Configuration"))
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Config File:"), config.GetConfigPath())
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("API Base URL:"), cfg.APIBaseURL)
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Request Timeout:"), cfg.RequestTimeout)
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Log Level:"), cfg.LogLevel)
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Data Dir:"), cfg.DataDir)
	},
}

var setConfigCmd = &cobra.Command{
	Use:   "set",
	Short: "Update a configuration value",
	Example: `  jobdash config set --key api_base_url --value https://jobs.example.com
  jobdash config set --key request_timeout --value 90s
  jobdash config set --key log_level --value debug`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetString("key")
		value, _ := cmd.Flags().GetString("value")

		if key == "" || value == "" {
			return fmt.Errorf("both --key and --value are required")
		}

		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("update config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Configuration updated: %s\n", key)

		// Reload config
		if err := config.Initialize(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: Could not reload config: %v\n", err)
		}
		return nil
	},
}

var getConfigCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !slice.Contains(config.ValidKeys, args[0]) {
			return fmt.Errorf("unknown key %q (valid: %v)", args[0], config.ValidKeys)
		}
		fmt.Fprintln(cmd.OutOrStdout(), config.Get(args[0]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(setConfigCmd)
	configCmd.AddCommand(getConfigCmd)

	// Flags for set command
	setConfigCmd.Flags().String("key", "", "Configuration key ("+fmt.Sprint(config.ValidKeys)+")")
	setConfigCmd.Flags().String("value", "", "Configuration value")
}
