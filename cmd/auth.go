package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage your jobdash account",
	Long:  "Register, log in and out of the jobdash backend",
}

var registerCmd = &cobra.Command{
	Use:     "register",
	Short:   "Create an account",
	Example: `  jobdash auth register --email you@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		email, password, err := credentialsFrom(cmd, true)
		if err != nil {
			return err
		}

		msg, err := a.Register(cmd.Context(), email, password)
		if err != nil {
			return err
		}
		if msg == "" {
			msg = "Account created"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s. Log in with 'jobdash auth login --email %s'\n", msg, email)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:     "login",
	Short:   "Log in and store the session token",
	Example: `  jobdash auth login --email you@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		email, password, err := credentialsFrom(cmd, false)
		if err != nil {
			return err
		}

		if err := a.Login(cmd.Context(), email, password); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged in as %s\n", email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		if err := a.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		if !a.Session.IsAuthenticated() {
			fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", labelStyle.Render("Logged in as:"), a.Session.Email())
		return nil
	},
}

// credentialsFrom reads --email and --password, prompting on stdin for
// anything missing. confirm asks for the password twice.
func credentialsFrom(cmd *cobra.Command, confirm bool) (string, string, error) {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	reader := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()
	if email == "" {
		email = prompt(reader, out, "Email")
	}
	if password == "" {
		password = prompt(reader, out, "Password")
		if confirm && prompt(reader, out, "Confirm password") != password {
			return "", "", fmt.Errorf("passwords do not match")
		}
	}
	return strings.TrimSpace(email), password, nil
}

func prompt(reader *bufio.Reader, out io.Writer, label string) string {
	fmt.Fprintf(out, "%s: ", label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(whoamiCmd)

	for _, c := range []*cobra.Command{registerCmd, loginCmd} {
		c.Flags().String("email", "", "Account email")
		c.Flags().String("password", "", "Account password (prompted when omitted)")
	}
}
