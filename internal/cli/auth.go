package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apperrors "drawdown-console/internal/errors"
	"drawdown-console/internal/session"
)

// addAuthCommands adds the account and session commands.
func addAuthCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Local accounts and sessions",
		Long:  "Register local accounts and sign in. The analytics commands require an active session.",
	}
	cmd.AddCommand(newRegisterCmd(app))
	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newUsersCmd(app))
	rootCmd.AddCommand(cmd)
}

// readSecret returns the flag value or prompts on the command's stdin.
func readSecret(cmd *cobra.Command, flag, prompt string) (string, error) {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v, nil
	}
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" && err != nil {
		return "", fmt.Errorf("no %s provided", flag)
	}
	return line, nil
}

func newRegisterCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <account-id>",
		Short: "Create a local account",
		Example: `  drawdown auth register jdoe --first Jane --last Doe --dob 1990-04-01
  drawdown auth register jdoe --password s3cret`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			g, err := app.gate()
			if err != nil {
				return err
			}

			password, err := readSecret(cmd, "password", "Password: ")
			if err != nil {
				return err
			}
			first, _ := cmd.Flags().GetString("first")
			last, _ := cmd.Flags().GetString("last")
			dob, _ := cmd.Flags().GetString("dob")

			u, err := g.Register(cmd.Context(), session.Registration{
				FirstName:   first,
				LastName:    last,
				DateOfBirth: dob,
				AccountID:   args[0],
				Password:    password,
			})
			if errors.Is(err, apperrors.ErrAccountExists) {
				return fmt.Errorf("account %s already exists: %w", args[0], err)
			}
			if err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}

			if output.IsJSON() {
				return output.JSON(u)
			}
			output.Success("✓ Account %s created", u.AccountID)
			output.Dim("Sign in with: drawdown auth login %s", u.AccountID)
			return nil
		},
	}
	cmd.Flags().String("first", "", "first name")
	cmd.Flags().String("last", "", "last name")
	cmd.Flags().String("dob", "", "date of birth (YYYY-MM-DD)")
	cmd.Flags().String("password", "", "password (prompted when omitted)")
	return cmd
}

func newLoginCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <account-id>",
		Short: "Sign in and make the account active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			g, err := app.gate()
			if err != nil {
				return err
			}

			password, err := readSecret(cmd, "password", "Password: ")
			if err != nil {
				return err
			}
			u, err := g.Login(cmd.Context(), args[0], password)
			if errors.Is(err, apperrors.ErrInvalidCredentials) {
				return errors.New(session.InvalidCredentialsMessage)
			}
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(u)
			}
			output.Success("✓ Signed in as %s", u.DisplayName())
			return nil
		},
	}
	cmd.Flags().String("password", "", "password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			g, err := app.gate()
			if err != nil {
				return err
			}
			if err := g.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logout failed: %w", err)
			}
			output.Success("✓ Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			g, err := app.gate()
			if err != nil {
				return err
			}
			u := g.ActiveUser()
			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"active": u != nil, "user": u})
			}
			if u == nil {
				output.Warning("Not signed in")
				return nil
			}
			output.Bold(u.DisplayName())
			output.Printf("  Account:  %s\n", u.AccountID)
			if u.DateOfBirth != "" {
				output.Printf("  Born:     %s\n", u.DateOfBirth)
			}
			output.Printf("  Created:  %s\n", FormatDate(u.CreatedAt))
			return nil
		},
	}
}

func newUsersCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List local accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			g, err := app.gate()
			if err != nil {
				return err
			}
			users, err := g.Users(cmd.Context())
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(users)
			}
			if len(users) == 0 {
				output.Dim("No accounts. Create one with: drawdown auth register <account-id>")
				return nil
			}
			active := ""
			if u := g.ActiveUser(); u != nil {
				active = u.AccountID
			}
			table := NewTable(output, "", "Account", "Name", "Created")
			for _, u := range users {
				mark := ""
				if u.AccountID == active {
					mark = "*"
				}
				table.AddRow(mark, u.AccountID, u.DisplayName(), FormatDate(u.CreatedAt))
			}
			table.Render()
			return nil
		},
	}
}
