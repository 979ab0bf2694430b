package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmynk/basket/internal/style"
)

var signupCmd = &cobra.Command{
	Use:     "signup <email>",
	GroupID: GroupAccount,
	Short:   "Create an account and sign in",
	Long: `Create an account. Your handle is taken from the part of the email
before the @, with a number appended if it is already in use.

The password is read from the terminal, or from stdin when piped.`,
	Args: cobra.ExactArgs(1),
	RunE: runSignup,
}

var loginCmd = &cobra.Command{
	Use:     "login <email>",
	GroupID: GroupAccount,
	Short:   "Sign in to an existing account",
	Args:    cobra.ExactArgs(1),
	RunE:    runLogin,
}

var logoutCmd = &cobra.Command{
	Use:     "logout",
	GroupID: GroupAccount,
	Short:   "Sign out and forget the session",
	Args:    cobra.NoArgs,
	RunE:    runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	GroupID: GroupAccount,
	Short:   "Show the signed-in user",
	Args:    cobra.NoArgs,
	RunE:    runWhoami,
}

func init() {
	rootCmd.AddCommand(signupCmd, loginCmd, logoutCmd, whoamiCmd)
}

func runSignup(cmd *cobra.Command, args []string) error {
	password, err := readPassword("Choose a password: ")
	if err != nil {
		return err
	}
	id, err := env.app.Session.SignUp(cmd.Context(), args[0], password)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Signed up as %s\n", style.SuccessPrefix, style.Bold.Render(id.Username))
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}
	id, err := env.app.Session.SignIn(cmd.Context(), args[0], password)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Signed in as %s\n", style.SuccessPrefix, style.Bold.Render(id.Username))
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if _, err := env.requireSession(cmd.Context()); err != nil {
		if errors.Is(err, errNotSignedIn) {
			fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
			return nil
		}
		return err
	}
	if err := env.app.Session.Logout(cmd.Context()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s Server sign-out failed: %v\n", style.WarningPrefix, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Signed out\n", style.SuccessPrefix)
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	id, err := env.requireSession(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", style.Bold.Render(id.Username), id.Email)
	fmt.Fprintf(out, "%s\n", style.Dim.Render(id.AvatarURL))
	return nil
}

// readPassword prompts without echo on a terminal and reads one line otherwise.
func readPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, prompt)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
