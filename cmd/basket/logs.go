package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/basket/internal/style"
)

var logsCmd = &cobra.Command{
	Use:     "logs",
	GroupID: GroupList,
	Short:   "Show the chat upstream calls made for you",
	Long: `Show the calls the server made to the chat upstream on your behalf,
newest first. Use --clear to delete them.`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

var (
	logsLimit int
	logsClear bool
)

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.Flags().IntVarP(&logsLimit, "limit", "n", 20, "show at most this many entries (0 for all)")
	logsCmd.Flags().BoolVar(&logsClear, "clear", false, "delete every entry")
}

func runLogs(cmd *cobra.Command, args []string) error {
	if env.remote == nil {
		return errors.New("API logs are kept by the server; they are not available with --offline")
	}
	if _, err := env.requireSession(cmd.Context()); err != nil {
		return err
	}

	if logsClear {
		n, err := env.remote.ClearAPILogs(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Cleared %d log entries\n", style.SuccessPrefix, n)
		return nil
	}

	logs, err := env.remote.APILogs(cmd.Context(), logsLimit)
	if err != nil {
		return err
	}
	printAPILogs(cmd.OutOrStdout(), logs)
	return nil
}
