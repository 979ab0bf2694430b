// Command basket is the terminal client for Basket. It talks to a basketd
// server, or with --offline to a local data directory.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/basket/internal/state"
	"github.com/mmynk/basket/internal/style"
)

// Command groups for help output.
const (
	GroupAccount = "account"
	GroupList    = "list"
)

var (
	serverURL string
	offline   bool
	dataDir   string
	timeout   time.Duration
	logLevel  string

	env *clientEnv
)

var rootCmd = &cobra.Command{
	Use:   "basket",
	Short: "Shared grocery lists from the terminal",
	Long: `basket manages your grocery list, your friends and a nutrition chat assistant.

By default it talks to a basketd server. With --offline it reads and writes
the JSON collections in the data directory directly.

Examples:
  basket signup demo@example.com
  basket items add Milk --category dairy --price 3.49
  basket items toggle 1
  basket ask "how many calories in an apple"`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		env, err = openEnv(envOptions{
			serverURL: serverURL,
			offline:   offline,
			dataDir:   dataDir,
			timeout:   timeout,
			logLevel:  logLevel,
		})
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if env == nil {
			return nil
		}
		return env.Close()
	},
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupAccount, Title: "Account:"},
		&cobra.Group{ID: GroupList, Title: "Lists and chat:"},
	)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&serverURL, "server", envOr("BASKET_SERVER", "http://localhost:8080"), "basketd base URL")
	flags.BoolVar(&offline, "offline", false, "use the local data directory instead of a server")
	flags.StringVar(&dataDir, "data-dir", envOr("BASKET_DATA_DIR", defaultDataDir()), "directory for the session token and offline data")
	flags.DurationVar(&timeout, "timeout", state.DefaultTimeout, "bound for every backend call")
	flags.StringVar(&logLevel, "log-level", envOr("LOG_LEVEL", "warn"), "log level (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", style.ErrorPrefix, describeError(err))
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".basket"
	}
	return filepath.Join(dir, "basket")
}

func requireSubcommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
}
