package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Mohsinsiddi/piggybank/internal/config"
	"github.com/Mohsinsiddi/piggybank/internal/theme"
	"github.com/spf13/cobra"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/piggybank/cmd.Version=1.2.3" .
var Version = "0.1.0"

var (
	cfgDir    string
	cfg       *config.Config
	verbose   bool
	themeFlag string
	snapshot  bool
	widthFlag int
)

// rootCmd starts the dApp.
var rootCmd = &cobra.Command{
	Use:   "piggybank",
	Short: "A piggy bank for your savings, in the terminal",
	Long: `piggybank shows your savings history next to your Ethereum wallet.

Run without a subcommand to open the app. Connect the injected wallet
(PIGGYBANK_PRIVATE_KEY or a key imported with "piggybank wallet import")
or WalletConnect once a project ID is configured.

Keys inside the app:
  t            toggle light/dark theme
  tab          move between wallet buttons
  enter        press the focused button
  ←/→          move the chart tooltip
  ?            help
  q            quit`,
	Version: Version,
	Args:    cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		if themeFlag != "" {
			if _, err := theme.Parse(themeFlag); err != nil {
				return err
			}
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	// PIGGYBANK_CONFIG_DIR sets the default for --config.
	if envDir := os.Getenv(config.EnvConfigDir); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.piggybank)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&themeFlag, "theme", "", "start in this theme (light|dark) instead of detecting it")

	rootCmd.Flags().BoolVar(&snapshot, "snapshot", false, "print one frame of the app and exit")
	rootCmd.PersistentFlags().IntVar(&widthFlag, "width", 0, "render width when not drawing to a terminal (default: terminal width)")

	rootCmd.AddCommand(
		configCmd,
		chainsCmd,
		savingsCmd,
		walletCmd,
	)
}
