package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	cfgFile string
	verbose bool
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "hubwatch",
	Short: "Telegram bridge for GitHub and GitLab repositories",
	Long: `hubwatch connects a Telegram chat to your code host. Chat commands
query repositories, commits, and issues; incoming webhooks become
chat notifications for pushes, issues, pull requests, stars, forks,
and releases.

Get started:
  hubwatch onboard    Interactive setup wizard
  hubwatch doctor     Verify credentials and connectivity
  hubwatch serve      Run the bot and the webhook listener`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ~/.hubwatch/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable verbose/debug output")

	rootCmd.Version = Version
	rootCmd.AddCommand(
		onboardCmd,
		serveCmd,
		doctorCmd,
	)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
	if verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
		slog.Debug("Verbose logging enabled")
	}
}
