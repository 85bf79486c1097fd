package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"spotscout/internal/app"
	"spotscout/internal/config"
	"spotscout/internal/logging"
)

var (
	cfgFile   string
	logLevel  string
	appHandle *app.App

	rootCheck checkFlags
)

var rootCmd = &cobra.Command{
	Use:   "spotscout [flags] <instance-type>...",
	Short: "Find the cheapest EC2 spot price across regions",
	Long: "Query EC2 spot price history for one or more instance types in every\n" +
		"enabled region (or a single one) and print the zones ranked by hourly rate.",
	Args:          cobra.MinimumNArgs(1),
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// arguments are valid by now; runtime errors should not print usage
		cmd.SilenceUsage = true

		if appHandle != nil {
			return nil
		}

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}

		logger := logging.NewLogger(cfg.Logging)
		appHandle = app.NewApp(cfg, logger)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := rootCheck.options(args)
		if err != nil {
			return err
		}
		return getApp().Check(cmd.Context(), opts)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level defined in config")
	rootCheck.register(rootCmd)

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(regionsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(simulateCmd)
}

func getApp() *app.App {
	if appHandle == nil {
		panic("application not initialized; PersistentPreRunE not executed")
	}
	return appHandle
}
