package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var logger zerolog.Logger

var rootCmd = &cobra.Command{
	Use:   "crossval-cli",
	Short: "Cross-validation CLI for the prediction platform",
	Long: `A command line tool for running k-fold cross-validation against the
prediction platform. Partitions a dataset into k folds, trains one model or
ensemble per fold complement, evaluates each against its held-out fold, and
aggregates the k evaluations into a single result.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if viper.GetBool("verbose") {
			level = zerolog.DebugLevel
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("api-url", "", "Platform API URL (overrides CROSSVAL_API_URL)")
	rootCmd.PersistentFlags().String("username", "", "Platform username (overrides CROSSVAL_USERNAME)")
	rootCmd.PersistentFlags().String("api-key", "", "Platform API key (overrides CROSSVAL_API_KEY)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	viper.BindPFlag("api_url", rootCmd.PersistentFlags().Lookup("api-url"))
	viper.BindPFlag("username", rootCmd.PersistentFlags().Lookup("username"))
	viper.BindPFlag("api_key", rootCmd.PersistentFlags().Lookup("api-key"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	// Environment variables
	viper.SetEnvPrefix("CROSSVAL")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("api_url", "http://localhost:8085/v1")
	viper.SetDefault("poll_interval", "2s")
	viper.SetDefault("wait_timeout", "0s")
}
