// Package cmd implements the prodex command line.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/prodex/internal/config"
	"github.com/kailas-cloud/prodex/internal/version"
)

var (
	// env selects config/<env>.yaml and the logger flavour
	env string
	// configPath overrides the env-based config lookup
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "prodex",
	Short: "Product retrieval and ranking engine",
	Long: `prodex embeds a product catalog into vectors and ranks products
against a skin profile survey with a hybrid similarity and attribute score.

Examples:
  # Serve the HTTP API
  prodex serve

  # Rebuild the document store from the catalog
  prodex ingest

  # Rank products for a profile
  prodex retrieve --skin-type oily --concern acne --limit 5

  # Conversational output
  prodex retrieve --query "mineral sunscreen" --format chat`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", config.GetEnv(), "Environment: local, dev, docker, prod (defaults to $ENV or local)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (overrides --env lookup)")
}

// loadConfig reads the config selected by the global flags.
func loadConfig() (config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load(env)
}
