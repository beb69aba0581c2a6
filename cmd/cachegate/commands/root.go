// Package commands implements the cachegate CLI.
package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Version is injected at build time via ldflags.
	Version = "dev"

	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "cachegate",
	Short: "cachegate is an authenticating read/write-through caching gateway",
	Long: `cachegate sits in front of S3 or Azure Blob storage, serving GET/HEAD/PUT
requests over HTTP with a deduplicating in-memory (and optional on-disk) cache,
bearer or Ed25519-presign authentication, and Prometheus metrics.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called once from main.main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", `path to config file, or "env" to load from CACHEGATE_-prefixed environment variables`)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(keygenCmd)
}

// ConfigFlag returns the --config flag value.
func ConfigFlag() string {
	return cfgFile
}
