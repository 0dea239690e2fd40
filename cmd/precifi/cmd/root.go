package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/precifi/precifi-go/config"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	dataDir string
	envName string
	apiURL  string
)

var rootCmd = &cobra.Command{
	Use:   "precifi",
	Short: "precifi is a personal finance client",
	Long: `Command-line client for the precifi personal finance service.
It manages a local authenticated session and can run a self-contained
mock backend for development.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir(), "Directory for persistent session data")
	rootCmd.PersistentFlags().StringVar(&envName, "env", "", "Environment profile (development, staging, production); defaults to $PRECIFI_ENV")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Override the environment's API base URL")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".precifi"
	}
	return filepath.Join(home, ".precifi")
}

// environment resolves the active profile: the --env flag wins, then
// $PRECIFI_ENV, then development.
func environment() config.Environment {
	if envName != "" {
		return config.ForName(config.Name(envName))
	}
	return config.Load()
}

func baseURL() string {
	if apiURL != "" {
		return apiURL
	}
	return environment().APIURL
}
