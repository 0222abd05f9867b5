package main

import (
	"fitlog/internal/config"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "fitlog",
	Short: "fitlog - body composition tracker with fitness tips",
	Long: `fitlog records weight, body-fat percentage and height per user name and
serves a small web UI that shows the history and asks a coach for a tip.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to a TOML or YAML config file (environment variables override it)")
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}
