package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "forecaster",
	Short:         "Fetch daily quotes, fit ARIMA/SARIMA models and forecast closing prices",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $CONFIG_PATH or configs/config.yaml)")
	rootCmd.AddCommand(runCmd, serveCmd)
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := rootCmd.Execute(); err != nil {
		log.Printf("[FATAL] %v", err)
		os.Exit(1)
	}
}
