package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "cloudsign",
	Short:   "Generate presigned URLs for cloud object stores",
	Long: `Cloudsign generates time-boxed presigned URLs for objects in
S3-compatible stores, Azure Blob Storage, and Google Cloud Storage.

Provider credentials are read from CLOUDSIGN_-prefixed environment
variables (e.g. CLOUDSIGN_S3_ACCESS_KEY_ID, CLOUDSIGN_AZURE_STORAGE_ACCOUNT).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		readConfig(cmd)
		setupLogging()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (env: CLOUDSIGN_LOG_LEVEL)")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
