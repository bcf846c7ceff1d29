package main

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"photobooth/internal/config"
)

var envFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "photobooth",
	Short: "Photobooth capture client and media server",
	Long: strings.TrimSpace(`
Capture single photos or 4-frame collages from a webcam, save them to the
photobooth server and share them with a QR code.
    `),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadEnvFile(envFile)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Error executing command: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
}
