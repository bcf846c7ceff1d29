package main

import (
	"fmt"
	"os"

	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"

	"photobooth/internal/share"
)

// qrCmd renders a QR code for any link, e.g. a share URL printed earlier
var qrCmd = &cobra.Command{
	Use:   "qr <text>",
	Short: "Print a QR code for a link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content := args[0]

		if path, _ := cmd.Flags().GetString("png"); path != "" {
			size, _ := cmd.Flags().GetInt("size")
			png, err := share.PNG(content, size)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, png, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "💾 Saved %s\n", path)
			return nil
		}

		q, err := qrcode.New(content, qrcode.Medium)
		if err != nil {
			return fmt.Errorf("failed to encode QR: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), q.ToSmallString(false))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(qrCmd)

	qrCmd.Flags().String("png", "", "Write a PNG instead of printing to the terminal")
	qrCmd.Flags().Int("size", share.DefaultSize, "PNG size in pixels")
}
