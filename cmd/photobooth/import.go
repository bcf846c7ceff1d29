package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"photobooth/internal/model"
	"photobooth/internal/payload"
	"photobooth/internal/repository/sqlite"
)

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// importCmd loads an existing folder of pictures into the gallery
var importCmd = &cobra.Command{
	Use:   "import <images-dir>",
	Short: "Import a folder of images as photos",
	Long: `Store every jpg, png, gif and webp file in the folder as a photo record.

Example: photobooth import static/images --db data/photobooth.db`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		imagesDir := args[0]
		out := cmd.OutOrStdout()

		files, err := os.ReadDir(imagesDir)
		if err != nil {
			return fmt.Errorf("failed to read images directory: %w", err)
		}

		db, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Migrate(); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		photos := sqlite.NewPhotoRepository(db)

		fmt.Fprintf(out, "Importing images from %s\n", imagesDir)

		imported, skipped := 0, 0
		for _, file := range files {
			mime, ok := imageTypes[strings.ToLower(filepath.Ext(file.Name()))]
			if file.IsDir() || !ok {
				continue
			}

			data, err := os.ReadFile(filepath.Join(imagesDir, file.Name()))
			if err != nil {
				fmt.Fprintf(out, "⚠️  Skipping %s: %v\n", file.Name(), err)
				skipped++
				continue
			}
			if len(data) == 0 {
				fmt.Fprintf(out, "⚠️  Skipping %s: empty file\n", file.Name())
				skipped++
				continue
			}

			photo := &model.Photo{Filename: file.Name(), DataURL: payload.Encode(mime, data)}
			if _, err := photos.Insert(cmd.Context(), photo); err != nil {
				return fmt.Errorf("failed to insert %s: %w", file.Name(), err)
			}
			imported++
		}

		if imported == 0 && skipped == 0 {
			fmt.Fprintln(out, "No images found to import")
			return nil
		}

		fmt.Fprintf(out, "✅ Successfully imported %d images\n", imported)
		if skipped > 0 {
			fmt.Fprintf(out, "⚠️  Skipped %d files\n", skipped)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringP("db", "d", "", "Database file path (DB_PATH)")
	importCmd.Flags().String("driver", "", "SQLite driver: sqlite3 or sqlite (DB_DRIVER)")
}
