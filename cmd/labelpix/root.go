package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/sensorable/labelpix"
	"github.com/spf13/cobra"
)

// Flags shared by all subcommands.
var (
	settingsPath string
	verbose      bool
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labelpix",
		Short: "Labeled bounding box annotation and format conversion",
		Long: `Labelpix manages labeled bounding box annotations of images.

Annotations are stored as ratio boxes (center and size relative to the image) and can be
converted between a flat table (csv, parquet), YOLO text files, Pascal VOC XML files and
TFRecord files.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr,
				&slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().StringVar(&settingsPath, "config", "labelpix.yaml",
		"Path to the YAML settings file")
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose logging")

	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newLabelsCmd())
	cmd.AddCommand(newPreviewCmd())
	cmd.AddCommand(newImportYOLOCmd())

	return cmd
}

// openSession loads the settings and creates a headless session holding the images of imageDir and
// the annotations of the table file at labelsPath (if not empty).
func openSession(imageDir, labelsPath string) (*labelpix.Session, error) {
	settings, err := labelpix.LoadSettings(settingsPath)
	if err != nil {
		return nil, err
	}

	s := labelpix.NewSession(settings, nil, nil)
	if imageDir != "" {
		if _, err := s.UploadFolder(imageDir); err != nil {
			return nil, err
		}
	}
	if labelsPath != "" {
		if _, err := os.Stat(labelsPath); err != nil {
			return nil, fmt.Errorf("labels file not found: %s", labelsPath)
		}
		if err := s.LoadTable(labelsPath); err != nil {
			return nil, err
		}
	}
	return s, nil
}
