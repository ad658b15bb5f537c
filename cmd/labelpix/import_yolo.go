package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newImportYOLOCmd() *cobra.Command {
	var imageDir string
	var classes string
	var outPath string

	cmd := &cobra.Command{
		Use:   "import-yolo",
		Short: "Collect YOLO label files into a label table",
		Long: `Collect the YOLO label files found next to the images of a directory into a label table.

YOLO files only store label indices; --classes names them in index order. Lines with an
index outside of --classes are skipped.`,
		Example: `  labelpix import-yolo --images ./photos --classes cat,dog --out labels.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(imageDir, "")
			if err != nil {
				return err
			}
			for _, c := range strings.Split(classes, ",") {
				s.AddLabel(strings.TrimSpace(c))
			}
			if err := s.LoadYOLO(); err != nil {
				return err
			}
			if err := s.SaveTable(outPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.Status())
			return nil
		},
	}

	cmd.Flags().StringVar(&imageDir, "images", "", "Directory containing the images and YOLO files")
	cmd.Flags().StringVar(&classes, "classes", "", "Comma-separated label names in index order")
	cmd.Flags().StringVar(&outPath, "out", "labels.csv", "Output label table (.csv or .parquet)")

	_ = cmd.MarkFlagRequired("images")
	_ = cmd.MarkFlagRequired("classes")
	return cmd
}
