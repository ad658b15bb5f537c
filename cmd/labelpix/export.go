package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sensorable/labelpix"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var labelsPath string
	var imageDir string
	var to string
	var outPath string
	var labelMapPath string
	var numShards int

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Convert a label table to another format",
		Long: `Convert the annotations of a label table to another format.

YOLO (.txt) and VOC (.xml) files are written next to the images in --images. VOC export
reads the true size of every annotated image. Table and TFRecord output go to --out.`,
		Example: `  # Write YOLO label files next to the images
  labelpix export --labels labels.csv --images ./photos --to yolo

  # Convert a csv table to parquet
  labelpix export --labels labels.csv --images ./photos --to parquet --out labels.parquet

  # Write a TFRecord file and label map
  labelpix export --labels labels.csv --images ./photos --to tfrecord --out train.record --label-map labels.pbtxt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(imageDir, labelsPath)
			if err != nil {
				return err
			}

			var report labelpix.ExportReport
			switch strings.ToLower(to) {
			case "yolo":
				report = s.SaveYOLO()
			case "voc":
				report = s.SaveVOC()
			case "csv", "parquet":
				if outPath == "" {
					return fmt.Errorf("--out is required for table output")
				}
				if ext := strings.TrimPrefix(filepath.Ext(outPath), "."); ext != strings.ToLower(to) {
					outPath += "." + strings.ToLower(to)
				}
				if err := s.SaveTable(outPath); err != nil {
					return err
				}
			case "tfrecord":
				if outPath == "" || labelMapPath == "" {
					return fmt.Errorf("--out and --label-map are required for tfrecord output")
				}
				if report, err = s.SaveTFRecord(outPath, labelMapPath, numShards); err != nil {
					return err
				}
			default:
				return fmt.Errorf("%w: %q (supported: yolo, voc, csv, parquet, tfrecord)",
					labelpix.ErrUnsupportedFormat, to)
			}

			fmt.Fprintln(cmd.OutOrStdout(), s.Status())
			return report.Err()
		},
	}

	cmd.Flags().StringVar(&labelsPath, "labels", "", "Path to the label table (.csv or .parquet)")
	cmd.Flags().StringVar(&imageDir, "images", "", "Directory containing the annotated images")
	cmd.Flags().StringVar(&to, "to", "", "Output format (yolo, voc, csv, parquet, tfrecord)")
	cmd.Flags().StringVar(&outPath, "out", "", "Output path for table and tfrecord output")
	cmd.Flags().StringVar(&labelMapPath, "label-map", "", "Output path for the tfrecord label map")
	cmd.Flags().IntVar(&numShards, "num-shards", 1, "Number of tfrecord shard files")

	_ = cmd.MarkFlagRequired("labels")
	_ = cmd.MarkFlagRequired("images")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
