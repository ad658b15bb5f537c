package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPreviewCmd() *cobra.Command {
	var labelsPath string
	var imageDir string
	var imageID string
	var outPath string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render the boxes of an image over the image",
		Long: `Render the boxes of one image over the image, stretched to the display size of the
settings, the way the editor shows them. The output encoding follows the extension of
--out (jpg, png or webp).`,
		Example: `  labelpix preview --labels labels.csv --images ./photos --image cat.jpg --out cat_boxes.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(imageDir, labelsPath)
			if err != nil {
				return err
			}
			if err := s.RenderPreview(imageID, outPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d box(es) to %s\n", len(s.Boxes(imageID)), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&labelsPath, "labels", "", "Path to the label table (.csv or .parquet)")
	cmd.Flags().StringVar(&imageDir, "images", "", "Directory containing the images")
	cmd.Flags().StringVar(&imageID, "image", "", "File name of the image to render")
	cmd.Flags().StringVar(&outPath, "out", "preview.png", "Output image path")

	_ = cmd.MarkFlagRequired("labels")
	_ = cmd.MarkFlagRequired("images")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}
