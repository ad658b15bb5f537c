package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLabelsCmd() *cobra.Command {
	var labelsPath string

	cmd := &cobra.Command{
		Use:   "labels",
		Short: "List the labels used in a label table",
		Example: `  labelpix labels --labels labels.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession("", labelsPath)
			if err != nil {
				return err
			}
			for _, l := range s.Labels() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", l.Index, l.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&labelsPath, "labels", "", "Path to the label table (.csv or .parquet)")
	_ = cmd.MarkFlagRequired("labels")
	return cmd
}
