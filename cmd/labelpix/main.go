// Labelpix annotates images with labeled bounding boxes and converts the annotations between table,
// YOLO, Pascal VOC and TFRecord formats.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
)

const version = "1.0.0"

func main() {
	root := newRootCmd()

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
