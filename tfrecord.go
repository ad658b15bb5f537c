package labelpix

// TFRecord object detection specific functionality.

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/golang/protobuf/proto"
	"github.com/ryszard/tfutils/go/example"
	"github.com/ryszard/tfutils/go/tfrecord"
	"github.com/ryszard/tfutils/proto/tensorflow/core/example" // package tensorflow
)

// TFFeatureMap maps feature names to their values. Values must be convertible to
// tensorflow.Feature.
type TFFeatureMap map[string]interface{}

// toTFRecord converts the pixel-space representation of a single image to a TFRecord feature map.
// Class IDs are the label indices plus one, as TensorFlow reserves ID zero.
func toTFRecord(f AnnotatedFile) (TFFeatureMap, error) {
	_, format, err := decodeImageConfig(f.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to decode the image metadata: %w", err)
	}
	imgData, err := os.ReadFile(f.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read the image: %w", err)
	}

	m := make(TFFeatureMap, 16)
	m["image/height"] = f.Height
	m["image/width"] = f.Width
	m["image/filename"] = f.ImageID
	m["image/source_id"] = f.FilePath
	m["image/encoded"] = imgData
	m["image/format"] = format

	numLabels := len(f.Annotations)
	xmins := make([]float32, numLabels)
	ymins := make([]float32, numLabels)
	xmaxs := make([]float32, numLabels)
	ymaxs := make([]float32, numLabels)
	classes := make([]string, numLabels)
	classIDs := make([]int64, numLabels)
	for i, a := range f.Annotations {
		xmins[i] = float32(a.Coords[0] / float64(f.Width))
		ymins[i] = float32(a.Coords[1] / float64(f.Height))
		xmaxs[i] = float32(a.Coords[2] / float64(f.Width))
		ymaxs[i] = float32(a.Coords[3] / float64(f.Height))
		classes[i] = a.Label
		classIDs[i] = int64(a.LabelIndex) + 1
	}
	m["image/object/bbox/xmin"] = xmins
	m["image/object/bbox/ymin"] = ymins
	m["image/object/bbox/xmax"] = xmaxs
	m["image/object/bbox/ymax"] = ymaxs
	m["image/object/class/text"] = classes
	m["image/object/class/label"] = classIDs

	return m, nil
}

// newTFExample builds the example for m. example.New panics on values it cannot convert.
func newTFExample(m TFFeatureMap) (e *tensorflow.Example, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("conversion to TensorFlow Example failed: %v", r)
		}
	}()
	return example.New(m), nil
}

// WriteTFRecord does a streaming conversion, serialisation and file write of the boxes of store to
// one or more TFRecord files stored under recordPath (with suffixes added when numShards > 1).
//
// A label map derived from the exported labels is written to labelMapPath. Images that cannot be
// resolved, measured or read are reported as failures and skipped.
func WriteTFRecord(recordPath, labelMapPath string, store *Store, set *WorkingSet,
	numShards int) (report ExportReport, err error) {

	data, failures := toAnnotatedFiles(store, set)
	report.Failures = failures
	if len(data) == 0 {
		return report, nil
	}
	if numShards <= 0 {
		numShards = 1
	}
	if numShards > len(data) {
		numShards = len(data)
	}
	slog.Info("Writing TFRecord", "files", len(data), "shards", numShards)

	var shardFile *os.File
	defer func() {
		if shardFile != nil {
			closeWithErrCheck(shardFile, &err)
		}
	}()
	shardSize := int(math.Ceil(float64(len(data)) / float64(numShards)))
	shardIdx := -1

	for i, f := range data {
		// Check if a new shard file needs to be opened for writing.
		if i%shardSize == 0 {
			shardIdx++
			if shardFile != nil {
				if err := shardFile.Close(); err != nil {
					return report, fmt.Errorf("%w: %v", ErrFileWrite, err)
				}
				shardFile = nil
			}

			shardPath := recordPath
			if numShards > 1 {
				shardPath += fmt.Sprintf("-%05d-of-%05d", shardIdx, numShards)
			}
			if shardFile, err = os.Create(shardPath); err != nil {
				return report, fmt.Errorf("%w: failed to create shard at %q: %v", ErrFileWrite,
					shardPath, err)
			}
			report.Written = append(report.Written, shardPath)
		}

		m, err := toTFRecord(f)
		if err != nil {
			slog.Warn("Failed to convert image", "image", f.ImageID, "err", err)
			report.fail(f.ImageID, err)
			continue
		}
		e, err := newTFExample(m)
		if err != nil {
			report.fail(f.ImageID, err)
			continue
		}
		if err := writeTFRecordExample(shardFile, e); err != nil {
			return report, fmt.Errorf("%w: %v", ErrFileWrite, err)
		}
	}

	if err := saveTFRecordLabelMap(labelMapPath, labelsFromBoxes(store.All())); err != nil {
		return report, err
	}
	report.Written = append(report.Written, labelMapPath)
	return report, nil
}

// writeTFRecordExample serialises the example and writes it as a TFRecord to w.
func writeTFRecordExample(w io.Writer, e *tensorflow.Example) error {
	enc, err := proto.Marshal(e)
	if err != nil {
		return err
	}

	return tfrecord.Write(w, enc)
}

// saveTFRecordLabelMap writes labels in the prototxt format of the TensorFlow object detection
// StringIntLabelMap, with IDs offset by one.
func saveTFRecordLabelMap(path string, labels []Label) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: failed to create the label map file %q: %v", ErrFileWrite, path, err)
	}
	defer closeWithErrCheck(file, &err)

	for _, l := range labels {
		if _, err := fmt.Fprintf(file, "item {\n  id: %d\n  name: %q\n}\n", l.Index+1, l.Name); err != nil {
			return fmt.Errorf("%w: failed to write the label map %q: %v", ErrFileWrite, path, err)
		}
	}

	return nil
}
