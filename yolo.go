package labelpix

// YOLO specific functionality.

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// YOLOAnnotation is a single line within a YOLO label file.
type YOLOAnnotation struct {
	LabelIndex int
	Box        RatioBox
}

// String formats a as "<label_index> <bx> <by> <bw> <bh>".
func (a YOLOAnnotation) String() string {
	return fmt.Sprintf("%d %s %s %s %s", a.LabelIndex,
		formatFloat(a.Box.X), formatFloat(a.Box.Y), formatFloat(a.Box.W), formatFloat(a.Box.H))
}

// YOLOAnnotatedFile defines the YOLO annotation structure for a single label file.
type YOLOAnnotatedFile struct {
	Annotations []YOLOAnnotation
	ImageIDs    []string // Images sharing the label file, e.g. a.jpg and a.png.
	LabelPath   string   // The .txt file next to the images.
}

// ToYOLO converts the boxes of store to YOLO format, one file per label path, in order of each
// image's first box. Images with the same base name in the same directory share a label file.
// Images missing from set are reported as failures.
func ToYOLO(store *Store, set *WorkingSet) ([]YOLOAnnotatedFile, []ImageFailure) {
	groups, order := store.groupByImage()

	var failures []ImageFailure
	yoloData := make([]YOLOAnnotatedFile, 0, len(order))
	byPath := make(map[string]int)
	for _, id := range order {
		path, err := set.Path(id)
		if err != nil {
			failures = append(failures, ImageFailure{ImageID: id, Err: err})
			continue
		}

		labelPath := siblingPath(path, ".txt")
		i, ok := byPath[labelPath]
		if !ok {
			i = len(yoloData)
			byPath[labelPath] = i
			yoloData = append(yoloData, YOLOAnnotatedFile{LabelPath: labelPath})
		}
		yoloFile := &yoloData[i]
		yoloFile.ImageIDs = append(yoloFile.ImageIDs, id)
		for _, b := range groups[id] {
			yoloFile.Annotations = append(yoloFile.Annotations,
				YOLOAnnotation{LabelIndex: b.LabelIndex, Box: b.RatioBox})
		}
	}

	return yoloData, failures
}

// WriteYOLO writes the boxes of store as YOLO label files next to their images.
//
// Every directory of the working set is first cleared of the label files of its images, so that a
// save replaces the previous one instead of appending to it. A directory that cannot be cleared is
// reported as a failure under its path. An empty store writes nothing.
func WriteYOLO(store *Store, set *WorkingSet) ExportReport {
	var report ExportReport
	if store.Len() == 0 {
		return report
	}

	for _, dir := range set.Dirs() {
		if err := clearYOLOLabels(dir); err != nil {
			slog.Warn("Failed to clear stale YOLO labels", "dir", dir, "err", err)
			report.fail(dir, fmt.Errorf("%w: clearing stale labels: %v", ErrFileWrite, err))
		}
	}

	yoloData, failures := ToYOLO(store, set)
	report.Failures = append(report.Failures, failures...)
	slog.Info("Writing YOLO labels", "files", len(yoloData))

	for _, f := range yoloData {
		if err := writeYOLOFile(f); err != nil {
			slog.Warn("Failed to write YOLO labels", "path", f.LabelPath, "err", err)
			for _, id := range f.ImageIDs {
				report.fail(id, fmt.Errorf("%w: %q: %v", ErrFileWrite, f.LabelPath, err))
			}
			continue
		}
		report.Written = append(report.Written, f.LabelPath)
	}

	return report
}

func writeYOLOFile(f YOLOAnnotatedFile) (err error) {
	file, err := os.Create(f.LabelPath)
	if err != nil {
		return err
	}
	defer closeWithErrCheck(file, &err)

	for _, a := range f.Annotations {
		if _, err := fmt.Fprintln(file, a.String()); err != nil {
			return err
		}
	}
	return nil
}

// clearYOLOLabels deletes the .txt files in dir that share their base name with another (image)
// file in dir.
func clearYOLOLabels(dir string) error {
	files, err := filesByExtInDir(dir, "")
	if err != nil {
		return err
	}

	// Names of the non-label files, without extension.
	images := make(map[string]bool)
	for _, p := range files {
		if _, base, ext, err := splitPath(p); err == nil && !strings.EqualFold(ext, "txt") {
			images[base] = true
		}
	}

	var firstErr error
	for _, p := range files {
		_, base, ext, err := splitPath(p)
		if err != nil || !strings.EqualFold(ext, "txt") || !images[base] {
			continue
		}
		if err := os.Remove(p); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// FromYOLO reads the YOLO label files next to the images of set. Label names are resolved through
// catalog; lines referencing an unknown label index are skipped. A label file shared by several
// images is attributed to the first of them.
func FromYOLO(set *WorkingSet, catalog *Catalog) ([]Box, error) {
	var boxes []Box
	read := make(map[string]bool)
	for _, img := range set.Images() {
		if strings.EqualFold(filepath.Ext(img.ID), ".txt") {
			continue
		}
		labelPath := siblingPath(img.Path(), ".txt")
		if read[labelPath] {
			continue
		}
		if _, err := os.Stat(labelPath); err != nil {
			continue
		}
		read[labelPath] = true

		lines, err := readLines(labelPath)
		if err != nil {
			return nil, err
		}

		for _, line := range lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			a, err := parseYOLOAnnotation(line)
			if err != nil {
				slog.Warn("Skipping YOLO line", "path", labelPath, "err", err)
				continue
			}
			name, err := catalog.At(a.LabelIndex)
			if err != nil {
				slog.Warn("Skipping YOLO line", "path", labelPath, "err", err)
				continue
			}
			boxes = append(boxes, Box{
				ImageID:    img.ID,
				LabelIndex: a.LabelIndex,
				LabelName:  name,
				RatioBox:   a.Box,
			})
		}
	}

	slog.Info("Parsed YOLO labels", "files", len(read), "boxes", len(boxes))
	return boxes, nil
}

// parseYOLOAnnotation parses the line of values for a single annotation.
func parseYOLOAnnotation(line string) (YOLOAnnotation, error) {
	a := YOLOAnnotation{}

	tokens := strings.Fields(line)
	if len(tokens) != 5 {
		return a, fmt.Errorf("expected 5 values in %q", line)
	}

	var err error
	if a.LabelIndex, err = strconv.Atoi(tokens[0]); err != nil {
		return a, fmt.Errorf("unexpected label index in %q: %w", line, err)
	}
	values := []*float64{&a.Box.X, &a.Box.Y, &a.Box.W, &a.Box.H}
	for i, v := range values {
		if *v, err = strconv.ParseFloat(tokens[i+1], 64); err != nil {
			return a, fmt.Errorf("unexpected values in %q: %w", line, err)
		}
	}

	return a, nil
}
