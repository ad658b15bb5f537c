package labelpix

// The pixel-space annotation representation shared by the exporters that need true image sizes.

import "log/slog"

// Annotation is a labeled box in the pixel space of its image.
type Annotation struct {
	Coords     [4]float64 // Absolute x1, y1, x2, y2 offsets from the top-left corner.
	Label      string
	LabelIndex int
}

// Width is the object width from a.Coords.
func (a Annotation) Width() float64 {
	return a.Coords[2] - a.Coords[0]
}

// Height is the object height from a.Coords.
func (a Annotation) Height() float64 {
	return a.Coords[3] - a.Coords[1]
}

// AnnotatedFile holds the annotations of one image along with its true size.
type AnnotatedFile struct {
	Annotations []Annotation
	FilePath    string
	ImageID     string
	Width       int
	Height      int
}

// toAnnotatedFiles groups the boxes of store by image and converts them to pixel coordinates of the
// true image size, read from the image files in set.
//
// Images that are missing from set or whose size cannot be determined are reported as failures and
// left out of the result.
func toAnnotatedFiles(store *Store, set *WorkingSet) ([]AnnotatedFile, []ImageFailure) {
	groups, order := store.groupByImage()

	var failures []ImageFailure
	files := make([]AnnotatedFile, 0, len(order))
	for _, id := range order {
		path, err := set.Path(id)
		if err != nil {
			failures = append(failures, ImageFailure{ImageID: id, Err: err})
			continue
		}
		width, height, err := imageSize(path)
		if err != nil {
			failures = append(failures, ImageFailure{ImageID: id, Err: err})
			continue
		}

		f := AnnotatedFile{
			Annotations: make([]Annotation, 0, len(groups[id])),
			FilePath:    path,
			ImageID:     id,
			Width:       width,
			Height:      height,
		}
		for _, b := range groups[id] {
			r, err := FromRatios(b.RatioBox, float64(width), float64(height))
			if err != nil {
				// Unreachable: imageSize only returns positive dimensions.
				slog.Warn("Skipping box", "image", id, "err", err)
				continue
			}
			f.Annotations = append(f.Annotations, Annotation{
				Coords:     r.Corners(),
				Label:      b.LabelName,
				LabelIndex: b.LabelIndex,
			})
		}
		files = append(files, f)
	}

	return files, failures
}
