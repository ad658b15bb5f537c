package labelpix

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Wrapped errors can be tested with errors.Is.
var (
	ErrInvalidGeometry        = errors.New("invalid reference frame")
	ErrMissingImageDimensions = errors.New("cannot determine image dimensions")
	ErrUnresolvedImagePath    = errors.New("image is not in the working set")
	ErrNoActiveLabel          = errors.New("no label selected")
	ErrNoActiveImage          = errors.New("no image selected")
	ErrNotEditing             = errors.New("editor mode is off")
	ErrFileWrite              = errors.New("failed to write file")
	ErrNotFound               = errors.New("not found")
	ErrUnsupportedFormat      = errors.New("unsupported format")
)

// ImageFailure is the failure to export the annotations of a single image.
type ImageFailure struct {
	ImageID string // The image, or the directory for failures that affect a whole directory.
	Err     error
}

func (f ImageFailure) Error() string {
	return fmt.Sprintf("%s: %v", f.ImageID, f.Err)
}

func (f ImageFailure) Unwrap() error {
	return f.Err
}

// ExportReport is the outcome of a batch export. Images are written independently, so a failure
// for one image does not prevent the others from being written.
type ExportReport struct {
	Written  []string       // Paths of the files that were written.
	Failures []ImageFailure // One entry per image that could not be exported.
}

func (r *ExportReport) fail(imageID string, err error) {
	r.Failures = append(r.Failures, ImageFailure{ImageID: imageID, Err: err})
}

// Err joins all failures into a single error, or returns nil if there were none.
func (r ExportReport) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Status summarises the report as a user facing message.
func (r ExportReport) Status(format string) string {
	msg := fmt.Sprintf("Saved %d %s file(s)", len(r.Written), format)
	if len(r.Failures) == 0 {
		return msg
	}
	ids := make([]string, len(r.Failures))
	for i, f := range r.Failures {
		ids[i] = f.ImageID
	}
	return fmt.Sprintf("%s, %d failed: %s", msg, len(r.Failures), strings.Join(ids, ", "))
}
