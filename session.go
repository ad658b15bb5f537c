package labelpix

// The session controller: everything the main window does, minus its widgets.

import (
	"fmt"
	"log/slog"
	"path/filepath"
)

// Mode is the display mode of a session.
type Mode int

// The session modes.
const (
	ModeView Mode = iota // Read-only display.
	ModeEdit             // Drawing enabled.
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "view"
}

// Surface is the drawing surface that displays the current image.
type Surface interface {
	// FrameSize is the current size of the displayed image frame in pixels.
	FrameSize() (width, height float64)
	// RenderOverlay replaces the boxes drawn over the current image.
	RenderOverlay(rects []OverlayRect)
}

// Chooser asks the user for files. An empty answer means the user cancelled.
type Chooser interface {
	OpenFiles() []string
	OpenDir() string
	OpenFile() string
	SaveFile() string
}

// Entry is a line of the per-image label list.
type Entry struct {
	BoxID   uint64
	Text    string
	Checked bool
}

// Session owns the annotation store, label catalog and working image set of one editing session.
//
// A Session is not safe for concurrent use. Work done on other goroutines (such as scanning a large
// directory) must hand its results back to the goroutine that owns the session.
type Session struct {
	settings Settings
	surface  Surface
	chooser  Chooser

	store   *Store
	catalog *Catalog
	images  *WorkingSet

	mode    Mode
	current string          // ID of the displayed image, "" if none.
	label   int             // Index of the selected label, -1 if none.
	checked map[uint64]bool // Checked entries of the label list.
	status  string
}

// NewSession creates a session in view mode, with the catalog seeded from settings.Labels. Surface
// and chooser may be nil.
func NewSession(settings Settings, surface Surface, chooser Chooser) *Session {
	return &Session{
		settings: settings,
		surface:  surface,
		chooser:  chooser,
		store:    NewStore(),
		catalog:  NewCatalog(settings.Labels...),
		images:   NewWorkingSet(),
		label:    -1,
		checked:  make(map[uint64]bool),
	}
}

// Status is the last status message.
func (s *Session) Status() string {
	return s.status
}

func (s *Session) setStatus(format string, args ...interface{}) string {
	s.status = fmt.Sprintf(format, args...)
	slog.Info(s.status)
	return s.status
}

// Mode is the current display mode.
func (s *Session) Mode() Mode {
	return s.mode
}

// ToggleEditMode switches between view and edit mode and redraws the current image.
func (s *Session) ToggleEditMode() Mode {
	if s.mode == ModeView {
		s.mode = ModeEdit
	} else {
		s.mode = ModeView
	}
	s.render()
	return s.mode
}

// Labels returns the present labels of the catalog.
func (s *Session) Labels() []Label {
	return s.catalog.All()
}

// AddLabel adds a session label. Empty and duplicate names are ignored.
func (s *Session) AddLabel(name string) bool {
	if !s.catalog.Add(name) {
		if name != "" {
			s.setStatus("%s already in the session labels", name)
		}
		return false
	}
	return true
}

// RemoveLabel removes a session label from the catalog. Boxes drawn with it are kept.
func (s *Session) RemoveLabel(name string) bool {
	i, ok := s.catalog.IndexOf(name)
	if !ok {
		return false
	}
	if s.label == i {
		s.label = -1
	}
	return s.catalog.Remove(name)
}

// SelectLabel selects the label used for the boxes drawn next. An empty name clears the selection.
func (s *Session) SelectLabel(name string) error {
	if name == "" {
		s.label = -1
		return nil
	}
	i, ok := s.catalog.IndexOf(name)
	if !ok {
		return fmt.Errorf("label %q: %w", name, ErrNotFound)
	}
	s.label = i
	return nil
}

// UploadPhotos adds image files to the working set.
func (s *Session) UploadPhotos(paths []string) int {
	n := s.images.AddFiles(paths)
	s.setStatus("Added %d photo(s)", n)
	return n
}

// UploadFolder adds the images found in dir to the working set.
func (s *Session) UploadFolder(dir string) (int, error) {
	n, err := s.images.AddDir(dir)
	if err != nil {
		s.setStatus("Failed to open %s: %v", dir, err)
		return 0, err
	}
	s.setStatus("Added %d photo(s) from %s", n, dir)
	return n, nil
}

// Images returns the working image set in order.
func (s *Session) Images() []Image {
	return s.images.Images()
}

// SelectImage displays the image with the given ID.
func (s *Session) SelectImage(id string) error {
	if _, err := s.images.Get(id); err != nil {
		return err
	}
	s.current = id
	s.render()
	return nil
}

// CurrentImage is the ID of the displayed image, or "" if none.
func (s *Session) CurrentImage() string {
	return s.current
}

// Boxes returns the boxes of the given image.
func (s *Session) Boxes(imageID string) []Box {
	return s.store.ForImage(imageID)
}

// DragComplete records the rectangle spanned by (x1,y1) and (x2,y2), in pixels of the current
// display frame, as a box with the selected label on the current image.
//
// Nothing is recorded unless the session is in edit mode with an image and a label selected.
func (s *Session) DragComplete(x1, y1, x2, y2 float64) (Box, error) {
	switch {
	case s.mode != ModeEdit:
		return Box{}, ErrNotEditing
	case s.current == "":
		return Box{}, ErrNoActiveImage
	case s.label < 0:
		s.setStatus("Select a label before drawing")
		return Box{}, ErrNoActiveLabel
	}
	name, err := s.catalog.At(s.label)
	if err != nil {
		s.label = -1
		return Box{}, ErrNoActiveLabel
	}

	width, height := s.frameSize()
	ratios, err := ToRatios(x1, y1, x2, y2, width, height)
	if err != nil {
		return Box{}, err
	}

	box := s.store.Add(s.current, s.label, name, ratios)
	s.setStatus("Start: %g, %g, End: %g, %g", x1, y1, x2, y2)
	s.render()
	return box, nil
}

// Entries returns the label list of an image.
func (s *Session) Entries(imageID string) []Entry {
	boxes := s.store.ForImage(imageID)
	entries := make([]Entry, len(boxes))
	for i, b := range boxes {
		entries[i] = Entry{
			BoxID:   b.ID,
			Text:    fmt.Sprintf("%s %g %g %g %g", b.LabelName, b.X, b.Y, b.W, b.H),
			Checked: s.checked[b.ID],
		}
	}
	return entries
}

// CheckEntry marks a label list entry for deletion by DeleteSelections.
func (s *Session) CheckEntry(boxID uint64, checked bool) {
	if checked {
		s.checked[boxID] = true
	} else {
		delete(s.checked, boxID)
	}
}

// DeleteSelections deletes the boxes of all checked entries and returns the number deleted.
func (s *Session) DeleteSelections() int {
	n := 0
	for id := range s.checked {
		if s.store.Remove(id) {
			n++
		}
		delete(s.checked, id)
	}
	s.render()
	s.setStatus("Deleted %d label(s)", n)
	return n
}

// ResetLabels deletes all boxes.
func (s *Session) ResetLabels() {
	s.store.Clear()
	s.checked = make(map[uint64]bool)
	s.render()
	s.setStatus("Deleted all labels")
}

// SaveTable writes all boxes to the table file at path. An empty path is a cancelled save.
func (s *Session) SaveTable(path string) error {
	if path == "" {
		return nil
	}
	if filepath.Ext(path) == "" {
		path += "." + s.settings.TableFormat
	}
	if err := WriteTable(path, ToTable(s.store.All())); err != nil {
		s.setStatus("Failed to save %s: %v", path, err)
		return err
	}
	s.setStatus("Saved %d label(s) to %s", s.store.Len(), path)
	return nil
}

// LoadTable merges the boxes of the table file at path into the session. Labels used by the boxes
// are added to the catalog first, at their table index unless that index holds another label. An
// empty path is a cancelled load.
func (s *Session) LoadTable(path string) error {
	if path == "" {
		return nil
	}
	rows, err := ReadTable(path)
	if err != nil {
		s.setStatus("Failed to load %s: %v", path, err)
		return err
	}
	boxes := FromTable(rows)
	s.mergeBoxes(boxes)
	s.setStatus("Loaded %d label(s) from %s", len(boxes), path)
	return nil
}

// LoadYOLO merges the YOLO label files found next to the working set images into the session.
func (s *Session) LoadYOLO() error {
	boxes, err := FromYOLO(s.images, s.catalog)
	if err != nil {
		s.setStatus("Failed to load YOLO labels: %v", err)
		return err
	}
	s.mergeBoxes(boxes)
	s.setStatus("Loaded %d YOLO label(s)", len(boxes))
	return nil
}

// mergeBoxes adds the labels of boxes to the catalog at their own indices where possible, moves
// boxes whose index went to another label to the index of their name, and merges them into the
// store.
func (s *Session) mergeBoxes(boxes []Box) {
	indices := make(map[Label]int)
	for _, l := range labelsFromBoxes(boxes) {
		indices[l] = s.catalog.AddAt(l.Index, l.Name)
	}
	for i, b := range boxes {
		if idx, ok := indices[Label{Index: b.LabelIndex, Name: b.LabelName}]; ok && idx >= 0 {
			boxes[i].LabelIndex = idx
		}
	}
	s.store.Merge(boxes)
	s.render()
}

// SaveYOLO writes YOLO label files next to the images.
func (s *Session) SaveYOLO() ExportReport {
	r := WriteYOLO(s.store, s.images)
	s.setStatus("%s", r.Status("YOLO"))
	return r
}

// SaveVOC writes Pascal VOC files next to the images.
func (s *Session) SaveVOC() ExportReport {
	r := WriteVOC(s.store, s.images)
	s.setStatus("%s", r.Status("VOC"))
	return r
}

// SaveTFRecord writes the boxes to a TFRecord file and label map.
func (s *Session) SaveTFRecord(recordPath, labelMapPath string, numShards int) (ExportReport, error) {
	r, err := WriteTFRecord(recordPath, labelMapPath, s.store, s.images, numShards)
	if err != nil {
		s.setStatus("Failed to save TFRecord: %v", err)
		return r, err
	}
	s.setStatus("%s", r.Status("TFRecord"))
	return r, nil
}

// RenderPreview saves the current overlay of an image, drawn over the image, to outPath.
func (s *Session) RenderPreview(imageID, outPath string) error {
	path, err := s.images.Path(imageID)
	if err != nil {
		return err
	}
	return RenderPreview(path, s.store.ForImage(imageID), s.settings, outPath)
}

func (s *Session) frameSize() (float64, float64) {
	if s.surface == nil {
		return float64(s.settings.Display.Width), float64(s.settings.Display.Height)
	}
	return s.surface.FrameSize()
}

// render redraws the overlay of the current image against the current display frame.
func (s *Session) render() {
	if s.surface == nil {
		return
	}
	var rects []OverlayRect
	if s.current != "" {
		width, height := s.frameSize()
		var err error
		rects, err = OverlayRects(s.store.ForImage(s.current), width, height)
		if err != nil {
			slog.Debug("Skipping overlay", "image", s.current, "err", err)
			return
		}
	}
	s.surface.RenderOverlay(rects)
}
