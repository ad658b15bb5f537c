package labelpix

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Image is an entry of the working image set.
type Image struct {
	ID  string // Base file name, unique within the set.
	Dir string // Directory containing the image.
}

// Path is the full path of the image file.
func (img Image) Path() string {
	return filepath.Join(img.Dir, img.ID)
}

// WorkingSet is the ordered collection of images added to a session.
type WorkingSet struct {
	images []Image
	index  map[string]int
}

// NewWorkingSet returns an empty working set.
func NewWorkingSet() *WorkingSet {
	return &WorkingSet{index: make(map[string]int)}
}

// Add adds the image at path. Adding an ID that is already present replaces its directory but keeps
// its position.
func (s *WorkingSet) Add(path string) Image {
	img := Image{ID: filepath.Base(path), Dir: filepath.Dir(path)}
	if i, ok := s.index[img.ID]; ok {
		s.images[i] = img
		return img
	}
	s.index[img.ID] = len(s.images)
	s.images = append(s.images, img)
	return img
}

// AddFiles adds the images at paths and returns the number of images added.
func (s *WorkingSet) AddFiles(paths []string) int {
	for _, p := range paths {
		s.Add(p)
	}
	return len(paths)
}

// AddDir adds every non-hidden image file found directly in dir, ordered by name.
func (s *WorkingSet) AddDir(dir string) (int, error) {
	files, err := filesByExtInDir(dir, "")
	if err != nil {
		return 0, err
	}
	images := files[:0]
	for _, f := range files {
		if isImageFile(f) {
			images = append(images, f)
		}
	}
	return s.AddFiles(images), nil
}

// isImageFile checks if a file has an image extension.
func isImageFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp":
		return true
	}
	return false
}

// Get returns the image with the given ID.
func (s *WorkingSet) Get(id string) (Image, error) {
	i, ok := s.index[id]
	if !ok {
		return Image{}, fmt.Errorf("%w: %q", ErrUnresolvedImagePath, id)
	}
	return s.images[i], nil
}

// Path returns the full path of the image with the given ID.
func (s *WorkingSet) Path(id string) (string, error) {
	img, err := s.Get(id)
	if err != nil {
		return "", err
	}
	return img.Path(), nil
}

// Images returns the images in the order they were added.
func (s *WorkingSet) Images() []Image {
	return append([]Image(nil), s.images...)
}

// Dirs returns the distinct image directories in the order they were first seen.
func (s *WorkingSet) Dirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, img := range s.images {
		if !seen[img.Dir] {
			seen[img.Dir] = true
			dirs = append(dirs, img.Dir)
		}
	}
	return dirs
}

// Len is the number of images.
func (s *WorkingSet) Len() int {
	return len(s.images)
}
