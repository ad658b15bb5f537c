package labelpix

// The in-memory annotation store of a session.

// Box is a single labeled object instance drawn on an image.
type Box struct {
	ID         uint64 // Assigned by the Store, unique for the lifetime of the store.
	ImageID    string // Base file name of the image.
	LabelIndex int    // Index into the label catalog at creation time.
	LabelName  string // Label text at creation time; not updated if the catalog changes.
	RatioBox
}

// sameRow reports whether a and b describe the same annotation, ignoring their IDs.
func (a Box) sameRow(b Box) bool {
	return a.ImageID == b.ImageID && a.LabelIndex == b.LabelIndex &&
		a.LabelName == b.LabelName && a.RatioBox == b.RatioBox
}

// Store holds the labeled boxes of all images in insertion order.
type Store struct {
	boxes  []Box
	nextID uint64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// Add appends a box and returns it with its assigned ID. Identical boxes are allowed.
func (s *Store) Add(imageID string, labelIndex int, labelName string, b RatioBox) Box {
	box := Box{
		ID:         s.nextID,
		ImageID:    imageID,
		LabelIndex: labelIndex,
		LabelName:  labelName,
		RatioBox:   b,
	}
	s.nextID++
	s.boxes = append(s.boxes, box)
	return box
}

// ForImage returns the boxes of imageID in insertion order.
func (s *Store) ForImage(imageID string) []Box {
	var boxes []Box
	for _, b := range s.boxes {
		if b.ImageID == imageID {
			boxes = append(boxes, b)
		}
	}
	return boxes
}

// Get returns the box with the given ID.
func (s *Store) Get(id uint64) (Box, bool) {
	for _, b := range s.boxes {
		if b.ID == id {
			return b, true
		}
	}
	return Box{}, false
}

// Remove deletes the box with the given ID. It is a no-op returning false if there is none.
func (s *Store) Remove(id uint64) bool {
	for i, b := range s.boxes {
		if b.ID == id {
			s.boxes = append(s.boxes[:i], s.boxes[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes all boxes.
func (s *Store) Clear() {
	s.boxes = nil
}

// Merge appends rows, assigning new IDs, and then drops every box that duplicates an earlier one.
func (s *Store) Merge(rows []Box) {
	for _, r := range rows {
		s.Add(r.ImageID, r.LabelIndex, r.LabelName, r.RatioBox)
	}

	kept := s.boxes[:0]
outer:
	for _, b := range s.boxes {
		for _, k := range kept {
			if k.sameRow(b) {
				continue outer
			}
		}
		kept = append(kept, b)
	}
	s.boxes = kept
}

// All returns a copy of all boxes in insertion order.
func (s *Store) All() []Box {
	return append([]Box(nil), s.boxes...)
}

// Len is the number of boxes.
func (s *Store) Len() int {
	return len(s.boxes)
}

// Images returns the distinct image IDs in order of their first box.
func (s *Store) Images() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, b := range s.boxes {
		if !seen[b.ImageID] {
			seen[b.ImageID] = true
			ids = append(ids, b.ImageID)
		}
	}
	return ids
}

// groupByImage returns the boxes of each image, keyed by image ID, along with the image IDs in
// order of their first box.
func (s *Store) groupByImage() (map[string][]Box, []string) {
	groups := make(map[string][]Box)
	var order []string
	for _, b := range s.boxes {
		if _, ok := groups[b.ImageID]; !ok {
			order = append(order, b.ImageID)
		}
		groups[b.ImageID] = append(groups[b.ImageID], b)
	}
	return groups, order
}
