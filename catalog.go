package labelpix

import (
	"fmt"
	"sort"
)

// Label is an entry of the label catalog.
type Label struct {
	Index int
	Name  string
}

// Catalog is the ordered set of labels (object classes) of a session.
//
// Indices follow insertion order and are never reused or shifted. Removing a label hides it but
// leaves boxes that reference its index untouched.
type Catalog struct {
	names   []string
	removed []bool
}

// NewCatalog returns a catalog holding the given labels, in order.
func NewCatalog(names ...string) *Catalog {
	c := &Catalog{}
	for _, n := range names {
		c.Add(n)
	}
	return c
}

// Add appends name at the next index. It returns false without changes if name is empty or
// already present.
func (c *Catalog) Add(name string) bool {
	if name == "" {
		return false
	}
	if _, ok := c.IndexOf(name); ok {
		return false
	}
	c.names = append(c.names, name)
	c.removed = append(c.removed, false)
	return true
}

// AddAt places name at index and returns the index name ends up at. Skipped indices are reserved
// as removed slots. If name is already present, its current index is returned. If index is taken
// by another label, or is negative, name is appended as by Add.
func (c *Catalog) AddAt(index int, name string) int {
	if name == "" {
		return -1
	}
	if i, ok := c.IndexOf(name); ok {
		return i
	}
	switch {
	case index >= len(c.names):
		for len(c.names) < index {
			c.names = append(c.names, "")
			c.removed = append(c.removed, true)
		}
	case index >= 0 && c.names[index] == "":
		// A reserved slot.
		c.names[index] = name
		c.removed[index] = false
		return index
	default:
		index = len(c.names)
	}
	c.names = append(c.names, name)
	c.removed = append(c.removed, false)
	return index
}

// Remove hides the label called name. It returns false if no such label is present.
func (c *Catalog) Remove(name string) bool {
	i, ok := c.IndexOf(name)
	if !ok {
		return false
	}
	c.removed[i] = true
	return true
}

// At returns the name of the label at index.
func (c *Catalog) At(index int) (string, error) {
	if index < 0 || index >= len(c.names) || c.removed[index] {
		return "", fmt.Errorf("label %d: %w", index, ErrNotFound)
	}
	return c.names[index], nil
}

// IndexOf returns the index of the present label called name.
func (c *Catalog) IndexOf(name string) (int, bool) {
	for i, n := range c.names {
		if n == name && !c.removed[i] {
			return i, true
		}
	}
	return 0, false
}

// All returns the present labels ordered by index.
func (c *Catalog) All() []Label {
	labels := make([]Label, 0, len(c.names))
	for i, n := range c.names {
		if !c.removed[i] {
			labels = append(labels, Label{Index: i, Name: n})
		}
	}
	return labels
}

// Names returns the present label names ordered by index.
func (c *Catalog) Names() []string {
	labels := c.All()
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = l.Name
	}
	return names
}

// Len is the number of present labels.
func (c *Catalog) Len() int {
	return len(c.All())
}

// labelsFromBoxes returns the distinct (index, name) pairs used by boxes, sorted by index and
// then name.
func labelsFromBoxes(boxes []Box) []Label {
	seen := make(map[Label]bool)
	var labels []Label
	for _, b := range boxes {
		l := Label{Index: b.LabelIndex, Name: b.LabelName}
		if !seen[l] {
			seen[l] = true
			labels = append(labels, l)
		}
	}
	sort.Slice(labels, func(i, j int) bool {
		if labels[i].Index != labels[j].Index {
			return labels[i].Index < labels[j].Index
		}
		return labels[i].Name < labels[j].Name
	})
	return labels
}
