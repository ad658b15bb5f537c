package labelpix

import (
	"errors"
	"testing"
)

func TestCatalogAdd(t *testing.T) {
	c := NewCatalog("cat", "dog")

	tests := []struct {
		name     string
		label    string
		expected bool
	}{
		{name: "new label", label: "bird", expected: true},
		{name: "duplicate label", label: "cat", expected: false},
		{name: "empty label", label: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Add(tt.label); got != tt.expected {
				t.Errorf("Add(%q): expected %v, got %v", tt.label, tt.expected, got)
			}
		})
	}

	names := c.Names()
	expected := []string{"cat", "dog", "bird"}
	if len(names) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, names)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("Expected %v, got %v", expected, names)
		}
	}
}

func TestCatalogRemoveKeepsIndices(t *testing.T) {
	c := NewCatalog("cat", "dog", "bird")

	if !c.Remove("dog") {
		t.Fatal("Expected Remove to return true")
	}
	if c.Remove("dog") {
		t.Error("Expected a second Remove to return false")
	}

	if _, err := c.At(1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for removed index, got %v", err)
	}
	if name, err := c.At(2); err != nil || name != "bird" {
		t.Errorf("Expected bird at index 2, got %q, %v", name, err)
	}
	if c.Len() != 2 {
		t.Errorf("Expected 2 labels, got %d", c.Len())
	}

	// Re-adding a removed name uses a fresh index.
	c.Add("dog")
	if i, ok := c.IndexOf("dog"); !ok || i != 3 {
		t.Errorf("Expected dog at index 3, got %d, %v", i, ok)
	}
}

func TestCatalogAtOutOfRange(t *testing.T) {
	c := NewCatalog("cat")

	for _, i := range []int{-1, 1, 100} {
		if _, err := c.At(i); !errors.Is(err, ErrNotFound) {
			t.Errorf("At(%d): expected ErrNotFound, got %v", i, err)
		}
	}
}

func TestLabelsFromBoxes(t *testing.T) {
	boxes := []Box{
		{LabelIndex: 2, LabelName: "bird"},
		{LabelIndex: 0, LabelName: "cat"},
		{LabelIndex: 2, LabelName: "bird"},
		{LabelIndex: 1, LabelName: "dog"},
	}

	labels := labelsFromBoxes(boxes)
	expected := []Label{{0, "cat"}, {1, "dog"}, {2, "bird"}}
	if len(labels) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, labels)
	}
	for i := range expected {
		if labels[i] != expected[i] {
			t.Errorf("Expected %v, got %v", expected, labels)
		}
	}
}

func TestCatalogAddAt(t *testing.T) {
	tests := []struct {
		name     string
		initial  []string
		index    int
		label    string
		expected int
		labels   []Label
	}{
		{name: "next index", initial: []string{"a"}, index: 1, label: "b", expected: 1,
			labels: []Label{{0, "a"}, {1, "b"}}},
		{name: "gap is reserved", initial: []string{"a"}, index: 3, label: "d", expected: 3,
			labels: []Label{{0, "a"}, {3, "d"}}},
		{name: "index taken by another label", initial: []string{"person"}, index: 0, label: "cat",
			expected: 1, labels: []Label{{0, "person"}, {1, "cat"}}},
		{name: "name already present", initial: []string{"a", "b"}, index: 5, label: "b", expected: 1,
			labels: []Label{{0, "a"}, {1, "b"}}},
		{name: "negative index", initial: []string{"a"}, index: -1, label: "b", expected: 1,
			labels: []Label{{0, "a"}, {1, "b"}}},
		{name: "empty name", initial: []string{"a"}, index: 1, label: "", expected: -1,
			labels: []Label{{0, "a"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCatalog(tt.initial...)
			if got := c.AddAt(tt.index, tt.label); got != tt.expected {
				t.Errorf("Expected index %d, got %d", tt.expected, got)
			}
			labels := c.All()
			if len(labels) != len(tt.labels) {
				t.Fatalf("Expected %v, got %v", tt.labels, labels)
			}
			for i := range labels {
				if labels[i] != tt.labels[i] {
					t.Errorf("Expected %v, got %v", tt.labels, labels)
				}
			}
		})
	}
}

func TestCatalogAddAtFillsReservedSlot(t *testing.T) {
	c := NewCatalog()
	c.AddAt(2, "c")

	if _, err := c.At(1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected reserved index 1 to be absent, got %v", err)
	}
	if got := c.AddAt(1, "b"); got != 1 {
		t.Errorf("Expected b at reserved index 1, got %d", got)
	}
	// New labels go after the highest index.
	c.Add("d")
	if i, ok := c.IndexOf("d"); !ok || i != 3 {
		t.Errorf("Expected d at index 3, got %d, %v", i, ok)
	}

	// A removed label keeps its index.
	c.Remove("b")
	if got := c.AddAt(1, "x"); got != 4 {
		t.Errorf("Expected x appended at index 4, got %d", got)
	}
}
