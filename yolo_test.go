package labelpix

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestYOLOAnnotationString(t *testing.T) {
	a := YOLOAnnotation{LabelIndex: 0, Box: RatioBox{X: 0.5, Y: 0.5, W: 0.2, H: 0.2}}

	if got := a.String(); got != "0 0.5 0.5 0.2 0.2" {
		t.Errorf("Expected %q, got %q", "0 0.5 0.5 0.2 0.2", got)
	}
}

func TestWriteYOLO(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, dir, "a.png", 4, 4)
	writeTestPNG(t, dir, "b.png", 4, 4)
	// A stale label file from an earlier save and an unrelated text file.
	writeTestFile(t, dir, "b.txt", "1 0.1 0.1 0.1 0.1\n")
	writeTestFile(t, dir, "notes.txt", "keep me\n")

	set := NewWorkingSet()
	if _, err := set.AddDir(dir); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	store := NewStore()
	store.Add("a.png", 0, "cat", RatioBox{X: 0.5, Y: 0.5, W: 0.2, H: 0.2})
	store.Add("a.png", 1, "dog", RatioBox{X: 0.25, Y: 0.75, W: 0.1, H: 0.3})

	for i := 0; i < 2; i++ {
		report := WriteYOLO(store, set)
		if err := report.Err(); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(report.Written) != 1 {
			t.Fatalf("Expected 1 written file, got %v", report.Written)
		}
	}

	expected := "0 0.5 0.5 0.2 0.2\n1 0.25 0.75 0.1 0.3\n"
	if got := readTestFile(t, filepath.Join(dir, "a.txt")); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
	if _, err := os.Stat(filepath.Join(dir, "b.txt")); !os.IsNotExist(err) {
		t.Errorf("Expected stale b.txt to be removed, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "notes.txt")); err != nil {
		t.Errorf("Expected notes.txt to be kept, got %v", err)
	}
}

func TestWriteYOLOEmptyStore(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, dir, "a.png", 4, 4)
	writeTestFile(t, dir, "a.txt", "0 0.5 0.5 0.2 0.2\n")

	set := NewWorkingSet()
	set.AddFiles([]string{filepath.Join(dir, "a.png")})

	report := WriteYOLO(NewStore(), set)
	if len(report.Written) != 0 || len(report.Failures) != 0 {
		t.Errorf("Expected an empty report, got %+v", report)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.txt")); err != nil {
		t.Errorf("Expected a.txt to be untouched, got %v", err)
	}
}

func TestWriteYOLOUnresolvedImage(t *testing.T) {
	dir := t.TempDir()
	set := NewWorkingSet()
	set.AddFiles([]string{filepath.Join(dir, "a.png")})

	store := NewStore()
	store.Add("a.png", 0, "cat", RatioBox{X: 0.5, Y: 0.5, W: 0.2, H: 0.2})
	store.Add("gone.png", 0, "cat", RatioBox{X: 0.5, Y: 0.5, W: 0.2, H: 0.2})

	report := WriteYOLO(store, set)
	if len(report.Written) != 1 {
		t.Errorf("Expected 1 written file, got %v", report.Written)
	}
	if len(report.Failures) != 1 || report.Failures[0].ImageID != "gone.png" {
		t.Fatalf("Expected a failure for gone.png, got %+v", report.Failures)
	}
	if !errors.Is(report.Err(), ErrUnresolvedImagePath) {
		t.Errorf("Expected ErrUnresolvedImagePath, got %v", report.Err())
	}
	if status := report.Status("YOLO"); !strings.Contains(status, "1 failed: gone.png") {
		t.Errorf("Unexpected status %q", status)
	}
}

func TestFromYOLO(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, dir, "a.png", 4, 4)
	writeTestPNG(t, dir, "b.png", 4, 4)
	writeTestFile(t, dir, "a.txt", "0 0.5 0.5 0.2 0.2\n\n5 0.1 0.1 0.1 0.1\nbroken line\n1 0.25 0.75 0.1 0.3\n")

	set := NewWorkingSet()
	if _, err := set.AddDir(dir); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	boxes, err := FromYOLO(set, NewCatalog("cat", "dog"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(boxes) != 2 {
		t.Fatalf("Expected 2 boxes, got %d: %+v", len(boxes), boxes)
	}
	expected := Box{ImageID: "a.png", LabelIndex: 1, LabelName: "dog",
		RatioBox: RatioBox{X: 0.25, Y: 0.75, W: 0.1, H: 0.3}}
	if boxes[1] != expected {
		t.Errorf("Expected %+v, got %+v", expected, boxes[1])
	}
}

func TestParseYOLOAnnotation(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantErr bool
	}{
		{name: "valid", line: "3 0.1 0.2 0.3 0.4"},
		{name: "extra whitespace", line: "  3\t0.1 0.2  0.3 0.4 "},
		{name: "too few values", line: "3 0.1 0.2 0.3", wantErr: true},
		{name: "invalid index", line: "x 0.1 0.2 0.3 0.4", wantErr: true},
		{name: "invalid ratio", line: "3 0.1 y 0.3 0.4", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := parseYOLOAnnotation(tt.line)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if a.LabelIndex != 3 || a.Box != (RatioBox{X: 0.1, Y: 0.2, W: 0.3, H: 0.4}) {
				t.Errorf("Unexpected annotation %+v", a)
			}
		})
	}
}

func TestWriteYOLOSharedLabelFile(t *testing.T) {
	dir := t.TempDir()
	set := NewWorkingSet()
	set.AddFiles([]string{
		writeTestPNG(t, dir, "a.jpg", 4, 4),
		writeTestPNG(t, dir, "a.png", 4, 4),
	})
	store := NewStore()
	store.Add("a.jpg", 0, "cat", RatioBox{X: 0.5, Y: 0.5, W: 0.2, H: 0.2})
	store.Add("a.png", 1, "dog", RatioBox{X: 0.1, Y: 0.1, W: 0.1, H: 0.1})

	report := WriteYOLO(store, set)
	if err := report.Err(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	labelPath := filepath.Join(dir, "a.txt")
	if len(report.Written) != 1 || report.Written[0] != labelPath {
		t.Errorf("Expected a single write of %s, got %v", labelPath, report.Written)
	}

	expected := "0 0.5 0.5 0.2 0.2\n1 0.1 0.1 0.1 0.1\n"
	if got := readTestFile(t, labelPath); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}

	// Reading back attributes the shared file to the first image only.
	boxes, err := FromYOLO(set, NewCatalog("cat", "dog"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(boxes) != 2 || boxes[0].ImageID != "a.jpg" || boxes[1].ImageID != "a.jpg" {
		t.Errorf("Expected both boxes on a.jpg, got %+v", boxes)
	}
}

func TestWriteYOLOClearFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	set := NewWorkingSet()
	set.AddFiles([]string{filepath.Join(dir, "a.png")})
	store := NewStore()
	store.Add("a.png", 0, "cat", RatioBox{X: 0.5, Y: 0.5, W: 0.2, H: 0.2})

	report := WriteYOLO(store, set)

	var dirErr error
	for _, f := range report.Failures {
		if f.ImageID == dir {
			dirErr = f.Err
		}
	}
	if !errors.Is(dirErr, ErrFileWrite) {
		t.Errorf("Expected a clearing failure for %s, got %+v", dir, report.Failures)
	}
	if len(report.Written) != 0 {
		t.Errorf("Expected no written files, got %v", report.Written)
	}
}
