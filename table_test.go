package labelpix

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func testRows() []TableRow {
	return []TableRow{
		{Image: "a.png", ObjectName: "cat", ObjectIndex: 0, BX: 0.5, BY: 0.5, BW: 0.2, BH: 0.2},
		{Image: "a.png", ObjectName: "dog", ObjectIndex: 1, BX: 0.25, BY: 0.75, BW: 0.1, BH: 0.3},
		{Image: "b.jpg", ObjectName: "cat", ObjectIndex: 0, BX: 1.0 / 3, BY: 0.1, BW: 0, BH: 0},
	}
}

func TestTableRoundTrip(t *testing.T) {
	for _, ext := range []string{".csv", ".parquet"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "labels"+ext)
			rows := testRows()

			if err := WriteTable(path, rows); err != nil {
				t.Fatalf("Failed to write table: %v", err)
			}
			got, err := ReadTable(path)
			if err != nil {
				t.Fatalf("Failed to read table: %v", err)
			}

			if len(got) != len(rows) {
				t.Fatalf("Expected %d rows, got %d", len(rows), len(got))
			}
			for i := range rows {
				if got[i] != rows[i] {
					t.Errorf("Row %d: expected %+v, got %+v", i, rows[i], got[i])
				}
			}
		})
	}
}

func TestCSVTableHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.csv")
	if err := WriteTable(path, testRows()[:1]); err != nil {
		t.Fatalf("Failed to write table: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(readTestFile(t, path)), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "Image,Object Name,Object Index,bx,by,bw,bh" {
		t.Errorf("Unexpected header %q", lines[0])
	}
	if lines[1] != "a.png,cat,0,0.5,0.5,0.2,0.2" {
		t.Errorf("Unexpected row %q", lines[1])
	}
}

func TestReadCSVTableWithIndexColumn(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "labels.csv",
		",Image,Object Name,Object Index,bx,by,bw,bh\n"+
			"0,a.png,cat,0,0.5,0.5,0.2,0.2\n"+
			"1,a.png,dog,1,0.1,0.2,0.3,0.4\n")

	rows, err := ReadTable(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	expected := TableRow{Image: "a.png", ObjectName: "dog", ObjectIndex: 1, BX: 0.1, BY: 0.2,
		BW: 0.3, BH: 0.4}
	if rows[1] != expected {
		t.Errorf("Expected %+v, got %+v", expected, rows[1])
	}
}

func TestReadCSVTableErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty file", content: ""},
		{name: "missing column", content: "Image,Object Name,bx,by,bw,bh\na.png,cat,0.5,0.5,0.2,0.2\n"},
		{name: "invalid index", content: "Image,Object Name,Object Index,bx,by,bw,bh\na.png,cat,x,0.5,0.5,0.2,0.2\n"},
		{name: "invalid ratio", content: "Image,Object Name,Object Index,bx,by,bw,bh\na.png,cat,0,0.5,y,0.2,0.2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTestFile(t, t.TempDir(), "labels.csv", tt.content)
			if _, err := ReadTable(path); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestTableUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.json")

	if err := WriteTable(path, testRows()); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := ReadTable(path); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestTableBoxConversion(t *testing.T) {
	s := NewStore()
	s.Add("a.png", 2, "bird", RatioBox{X: 0.1, Y: 0.2, W: 0.3, H: 0.4})

	boxes := FromTable(ToTable(s.All()))
	if len(boxes) != 1 {
		t.Fatalf("Expected 1 box, got %d", len(boxes))
	}
	b := boxes[0]
	if b.ID != 0 || !b.sameRow(s.All()[0]) {
		t.Errorf("Expected an unassigned copy of %+v, got %+v", s.All()[0], b)
	}
}
