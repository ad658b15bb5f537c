package labelpix

// Table (CSV and Parquet) specific functionality.

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// The table columns, in file order.
var tableHeader = []string{"Image", "Object Name", "Object Index", "bx", "by", "bw", "bh"}

// TableRow is a single row of a table file.
type TableRow struct {
	Image       string  `parquet:"Image"`
	ObjectName  string  `parquet:"Object Name"`
	ObjectIndex int64   `parquet:"Object Index"`
	BX          float64 `parquet:"bx"`
	BY          float64 `parquet:"by"`
	BW          float64 `parquet:"bw"`
	BH          float64 `parquet:"bh"`
}

// ToTable converts boxes to table rows.
func ToTable(boxes []Box) []TableRow {
	rows := make([]TableRow, len(boxes))
	for i, b := range boxes {
		rows[i] = TableRow{
			Image:       b.ImageID,
			ObjectName:  b.LabelName,
			ObjectIndex: int64(b.LabelIndex),
			BX:          b.X,
			BY:          b.Y,
			BW:          b.W,
			BH:          b.H,
		}
	}
	return rows
}

// FromTable converts table rows to boxes without IDs, ready to be merged into a Store.
func FromTable(rows []TableRow) []Box {
	boxes := make([]Box, len(rows))
	for i, r := range rows {
		boxes[i] = Box{
			ImageID:    r.Image,
			LabelIndex: int(r.ObjectIndex),
			LabelName:  r.ObjectName,
			RatioBox:   RatioBox{X: r.BX, Y: r.BY, W: r.BW, H: r.BH},
		}
	}
	return boxes
}

// tableFormat selects the table encoding from the file extension of path.
func tableFormat(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return "csv", nil
	case ".parquet":
		return "parquet", nil
	default:
		return "", fmt.Errorf("%w: table file extension %q (supported: .csv, .parquet)",
			ErrUnsupportedFormat, ext)
	}
}

// WriteTable writes all rows to path, encoded as CSV or Parquet depending on its extension.
func WriteTable(path string, rows []TableRow) error {
	format, err := tableFormat(path)
	if err != nil {
		return err
	}

	switch format {
	case "parquet":
		err = writeParquetTable(path, rows)
	default:
		err = writeCSVTable(path, rows)
	}
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrFileWrite, path, err)
	}

	slog.Info("Wrote table", "path", path, "rows", len(rows))
	return nil
}

// ReadTable reads the rows of the CSV or Parquet table at path.
func ReadTable(path string) ([]TableRow, error) {
	format, err := tableFormat(path)
	if err != nil {
		return nil, err
	}

	var rows []TableRow
	switch format {
	case "parquet":
		rows, err = readParquetTable(path)
	default:
		rows, err = readCSVTable(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read table %q: %w", path, err)
	}

	slog.Debug("Read table", "path", path, "rows", len(rows))
	return rows, nil
}

func writeCSVTable(path string, rows []TableRow) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeWithErrCheck(f, &err)

	w := csv.NewWriter(f)
	if err := w.Write(tableHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.Image,
			r.ObjectName,
			strconv.FormatInt(r.ObjectIndex, 10),
			formatFloat(r.BX),
			formatFloat(r.BY),
			formatFloat(r.BW),
			formatFloat(r.BH),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// readCSVTable reads a CSV table. Columns are located by their header name, so extra columns (such
// as a leading row index) are ignored.
func readCSVTable(path string) (rows []TableRow, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer closeWithErrCheck(f, &err)

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("missing header")
		}
		return nil, err
	}
	cols := make([]int, len(tableHeader))
	for i, name := range tableHeader {
		cols[i] = -1
		for j, h := range header {
			if strings.TrimSpace(h) == name {
				cols[i] = j
				break
			}
		}
		if cols[i] < 0 {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	for line := 2; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}

		field := func(i int) string {
			if cols[i] < len(record) {
				return strings.TrimSpace(record[cols[i]])
			}
			return ""
		}

		row := TableRow{Image: field(0), ObjectName: field(1)}
		if row.ObjectIndex, err = strconv.ParseInt(field(2), 10, 64); err != nil {
			return nil, fmt.Errorf("line %d: invalid object index: %w", line, err)
		}
		for i, v := range []*float64{&row.BX, &row.BY, &row.BW, &row.BH} {
			if *v, err = strconv.ParseFloat(field(3+i), 64); err != nil {
				return nil, fmt.Errorf("line %d: invalid %s: %w", line, tableHeader[3+i], err)
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func writeParquetTable(path string, rows []TableRow) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeWithErrCheck(f, &err)

	w := parquet.NewGenericWriter[TableRow](f)
	if _, err := w.Write(rows); err != nil {
		return err
	}
	return w.Close()
}

func readParquetTable(path string) ([]TableRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[TableRow](pf)
	defer reader.Close()

	rows := make([]TableRow, 0, pf.NumRows())
	batch := make([]TableRow, 128)
	for {
		n, err := reader.Read(batch)
		rows = append(rows, batch[:n]...)
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}
	}

	return rows, nil
}

// formatFloat formats v with the minimal number of digits that represent it exactly.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
