package labelpix

// Pascal VOC specific functionality.

import (
	"encoding/xml"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
)

// VOCBndBox is the pixel-space bounding box of an object.
type VOCBndBox struct {
	XMin int `xml:"xmin"`
	YMin int `xml:"ymin"`
	XMax int `xml:"xmax"`
	YMax int `xml:"ymax"`
}

// VOCObject is a single object annotation within a VOC document.
type VOCObject struct {
	Name   string    `xml:"name"`
	BndBox VOCBndBox `xml:"bndbox"`
}

// VOCSize is the true size of the annotated image.
type VOCSize struct {
	Width  int `xml:"width"`
	Height int `xml:"height"`
	Depth  int `xml:"depth"`
}

// VOCAnnotation defines the VOC annotation document for a single image.
type VOCAnnotation struct {
	XMLName  xml.Name    `xml:"annotation"`
	Folder   string      `xml:"folder"`
	Filename string      `xml:"filename"`
	Path     string      `xml:"path"`
	Size     VOCSize     `xml:"size"`
	Objects  []VOCObject `xml:"object"`
}

// ToVOC converts the pixel-space representation to VOC format.
func ToVOC(data []AnnotatedFile) []VOCAnnotation {
	vocData := make([]VOCAnnotation, 0, len(data))
	for _, f := range data {
		path := f.FilePath
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}

		doc := VOCAnnotation{
			Folder:   filepath.Base(filepath.Dir(path)),
			Filename: filepath.Base(path),
			Path:     path,
			Size:     VOCSize{Width: f.Width, Height: f.Height, Depth: 3},
			Objects:  make([]VOCObject, len(f.Annotations)),
		}
		for i, a := range f.Annotations {
			doc.Objects[i] = VOCObject{
				Name: a.Label,
				BndBox: VOCBndBox{
					XMin: int(math.Round(a.Coords[0])),
					YMin: int(math.Round(a.Coords[1])),
					XMax: int(math.Round(a.Coords[2])),
					YMax: int(math.Round(a.Coords[3])),
				},
			}
		}
		vocData = append(vocData, doc)
	}

	return vocData
}

// WriteVOC writes one VOC XML document per annotated image of store, next to the image.
//
// Box ratios are mapped onto the true image size read from each image file. Images that are missing
// from set, cannot be measured or cannot be written are reported in the returned report; the
// remaining images are still written. Of several images that map to the same .xml file (a.jpg and
// a.png), only the first is written; the others are reported as failures.
func WriteVOC(store *Store, set *WorkingSet) ExportReport {
	var report ExportReport
	data, failures := toAnnotatedFiles(store, set)
	report.Failures = failures
	for _, f := range failures {
		slog.Warn("Skipping VOC export", "image", f.ImageID, "err", f.Err)
	}
	if len(data) == 0 {
		return report
	}
	slog.Info("Writing VOC labels", "files", len(data))

	written := make(map[string]string)
	for _, doc := range ToVOC(data) {
		outPath := siblingPath(doc.Path, ".xml")
		if other, ok := written[outPath]; ok {
			report.fail(doc.Filename, fmt.Errorf("%w: %q already holds the annotations of %s",
				ErrFileWrite, outPath, other))
			continue
		}
		written[outPath] = doc.Filename
		if err := writeVOCFile(outPath, doc); err != nil {
			slog.Warn("Failed to write VOC labels", "image", doc.Filename, "err", err)
			report.fail(doc.Filename, fmt.Errorf("%w: %q: %v", ErrFileWrite, outPath, err))
			continue
		}
		report.Written = append(report.Written, outPath)
	}

	return report
}

// writeVOCFile writes doc as a tab-indented, UTF-8 encoded XML document.
func writeVOCFile(path string, doc VOCAnnotation) error {
	enc, err := xml.MarshalIndent(doc, "", "\t")
	if err != nil {
		return err
	}
	out := append([]byte(xml.Header), enc...)
	out = append(out, '\n')
	return os.WriteFile(path, out, 0644)
}

// ReadVOC parses the VOC document at path.
func ReadVOC(path string) (VOCAnnotation, error) {
	enc, err := os.ReadFile(path)
	if err != nil {
		return VOCAnnotation{}, err
	}

	var doc VOCAnnotation
	if err := xml.Unmarshal(enc, &doc); err != nil {
		return VOCAnnotation{}, fmt.Errorf("failed to parse VOC input from %q: %w", path, err)
	}
	return doc, nil
}
