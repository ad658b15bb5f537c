package labelpix

// Overlay rendering of labeled boxes.

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"

	"github.com/llgcode/draw2d/draw2dimg"
)

// OverlayRect is a rectangle to draw over the displayed image, in display-frame pixels.
type OverlayRect struct {
	Rect
	BoxID uint64
	Label string
}

// OverlayRects maps boxes onto a display frame of the given size.
func OverlayRects(boxes []Box, frameWidth, frameHeight float64) ([]OverlayRect, error) {
	rects := make([]OverlayRect, 0, len(boxes))
	for _, b := range boxes {
		r, err := FromRatios(b.RatioBox, frameWidth, frameHeight)
		if err != nil {
			return nil, err
		}
		rects = append(rects, OverlayRect{Rect: r, BoxID: b.ID, Label: b.LabelName})
	}
	return rects, nil
}

// DrawOverlay strokes the outline of each rectangle onto dst.
func DrawOverlay(dst *image.RGBA, rects []OverlayRect, c color.Color, lineWidth float64) {
	gc := draw2dimg.NewGraphicContext(dst)
	gc.SetStrokeColor(c)
	gc.SetLineWidth(lineWidth)

	for _, r := range rects {
		x1, y1 := r.X, r.Y
		x2, y2 := r.X+r.W, r.Y+r.H
		gc.BeginPath()
		gc.MoveTo(x1, y1)
		gc.LineTo(x2, y1)
		gc.LineTo(x2, y2)
		gc.LineTo(x1, y2)
		gc.Close()
		gc.Stroke()
	}
}

// RenderPreview draws the boxes over the image at imagePath, stretched to the display frame of
// settings, and saves the result to outPath (JPEG, PNG or WebP by extension).
func RenderPreview(imagePath string, boxes []Box, settings Settings, outPath string) error {
	img, _, err := loadImage(imagePath)
	if err != nil {
		return fmt.Errorf("failed to load %q: %w", imagePath, err)
	}

	width, height := settings.Display.Width, settings.Display.Height
	rects, err := OverlayRects(boxes, float64(width), float64(height))
	if err != nil {
		return err
	}

	resized := resizeToFrame(img, width, height)
	canvas := image.NewRGBA(resized.Bounds())
	draw.Draw(canvas, canvas.Bounds(), resized, resized.Bounds().Min, draw.Src)
	DrawOverlay(canvas, rects, settings.Overlay.RGBA(), settings.Overlay.LineWidth)

	if err := saveImage(outPath, canvas, settings.JPEGQuality); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrFileWrite, outPath, err)
	}
	slog.Info("Rendered preview", "image", imagePath, "boxes", len(rects), "out", outPath)
	return nil
}
