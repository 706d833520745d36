package vision

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Rect is a region in normalized frame coordinates (0..1 on both axes).
type Rect struct {
	X, Y, W, H float64
}

// Pixels maps the rectangle onto a frame with the given bounds.
func (r Rect) Pixels(bounds image.Rectangle) image.Rectangle {
	fw, fh := float64(bounds.Dx()), float64(bounds.Dy())
	x0 := bounds.Min.X + int(math.Round(r.X*fw))
	y0 := bounds.Min.Y + int(math.Round(r.Y*fh))
	return image.Rect(x0, y0, x0+int(math.Round(r.W*fw)), y0+int(math.Round(r.H*fh)))
}

// SquareAt returns a square of side size*frameWidth centered on the normalized point.
// The square may extend past the frame edges; those pixels read as transparent.
func SquareAt(bounds image.Rectangle, cx, cy, size float64) image.Rectangle {
	side := size * float64(bounds.Dx())
	x0 := float64(bounds.Min.X) + cx*float64(bounds.Dx()) - side/2
	y0 := float64(bounds.Min.Y) + cy*float64(bounds.Dy()) - side/2
	return image.Rect(
		int(math.Round(x0)), int(math.Round(y0)),
		int(math.Round(x0+side)), int(math.Round(y0+side)),
	)
}

// Crop copies region out of frame without resampling.
func Crop(frame image.Image, region image.Rectangle) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, region.Dx(), region.Dy()))
	draw.Copy(dst, image.Point{}, frame, region, draw.Src, nil)
	return dst
}

// CropScaled copies region out of frame and resamples it to size.
func CropScaled(frame image.Image, region image.Rectangle, size image.Point) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	draw.CatmullRom.Scale(dst, dst.Bounds(), frame, region, draw.Src, nil)
	return dst
}
