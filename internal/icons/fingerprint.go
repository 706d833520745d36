package icons

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"
	"math/bits"

	"golang.org/x/image/draw"
)

// CanonicalSize is the resolution every icon crop is resampled to before fingerprinting.
var CanonicalSize = image.Pt(64, 64)

// Fingerprint identifies an augment icon.
type Fingerprint struct {
	// Hash is a 64-bit difference hash of the icon.
	Hash uint64 `json:"hash,string"`
	// Thumb is the PNG encoded canonical crop, kept for display and prefix matching.
	Thumb []byte `json:"thumb"`
}

// NewFingerprint fingerprints an icon crop.
func NewFingerprint(img image.Image) (Fingerprint, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Fingerprint{}, fmt.Errorf("failed to encode icon: %w", err)
	}
	return Fingerprint{Hash: DHash(img), Thumb: buf.Bytes()}, nil
}

// IsZero reports whether the fingerprint is empty.
func (f Fingerprint) IsZero() bool {
	return f.Hash == 0 && len(f.Thumb) == 0
}

// MinContrast is the gray-level standard deviation below which a crop is treated as
// blank. Flat crops all hash to zero and would match each other.
const MinContrast = 4.0

// hashGrid shrinks img to the 9x8 grayscale grid the hash is computed on.
func hashGrid(img image.Image) *image.Gray {
	small := image.NewGray(image.Rect(0, 0, 9, 8))
	draw.ApproxBiLinear.Scale(small, small.Bounds(), img, img.Bounds(), draw.Src, nil)
	return small
}

// DHash computes a difference hash: the image is shrunk to 9x8 grayscale and each bit
// records whether a pixel is brighter than its right neighbour.
func DHash(img image.Image) uint64 {
	small := hashGrid(img)

	var hash uint64
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			hash <<= 1
			if small.GrayAt(x, y).Y > small.GrayAt(x+1, y).Y {
				hash |= 1
			}
		}
	}
	return hash
}

// Contrast is the standard deviation of the gray levels of the hash grid.
func Contrast(img image.Image) float64 {
	small := hashGrid(img)
	n := float64(len(small.Pix))
	var sum, sq float64
	for _, v := range small.Pix {
		sum += float64(v)
		sq += float64(v) * float64(v)
	}
	mean := sum / n
	return math.Sqrt(math.Max(sq/n-mean*mean, 0))
}

// Distance is the Hamming distance between two hashes.
func Distance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}
