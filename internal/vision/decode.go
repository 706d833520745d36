package vision

import (
	"context"
	"fmt"
	"image"
	"io"

	// Screenshot tools save PNG or JPEG; the rest are here for exported captures.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Source is anything that can hand out encoded image bytes.
type Source interface {
	Open() (io.ReadCloser, error)
}

// Decoder turns a source into pixels.
type Decoder interface {
	Decode(ctx context.Context, src Source) (image.Image, error)
}

// FileDecoder decodes any registered image format.
type FileDecoder struct{}

func (FileDecoder) Decode(ctx context.Context, src Source) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer r.Close()

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
