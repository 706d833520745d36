package vision

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"strings"
)

// Recognizer reads text from an image.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// Tesseract runs the tesseract command line tool on a single text line.
type Tesseract struct {
	Path      string // binary, defaults to "tesseract"
	Language  string // defaults to "eng"
	Whitelist string // characters tesseract may emit; empty allows all
}

// NewTesseract returns a recognizer tuned for stage labels like "4-3".
func NewTesseract(path string) *Tesseract {
	if path == "" {
		path = "tesseract"
	}
	return &Tesseract{Path: path, Language: "eng", Whitelist: "0123456789-"}
}

func (t *Tesseract) Recognize(ctx context.Context, img image.Image) (string, error) {
	tmp, err := os.CreateTemp("", "augmentstats-ocr-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create ocr input: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to encode ocr input: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write ocr input: %w", err)
	}

	lang := t.Language
	if lang == "" {
		lang = "eng"
	}
	// psm 7: treat the image as a single text line
	args := []string{tmp.Name(), "stdout", "-l", lang, "--psm", "7"}
	if t.Whitelist != "" {
		args = append(args, "-c", "tessedit_char_whitelist="+t.Whitelist)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.Path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract failed: %w (%s)", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
