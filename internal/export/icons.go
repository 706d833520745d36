package export

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"augmentstats/internal/icons"

	"github.com/bytedance/sonic"
)

// WriteIcons writes the reference icons as a JSON object keyed by augment name.
func WriteIcons(w io.Writer, entries map[string]icons.Fingerprint) error {
	if entries == nil {
		entries = map[string]icons.Fingerprint{}
	}
	b, err := sonic.ConfigStd.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode icons: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("failed to write icons: %w", err)
	}
	return nil
}

// ReadIcons parses a JSON icon database. Values are either fingerprints as written by
// WriteIcons or image data URLs ("data:image/png;base64,..."), the format older augment
// databases used; images are fingerprinted on import.
func ReadIcons(r io.Reader) (map[string]icons.Fingerprint, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read icons: %w", err)
	}
	raw := map[string]json.RawMessage{}
	if err := sonic.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse icons: %w", err)
	}

	entries := make(map[string]icons.Fingerprint, len(raw))
	for name, value := range raw {
		if name == "" {
			return nil, fmt.Errorf("failed to parse icons: empty augment name")
		}
		fp, err := parseIcon(value)
		if err != nil {
			return nil, fmt.Errorf("failed to parse icon %q: %w", name, err)
		}
		if fp.IsZero() {
			return nil, fmt.Errorf("failed to parse icons: %q has no fingerprint", name)
		}
		entries[name] = fp
	}
	return entries, nil
}

func parseIcon(value json.RawMessage) (icons.Fingerprint, error) {
	var fp icons.Fingerprint
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		err := sonic.Unmarshal(trimmed, &fp)
		return fp, err
	}

	var dataURL string
	if err := sonic.Unmarshal(trimmed, &dataURL); err != nil {
		return fp, err
	}
	img, err := decodeDataURL(dataURL)
	if err != nil {
		return fp, err
	}
	return icons.FingerprintIcon(img)
}

// decodeDataURL decodes a base64 image data URL.
func decodeDataURL(s string) (image.Image, error) {
	header, payload, ok := strings.Cut(s, ",")
	if !ok || !strings.HasPrefix(header, "data:image/") || !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("not a base64 image data URL")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data URL: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode icon image: %w", err)
	}
	return img, nil
}
