package export

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"augmentstats/internal/icons"
)

func TestIconsRoundTrip(t *testing.T) {
	entries := map[string]icons.Fingerprint{
		"Featherweights": {Hash: 0xF0F0F0F0F0F0F0F0, Thumb: []byte{1, 2, 3}},
		"Jeweled Lotus":  {Hash: 42},
	}

	var buf bytes.Buffer
	if err := WriteIcons(&buf, entries); err != nil {
		t.Fatalf("WriteIcons() error = %v", err)
	}
	// hashes above 2^53 must survive JavaScript consumers
	if !strings.Contains(buf.String(), `"17361641481138401520"`) {
		t.Errorf("hash not encoded as string: %s", buf.String())
	}

	got, err := ReadIcons(&buf)
	if err != nil {
		t.Fatalf("ReadIcons() error = %v", err)
	}
	if len(got) != len(entries) {
		t.Fatalf("ReadIcons() returned %d entries, want %d", len(got), len(entries))
	}
	for name, fp := range entries {
		if got[name].Hash != fp.Hash || !bytes.Equal(got[name].Thumb, fp.Thumb) {
			t.Errorf("entry %q = %+v, want %+v", name, got[name], fp)
		}
	}
}

func TestReadIconsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", "augments"},
		{"empty name", `{"": {"hash": "1"}}`},
		{"empty fingerprint", `{"Featherweights": {}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadIcons(strings.NewReader(tt.input)); err == nil {
				t.Error("ReadIcons() expected error")
			}
		})
	}
}

func TestReadIconsDataURL(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(255 - x*4)})
		}
	}
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		t.Fatal(err)
	}
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBuf.Bytes())

	input := `{"Featherweights": "` + dataURL + `", "Jeweled Lotus": {"hash": "42"}}`
	got, err := ReadIcons(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadIcons() error = %v", err)
	}

	want, err := icons.FingerprintIcon(img)
	if err != nil {
		t.Fatal(err)
	}
	if got["Featherweights"].Hash != want.Hash || len(got["Featherweights"].Thumb) == 0 {
		t.Errorf("data URL entry = %x, want hash %x", got["Featherweights"].Hash, want.Hash)
	}
	if got["Jeweled Lotus"].Hash != 42 {
		t.Errorf("fingerprint entry = %+v, want hash 42", got["Jeweled Lotus"])
	}

	bad := []string{
		`{"Featherweights": "not a data url"}`,
		`{"Featherweights": "data:image/png;base64,@@@"}`,
		`{"Featherweights": "data:image/png;base64,` + base64.StdEncoding.EncodeToString([]byte("not png")) + `"}`,
	}
	for _, input := range bad {
		if _, err := ReadIcons(strings.NewReader(input)); err == nil {
			t.Errorf("ReadIcons(%s) expected error", input)
		}
	}
}
