package session

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ImageExtensions are the file types picked up when scanning folders.
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".webp", ".gif"}

// Screenshot is a handle to one captured frame. Pixels are only read when Open is called.
type Screenshot struct {
	Name      string `json:"name"`
	Timestamp int64  `json:"timestamp"` // ms since epoch
	Path      string `json:"path"`
}

// FromFile builds a Screenshot from a file on disk, using its modification time
// as the capture timestamp.
func FromFile(path string) (Screenshot, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Screenshot{}, fmt.Errorf("failed to stat screenshot: %w", err)
	}
	if info.IsDir() {
		return Screenshot{}, fmt.Errorf("screenshot path %s is a directory", path)
	}
	return Screenshot{
		Name:      filepath.Base(path),
		Timestamp: info.ModTime().UnixMilli(),
		Path:      path,
	}, nil
}

// Open returns a reader over the encoded image data.
func (s Screenshot) Open() (io.ReadCloser, error) {
	return os.Open(s.Path)
}

// Time returns the capture time.
func (s Screenshot) Time() time.Time {
	return time.UnixMilli(s.Timestamp)
}

// SortByTime orders screenshots ascending by timestamp, keeping the input order for ties.
func SortByTime(shots []Screenshot) {
	sort.SliceStable(shots, func(i, j int) bool {
		return shots[i].Timestamp < shots[j].Timestamp
	})
}

// IsImage reports whether the file name has a known image extension.
func IsImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Collect resolves files and folders into screenshots. Folders are walked recursively
// and only image files inside them are kept; files named explicitly are always kept.
func Collect(paths []string) ([]Screenshot, error) {
	var shots []Screenshot
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", root, err)
		}
		if !info.IsDir() {
			shot, err := FromFile(root)
			if err != nil {
				return nil, err
			}
			shots = append(shots, shot)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !IsImage(d.Name()) {
				return nil
			}
			shot, err := FromFile(path)
			if err != nil {
				return err
			}
			shots = append(shots, shot)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", root, err)
		}
	}
	return shots, nil
}
