package data

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"augmentstats/internal/export"
	"augmentstats/internal/icons"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"
)

// Manifest describes a published icon pack.
type Manifest struct {
	Version    string `json:"version"`
	DataURL    string `json:"data_url"`
	DataSha256 string `json:"data_sha256"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

// IconPack is a downloaded, verified set of reference icons.
type IconPack struct {
	Version string
	Icons   map[string]icons.Fingerprint
}

// IconPackClient downloads icon packs.
type IconPackClient struct {
	HTTP *http.Client
}

// NewIconPackClient creates a client with the default timeout.
func NewIconPackClient() *IconPackClient {
	return &IconPackClient{HTTP: &http.Client{Timeout: 60 * time.Second}}
}

// Fetch reads the manifest, downloads the pack it points to and verifies its checksum.
// Packs whose version is not newer than current are skipped and nil is returned.
func (c *IconPackClient) Fetch(ctx context.Context, manifestURL, current string) (*IconPack, error) {
	if manifestURL == "" {
		return nil, fmt.Errorf("manifest URL not configured")
	}

	log.Info().Str("url", manifestURL).Msg("[IconPack] Checking for updates")

	body, err := c.get(ctx, manifestURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch manifest: %w", err)
	}

	var manifest Manifest
	if err := sonic.Unmarshal(body, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if manifest.DataURL == "" {
		return nil, fmt.Errorf("manifest has no data_url")
	}

	// simple string comparison works for dotted or dated versions of equal width
	if manifest.Version != "" && manifest.Version <= current {
		log.Info().Str("version", current).Msg("[IconPack] Local icons are up to date")
		return nil, nil
	}

	log.Info().Str("url", manifest.DataURL).Msg("[IconPack] Downloading")
	data, err := c.get(ctx, manifest.DataURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch data: %w", err)
	}

	// Verify SHA256 hash if provided
	if manifest.DataSha256 != "" {
		sum := sha256.Sum256(data)
		if actual := hex.EncodeToString(sum[:]); actual != manifest.DataSha256 {
			return nil, fmt.Errorf("SHA256 mismatch: expected %s, got %s", manifest.DataSha256, actual)
		}
		log.Debug().Msg("[IconPack] SHA256 verified successfully")
	}

	entries, err := export.ReadIcons(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &IconPack{Version: manifest.Version, Icons: entries}, nil
}

func (c *IconPackClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
