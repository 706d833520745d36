package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"augmentstats/internal/icons"
	"augmentstats/internal/session"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// EnvPaths are the .env locations tried in order; the first one found is loaded.
var EnvPaths = []string{".env", "../.env", "../../.env"}

// Config holds every runtime setting.
type Config struct {
	DBPath      string
	DatabaseURL string
	AuthToken   string

	GapThreshold time.Duration
	SlotCount    int
	Workers      int
	MatchMode    string
	// MatchThreshold is the similarity cutoff; negative means the mode's default.
	MatchThreshold int
	Location       *time.Location

	TesseractPath   string
	LogLevel        string
	LogFile         string
	IconManifestURL string
	ProgressAddr    string
}

// LoadEnv loads the first .env file found in EnvPaths. Existing environment
// variables are never overridden.
func LoadEnv() string {
	for _, path := range EnvPaths {
		if err := godotenv.Load(path); err == nil {
			log.Debug().Str("path", path).Msg("[Config] Loaded .env")
			return path
		}
	}
	return ""
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:          getEnv("AUGMENT_DB_PATH", ""),
		DatabaseURL:     getEnv("AUGMENT_DATABASE_URL", getEnv("TURSO_DATABASE_URL", "")),
		AuthToken:       getEnv("TURSO_AUTH_TOKEN", ""),
		MatchMode:       strings.ToLower(getEnv("AUGMENT_MATCH_MODE", "hash")),
		TesseractPath:   getEnv("TESSERACT_PATH", "tesseract"),
		LogLevel:        getEnv("AUGMENT_LOG_LEVEL", "info"),
		LogFile:         getEnv("AUGMENT_LOG_FILE", ""),
		IconManifestURL: getEnv("ICON_PACK_MANIFEST_URL", ""),
		ProgressAddr:    getEnv("AUGMENT_PROGRESS_ADDR", ""),
	}

	var err error
	if cfg.GapThreshold, err = getDuration("AUGMENT_GAP_THRESHOLD", session.DefaultGapThreshold); err != nil {
		return nil, err
	}
	if cfg.SlotCount, err = getInt("AUGMENT_SLOT_COUNT", icons.DefaultSlotCount); err != nil {
		return nil, err
	}
	if cfg.Workers, err = getInt("AUGMENT_WORKERS", 1); err != nil {
		return nil, err
	}
	if cfg.MatchThreshold, err = getInt("AUGMENT_MATCH_THRESHOLD", -1); err != nil {
		return nil, err
	}

	tz := getEnv("AUGMENT_TZ", "")
	cfg.Location = time.Local
	if tz != "" {
		if cfg.Location, err = time.LoadLocation(tz); err != nil {
			return nil, fmt.Errorf("failed to load AUGMENT_TZ %q: %w", tz, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	if c.GapThreshold <= 0 {
		return fmt.Errorf("gap threshold must be positive, got %s", c.GapThreshold)
	}
	if c.SlotCount < 1 || c.SlotCount > len(icons.Slots) {
		return fmt.Errorf("slot count must be between 1 and %d, got %d", len(icons.Slots), c.SlotCount)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if _, err := icons.ParseSimilarity(c.MatchMode, c.MatchThreshold); err != nil {
		return err
	}
	return nil
}

// DefaultLogFile returns the log file next to the default database.
func DefaultLogFile(dbPath string) string {
	return filepath.Join(filepath.Dir(dbPath), "augmentstats.log")
}

// getEnv returns the environment variable value or a default
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return n, nil
}

// getDuration accepts Go durations ("90s") or a bare number of seconds.
func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultVal, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return d, nil
}
