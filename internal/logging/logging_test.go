package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetupLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	closer, err := Setup(Options{Level: "warn", Out: &buf})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	defer closer.Close()

	log.Info().Msg("[Test] hidden")
	log.Warn().Msg("[Test] shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn line missing: %s", out)
	}
}

func TestSetupInvalidLevel(t *testing.T) {
	if _, err := Setup(Options{Level: "loud"}); err == nil {
		t.Error("Setup() expected error for unknown level")
	}
}

func TestSetupFile(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	path := filepath.Join(t.TempDir(), "logs", "augmentstats.log")
	var buf bytes.Buffer
	closer, err := Setup(Options{Pretty: true, File: path, Out: &buf})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	log.Info().Msg("[Test] to file")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), `"message":"[Test] to file"`) {
		t.Errorf("log file = %s", data)
	}
	if !strings.Contains(buf.String(), "to file") {
		t.Errorf("console output = %s", buf.String())
	}
}
