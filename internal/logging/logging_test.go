package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
)

func restore(t *testing.T) {
	t.Helper()
	lvl, f, out := log.GetLevel(), log.StandardLogger().Formatter, log.StandardLogger().Out
	t.Cleanup(func() {
		log.SetLevel(lvl)
		log.SetFormatter(f)
		log.SetOutput(out)
	})
}

func TestSetup_JSON(t *testing.T) {
	restore(t)
	var buf bytes.Buffer
	if err := Setup("debug", "json", &buf); err != nil {
		t.Fatal(err)
	}

	log.WithFields(log.Fields{"steps": 3}).Debug("diffused")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not json: %q", buf.String())
	}
	if entry["msg"] != "diffused" || entry["steps"] != float64(3) {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestSetup_LevelFilters(t *testing.T) {
	restore(t)
	var buf bytes.Buffer
	if err := Setup("warn", "text", &buf); err != nil {
		t.Fatal(err)
	}

	log.Info("hidden")
	log.Warn("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("level not applied: %q", buf.String())
	}
}

func TestSetup_Invalid(t *testing.T) {
	restore(t)
	tests := []struct{ level, format string }{
		{"loud", "text"},
		{"info", "xml"},
	}
	for _, tt := range tests {
		if err := Setup(tt.level, tt.format, nil); err == nil {
			t.Errorf("Setup(%q, %q) should fail", tt.level, tt.format)
		}
	}
}

func TestOpenFile(t *testing.T) {
	w, closeFn, err := OpenFile("")
	if err != nil || w != os.Stderr {
		t.Fatalf("empty path should give stderr, got %v %v", w, err)
	}
	if err := closeFn(); err != nil {
		t.Error(err)
	}

	path := filepath.Join(t.TempDir(), "physlab.log")
	w, closeFn, err = OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("line\n")); err != nil {
		t.Fatal(err)
	}
	closeFn()

	data, _ := os.ReadFile(path)
	if string(data) != "line\n" {
		t.Errorf("unexpected file content %q", data)
	}
}
