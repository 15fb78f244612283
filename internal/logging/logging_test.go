package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_JSONLayout(t *testing.T) {
	logger, cleanup, err := New(Options{Level: "debug", Service: "kanbanflow-mcp"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer cleanup()

	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.WithField("tool", "getBoard").Debug("mcp tool invoked")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, buf.String())
	}
	for _, key := range []string{"ts", "level", "message", "tool", "service"} {
		if _, ok := line[key]; !ok {
			t.Errorf("missing key %q in %v", key, line)
		}
	}
	if line["message"] != "mcp tool invoked" || line["level"] != "debug" || line["service"] != "kanbanflow-mcp" {
		t.Errorf("unexpected line: %v", line)
	}
}

func TestNew_LevelFilters(t *testing.T) {
	logger, cleanup, err := New(Options{Level: "warn"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer cleanup()

	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("level filtering broken: %s", buf.String())
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, cleanup, err := New(Options{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	} else {
		cleanup()
	}
}

func TestNew_RotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kf.log")
	logger, cleanup, err := New(Options{Level: "info", File: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.WithFields(logrus.Fields{"op": "getUsers"}).Info("users loaded")
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), `"message":"users loaded"`) {
		t.Errorf("log file content = %s", data)
	}
}
