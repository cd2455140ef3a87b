package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/id-contact/test-auth/internal/logging"
)

func TestSetup_Defaults(t *testing.T) {
	if err := logging.Setup(logging.DefaultConfig()); err != nil {
		t.Fatalf("Setup with defaults failed: %v", err)
	}
	if logging.Default() == nil {
		t.Fatal("Default returned nil logger")
	}
}

func TestSetup_InvalidLevel(t *testing.T) {
	cfg := logging.DefaultConfig()
	cfg.Level = "loud"

	if err := logging.Setup(cfg); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestSetup_InvalidFormat(t *testing.T) {
	cfg := logging.DefaultConfig()
	cfg.Format = "xml"

	if err := logging.Setup(cfg); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestSetup_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "test-auth.log")

	cfg := logging.DefaultConfig()
	cfg.Format = "json"
	cfg.Output = path

	if err := logging.Setup(cfg); err != nil {
		t.Fatalf("Setup with file output failed: %v", err)
	}
	t.Cleanup(func() {
		_ = logging.Close()
		_ = logging.Setup(logging.DefaultConfig())
	})

	logging.Info("hello from test", "key", "value")

	if err := logging.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Errorf("log file missing entry: %s", data)
	}
}

func TestContextLogger(t *testing.T) {
	if err := logging.Setup(logging.DefaultConfig()); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if logging.FromContext(ctx) == nil {
		t.Fatal("FromContext without logger should fall back to default")
	}

	ctx = logging.ContextWith(ctx, "request_id", "abc123")
	if logging.FromContext(ctx) == logging.Default() {
		t.Error("ContextWith should attach a derived logger")
	}
}
