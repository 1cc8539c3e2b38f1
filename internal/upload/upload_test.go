package upload

import (
	"context"
	"strings"
	"testing"
)

func TestEnabled(t *testing.T) {
	if (Config{}).Enabled() {
		t.Error("empty config should not be enabled")
	}
	if !(Config{Host: "h", User: "u"}).Enabled() {
		t.Error("config with host and user should be enabled")
	}
}

func TestFileMissingCredentials(t *testing.T) {
	err := File(context.Background(), Config{}, "portal.html")
	if err == nil {
		t.Fatal("expected error for empty config")
	}
	if !strings.Contains(err.Error(), "required") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFileCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := Config{Host: "203.0.113.1", User: "u", Pass: "p"}
	err := File(ctx, cfg, "portal.html")
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
	if !strings.Contains(err.Error(), "dial canceled") {
		t.Errorf("unexpected error: %v", err)
	}
}
