package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	l.Info("snapshot written", "id", "20260101-000000-abc")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "snapshot written" {
		t.Fatalf("msg = %v", entry["msg"])
	}
	if entry["id"] != "20260101-000000-abc" {
		t.Fatalf("id = %v", entry["id"])
	}
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "text", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	l.Info("hello")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Fatalf("text output = %q", buf.String())
	}
}

func TestNew_LevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug leaked at info level: %q", buf.String())
	}

	SetLevel("debug")
	defer SetLevel("info")
	l.Debug("visible")
	if buf.Len() == 0 {
		t.Fatalf("debug suppressed at debug level")
	}
}

func TestWith_AddsFields(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	l.With("change_id", "svch-x").Info("committed")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry["change_id"] != "svch-x" {
		t.Fatalf("change_id = %v", entry["change_id"])
	}
}

func TestTruncation_CapsLargeValues(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	blob := strings.Repeat("x", 10*maxAttrLen)
	l.Info("captured", "manifest", blob)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got, _ := entry["manifest"].(string)
	if len(got) >= len(blob) {
		t.Fatalf("large value not truncated (%d bytes)", len(got))
	}
	if !strings.Contains(got, "bytes total") {
		t.Fatalf("truncated value missing size hint: %q", got)
	}
}

func TestTruncateString(t *testing.T) {
	short := "small"
	if TruncateString(short) != short {
		t.Fatalf("short string modified")
	}
	long := strings.Repeat("y", maxAttrLen+1)
	if got := TruncateString(long); len(got) >= len(long) || !strings.Contains(got, "bytes total") {
		t.Fatalf("TruncateString = %q", got)
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatalf("FromContext without logger returned nil")
	}

	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := WithLogger(context.Background(), l)
	FromContext(ctx).Info("via context")
	if buf.Len() == 0 {
		t.Fatalf("context logger not used")
	}
}
