package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{"debug", "debug", true, true},
		{"info", "info", false, true},
		{"error", "error", false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := New(&buf, tc.level, "test")
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			l.Debug("debug message")
			l.Info("info message")

			out := buf.String()
			if got := strings.Contains(out, "debug message"); got != tc.wantDebug {
				t.Errorf("debug logged = %v, want %v", got, tc.wantDebug)
			}
			if got := strings.Contains(out, "info message"); got != tc.wantInfo {
				t.Errorf("info logged = %v, want %v", got, tc.wantInfo)
			}
		})
	}
}

func TestNewBadLevel(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "loud", ""); err == nil {
		t.Error("expected error for unknown level")
	}
}
