package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func reset() {
	SetVerbose(false)
	SetQuiet(false)
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}
}

func TestDebug(t *testing.T) {
	defer reset()

	t.Run("verbose", func(t *testing.T) {
		var buf bytes.Buffer
		SetOutput(&buf)
		SetVerbose(true)

		Debug("retrieved %d chunks", 4)

		if buf.String() != "[DEBUG] retrieved 4 chunks\n" {
			t.Errorf("unexpected output: %q", buf.String())
		}
	})

	t.Run("not verbose", func(t *testing.T) {
		var buf bytes.Buffer
		SetOutput(&buf)
		SetVerbose(false)

		Debug("hidden")
		Info("hidden")
		Section("Hidden")

		if buf.Len() > 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})
}

func TestSection(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Chat")

	if buf.String() != "\n=== Chat ===\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestWarn(t *testing.T) {
	defer reset()

	t.Run("printed without verbose", func(t *testing.T) {
		var buf bytes.Buffer
		SetOutput(&buf)

		Warn("skipping %s", "broken.pdf")

		if !strings.Contains(buf.String(), "[WARN] skipping broken.pdf") {
			t.Errorf("unexpected output: %q", buf.String())
		}
	})

	t.Run("suppressed when quiet", func(t *testing.T) {
		var buf bytes.Buffer
		SetOutput(&buf)
		SetQuiet(true)

		Warn("skipping")

		if buf.Len() > 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})
}
