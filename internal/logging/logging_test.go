package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileAndConsoleLevels(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	var console bytes.Buffer

	l, err := New(Options{Dir: dir, ConsoleEnabled: true, Console: &console})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Debug("debug line", "k", 1)
	l.With("component", "test").Info("info line")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	file := string(raw)
	if !strings.Contains(file, "debug line") || !strings.Contains(file, "component=test") {
		t.Errorf("file log missing records:\n%s", file)
	}
	if strings.Contains(console.String(), "debug line") {
		t.Error("debug record reached the console")
	}
	if !strings.Contains(console.String(), "info line") {
		t.Errorf("console missing info record: %q", console.String())
	}
}

func TestConsoleDisabled(t *testing.T) {
	var console bytes.Buffer
	l, err := New(Options{Dir: t.TempDir(), Console: &console})
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	l.Error("boom")
	if console.Len() != 0 {
		t.Errorf("console written while disabled: %q", console.String())
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Info("dropped")
	if l.Path() != "" || l.Close() != nil {
		t.Error("discard logger should own no file")
	}
}
