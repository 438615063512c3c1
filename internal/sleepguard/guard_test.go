package sleepguard

import (
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
	"testing"
	"time"
)

func testGuard(goos string, lookPath func(string) (string, error)) *Guard {
	return &Guard{
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		goos:     goos,
		lookPath: lookPath,
		timeout:  time.Second,
	}
}

func found(string) (string, error)   { return "/usr/bin/x", nil }
func missing(string) (string, error) { return "", errors.New("not found") }

func TestCommandPerPlatform(t *testing.T) {
	tests := []struct {
		goos     string
		lookPath func(string) (string, error)
		want     string
	}{
		{"darwin", missing, "caffeinate -d"},
		{"windows", missing, "powercfg -change -standby-timeout-ac 0"},
		{"linux", found, "systemd-inhibit"},
		{"linux", missing, ""},
		{"plan9", found, ""},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			got := strings.Join(testGuard(tt.goos, tt.lookPath).command(), " ")
			if !strings.HasPrefix(got, tt.want) || (tt.want == "" && got != "") {
				t.Errorf("command() = %q, want prefix %q", got, tt.want)
			}
		})
	}
}

func TestAcquireUnsupportedReturnsNil(t *testing.T) {
	g := testGuard("plan9", found)
	if h := g.Acquire(); h != nil {
		t.Fatalf("Acquire() on unsupported platform = %v, want nil", h)
	}
	// Releasing nil must be safe
	g.Release(nil)
}

func TestAcquireRelease(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses the sleep binary")
	}
	sleepPath, err := exec.LookPath("sleep")
	if err != nil {
		t.Skip("sleep binary not available")
	}

	g := testGuard("linux", found)
	h := g.acquireWith([]string{sleepPath, "30"})
	if h == nil {
		t.Fatal("acquireWith returned nil")
	}

	start := time.Now()
	g.Release(h)
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("Release took %v, expected prompt termination", elapsed)
	}
}
