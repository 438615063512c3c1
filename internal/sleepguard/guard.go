package sleepguard

import (
	"log/slog"
	"os/exec"
	"runtime"
	"syscall"
	"time"
)

// releaseTimeout is how long Release waits for the helper to exit before killing it
const releaseTimeout = 5 * time.Second

// Handle is a running keep-awake helper process
type Handle struct {
	cmd  *exec.Cmd
	done chan error
}

// Guard keeps the machine awake by running a platform helper process
// for as long as a handle is held.
type Guard struct {
	log      *slog.Logger
	goos     string
	lookPath func(string) (string, error)
	timeout  time.Duration
}

// New creates a guard for the current platform
func New(logger *slog.Logger) *Guard {
	return &Guard{
		log:      logger.With("component", "sleepguard"),
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		timeout:  releaseTimeout,
	}
}

// command returns the helper invocation for the platform, or nil when
// sleep prevention is not available
func (g *Guard) command() []string {
	switch g.goos {
	case "darwin":
		return []string{"caffeinate", "-d"}
	case "windows":
		return []string{"powercfg", "-change", "-standby-timeout-ac", "0"}
	case "linux":
		if _, err := g.lookPath("systemd-inhibit"); err != nil {
			return nil
		}
		return []string{
			"systemd-inhibit",
			"--what=idle:sleep",
			"--who=shyft",
			"--why=work session in progress",
			"sleep", "infinity",
		}
	default:
		return nil
	}
}

// Acquire starts the helper. It returns nil when the platform is not
// supported or the helper could not be started; both are logged.
func (g *Guard) Acquire() *Handle {
	args := g.command()
	if len(args) == 0 {
		g.log.Warn("sleep prevention not implemented for this operating system", "os", g.goos)
		return nil
	}
	return g.acquireWith(args)
}

func (g *Guard) acquireWith(args []string) *Handle {
	cmd := exec.Command(args[0], args[1:]...)
	if err := cmd.Start(); err != nil {
		g.log.Error("failed to prevent sleep", "command", args[0], "error", err)
		return nil
	}

	h := &Handle{cmd: cmd, done: make(chan error, 1)}
	go func() {
		h.done <- cmd.Wait()
	}()

	g.log.Debug("sleep prevention active", "command", args[0], "pid", cmd.Process.Pid)
	return h
}

// Release stops the helper, waiting up to the release timeout before
// killing it. A nil handle is ignored.
func (g *Guard) Release(h *Handle) {
	if h == nil || h.cmd == nil || h.cmd.Process == nil {
		return
	}

	// Signal is unsupported on windows; fall back to Kill
	if err := h.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		if err := h.cmd.Process.Kill(); err != nil {
			g.log.Debug("helper already gone", "error", err)
		}
	}

	select {
	case <-h.done:
		g.log.Debug("sleep prevention released")
	case <-time.After(g.timeout):
		g.log.Warn("sleep helper did not exit in time, killing it", "pid", h.cmd.Process.Pid)
		if err := h.cmd.Process.Kill(); err != nil {
			g.log.Error("error while allowing sleep", "error", err)
		}
		<-h.done
	}
}
