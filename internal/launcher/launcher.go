package launcher

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
)

// Launcher opens URLs (movie pages, homepages) in an external browser
type Launcher struct {
	command string   // configured browser command, empty for system default
	args    []string // additional arguments for the browser
	logger  *slog.Logger

	// start runs a command without waiting; swapped in tests
	start func(name string, args ...string) error
}

// New creates a Launcher. command may include arguments ("firefox
// --new-window").
func New(command string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}

	fields := strings.Fields(command)
	l := &Launcher{logger: logger, start: startCommand}
	if len(fields) > 0 {
		l.command = fields[0]
		l.args = fields[1:]
	}
	return l
}

func startCommand(name string, args ...string) error {
	if _, err := exec.LookPath(name); err != nil {
		return err
	}
	return exec.Command(name, args...).Start() // Start async, don't wait
}

// Launch opens url in the configured browser or the system default
func (l *Launcher) Launch(url string) error {
	if url == "" {
		return fmt.Errorf("nothing to open")
	}

	// Tier 1: User configured a specific browser
	if l.command != "" {
		args := append(append([]string{}, l.args...), url)
		l.logger.Info("launching browser", "command", l.command, "args", args)
		if err := l.start(l.command, args...); err != nil {
			return fmt.Errorf("failed to launch %s: %w", l.command, err)
		}
		return nil
	}

	// Tier 2: Fall back to system default (open/xdg-open/start)
	name, args := defaultOpener(runtime.GOOS, url)
	l.logger.Info("launching with system default", "os", runtime.GOOS, "url", url)
	if err := l.start(name, args...); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}

// defaultOpener returns the system URL handler for goos
func defaultOpener(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "cmd", []string{"/c", "start", "", url}
	default:
		// Linux and other Unix-like systems
		return "xdg-open", []string{url}
	}
}
