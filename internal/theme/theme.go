// Package theme persists the light/dark palette choice.
package theme

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/domain"
)

// Theme is a palette choice
type Theme string

const (
	Light  Theme = "light"
	Dark   Theme = "dark"
	System Theme = "system" // follow the terminal background
)

// Parse validates a theme name
func Parse(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	case System:
		return System, nil
	}
	return "", fmt.Errorf("unknown theme %q (want light, dark or system)", s)
}

// Preference is the remembered theme, stored under domain.KeyTheme
type Preference struct {
	kv     domain.KVStore
	logger *slog.Logger

	mu      sync.Mutex
	current Theme

	// hasDarkBackground is swapped in tests
	hasDarkBackground func() bool
}

// Load reads the stored theme, falling back to fallback and then Light
func Load(kv domain.KVStore, fallback string, logger *slog.Logger) *Preference {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Preference{
		kv:                kv,
		logger:            logger,
		current:           Light,
		hasDarkBackground: lipgloss.HasDarkBackground,
	}

	if t, err := Parse(fallback); err == nil {
		p.current = t
	}

	stored, ok, err := kv.Get(domain.KeyTheme)
	if err != nil {
		logger.Warn("failed to read theme", "error", err)
		return p
	}
	if !ok {
		return p
	}
	t, err := Parse(stored)
	if err != nil {
		logger.Warn("ignoring stored theme", "value", stored)
		return p
	}
	p.current = t
	return p
}

// Current returns the chosen theme (possibly System)
func (p *Preference) Current() Theme {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Resolve returns Light or Dark, resolving System from the terminal
func (p *Preference) Resolve() Theme {
	t := p.Current()
	if t != System {
		return t
	}
	if p.hasDarkBackground() {
		return Dark
	}
	return Light
}

// Set stores t as the new choice
func (p *Preference) Set(t Theme) error {
	if _, err := Parse(string(t)); err != nil {
		return err
	}
	if err := p.kv.Set(domain.KeyTheme, string(t)); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}

	p.mu.Lock()
	p.current = t
	p.mu.Unlock()

	p.logger.Debug("theme changed", "theme", t)
	return nil
}

// Toggle flips between light and dark (System flips away from what it
// currently resolves to) and returns the new theme.
func (p *Preference) Toggle() (Theme, error) {
	next := Dark
	if p.Resolve() == Dark {
		next = Light
	}
	if err := p.Set(next); err != nil {
		return p.Current(), err
	}
	return next, nil
}
