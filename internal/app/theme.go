package app

import (
	"fmt"
	"strings"

	"github.com/desertthunder/tuneflow/internal/shared"
)

// Theme is the visual theme.
type Theme string

const (
	Dark  Theme = "dark"
	Light Theme = "light"
)

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == Light {
		return Dark
	}
	return Light
}

// Label is the text shown on the toggle control, naming the theme it switches to.
func (t Theme) Label() string {
	if t == Light {
		return "Dark mode"
	}
	return "Light mode"
}

// ParseTheme validates a theme name. The empty string maps to [Dark].
func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dark":
		return Dark, nil
	case "light":
		return Light, nil
	default:
		return Dark, fmt.Errorf("%w: unknown theme %q", shared.ErrInvalidArgument, s)
	}
}
