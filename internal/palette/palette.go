// Package palette shows action menus through an external dmenu-style
// launcher and returns what the user picked.
package palette

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrCancelled is returned when the user closes the launcher without
// selecting an item.
var ErrCancelled = errors.New("palette cancelled")

// Item is a single row handed to the launcher.
type Item struct {
	Label string
	// ID is returned on selection; rows are matched by index or label, never
	// by ID.
	ID       string
	Icon     string
	IsHeader bool
	IsActive bool
	IsUrgent bool
}

// Capabilities describes what a launcher can render.
type Capabilities struct {
	Icons         bool
	Markup        bool
	NonSelectable bool
	IndexOutput   bool
	RowStates     bool
}

// Backend shows a list of items and returns the one the user picked.
type Backend interface {
	Show(prompt string, items []Item) (Item, error)
	Capabilities() Capabilities
}

// launchers lists the supported programs in detection order.
var launchers = []string{"rofi", "dmenu"}

// DetectBackend returns the first launcher found in PATH.
func DetectBackend() (string, error) {
	for _, name := range launchers {
		if _, err := exec.LookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no launcher found in PATH (looked for: %s)", strings.Join(launchers, ", "))
}

// NewBackend creates a backend by name: auto, rofi or dmenu.
func NewBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		detected, err := DetectBackend()
		if err != nil {
			return nil, err
		}
		name = detected
	}
	var b *launcher
	switch name {
	case "rofi":
		b = newRofi()
	case "dmenu":
		b = newDmenu()
	default:
		return nil, fmt.Errorf("unknown launcher %q (expected: auto, %s)", name, strings.Join(launchers, ", "))
	}
	if _, err := exec.LookPath(b.command); err != nil {
		return nil, fmt.Errorf("launcher %q not found in PATH", b.command)
	}
	return b, nil
}
