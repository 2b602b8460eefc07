package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

// launcher drives rofi -dmenu or dmenu over stdin and stdout.
type launcher struct {
	command string
	rofi    bool
	caps    Capabilities
}

func newRofi() *launcher {
	return &launcher{
		command: "rofi",
		rofi:    true,
		caps: Capabilities{
			Icons:         true,
			Markup:        true,
			NonSelectable: true,
			IndexOutput:   true,
			RowStates:     true,
		},
	}
}

func newDmenu() *launcher {
	return &launcher{command: "dmenu"}
}

type rowStates struct {
	active      []int
	urgent      []int
	selectedRow int
}

func (l *launcher) Capabilities() Capabilities {
	return l.caps
}

func (l *launcher) Show(prompt string, items []Item) (Item, error) {
	if len(items) == 0 {
		return Item{}, errors.New("palette: no items to show")
	}
	rows := l.visibleItems(items)
	input, states := l.formatInput(rows)

	cmd := exec.Command(l.command, l.buildArgs(prompt, states)...)
	cmd.Stdin = strings.NewReader(input)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	selection := strings.TrimSpace(string(out))
	if err != nil {
		if selection == "" && isCancelExit(err) {
			return Item{}, ErrCancelled
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return Item{}, fmt.Errorf("%s failed: %s", l.command, msg)
		}
		return Item{}, fmt.Errorf("%s failed: %w", l.command, err)
	}
	if selection == "" {
		return Item{}, ErrCancelled
	}
	return l.parseSelection(selection, rows)
}

// visibleItems drops header rows the launcher cannot render as such and
// disambiguates duplicate labels for launchers that answer with text.
func (l *launcher) visibleItems(items []Item) []Item {
	out := make([]Item, 0, len(items))
	seen := make(map[string]int)
	for _, it := range items {
		if it.IsHeader && !l.caps.NonSelectable {
			continue
		}
		it.Label = sanitizeLabel(it.Label)
		if !l.caps.IndexOutput && !it.IsHeader {
			if n := seen[it.Label]; n > 0 {
				seen[it.Label]++
				it.Label = fmt.Sprintf("%s (%d)", it.Label, n+1)
			} else {
				seen[it.Label] = 1
			}
		}
		out = append(out, it)
	}
	return out
}

func (l *launcher) buildArgs(prompt string, states rowStates) []string {
	if !l.rofi {
		args := []string{"-i"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		return args
	}
	args := []string{"-dmenu", "-i", "-format", "i", "-no-custom", "-markup-rows", "-show-icons"}
	if prompt != "" {
		args = append(args, "-p", prompt)
	}
	if len(states.active) > 0 {
		args = append(args, "-a", formatIndices(states.active))
	}
	if len(states.urgent) > 0 {
		args = append(args, "-u", formatIndices(states.urgent))
	}
	return append(args, "-selected-row", strconv.Itoa(states.selectedRow))
}

func (l *launcher) formatInput(items []Item) (string, rowStates) {
	lines := make([]string, 0, len(items))
	states := rowStates{selectedRow: -1}
	firstSelectable := -1
	for i, it := range items {
		lines = append(lines, l.formatItem(it))
		if it.IsHeader {
			continue
		}
		if firstSelectable == -1 {
			firstSelectable = i
		}
		if it.IsActive {
			states.active = append(states.active, i)
			if states.selectedRow == -1 {
				states.selectedRow = i
			}
		}
		if it.IsUrgent {
			states.urgent = append(states.urgent, i)
		}
	}
	if states.selectedRow == -1 {
		states.selectedRow = max(firstSelectable, 0)
	}
	if !l.caps.RowStates {
		states.active, states.urgent = nil, nil
	}
	return strings.Join(lines, "\n"), states
}

// formatItem renders one row. rofi reads per-row properties after a single
// NUL, as \x1f separated key/value pairs.
func (l *launcher) formatItem(it Item) string {
	if !l.rofi {
		return it.Label
	}
	display := html.EscapeString(it.Label)
	var attrs []string
	if it.IsHeader {
		display = "<b>" + display + "</b>"
		attrs = append(attrs, "nonselectable", "true")
	}
	if it.Icon != "" {
		attrs = append(attrs, "icon", sanitizeRofiField(it.Icon))
	}
	if len(attrs) == 0 {
		return display
	}
	return display + "\x00" + strings.Join(attrs, "\x1f")
}

func (l *launcher) parseSelection(selection string, items []Item) (Item, error) {
	if l.caps.IndexOutput {
		if idx, err := strconv.Atoi(selection); err == nil {
			if idx < 0 || idx >= len(items) {
				return Item{}, fmt.Errorf("palette: index %d out of range", idx)
			}
			return items[idx], nil
		}
	}
	for _, it := range items {
		if !it.IsHeader && it.Label == selection {
			return it, nil
		}
	}
	return Item{}, fmt.Errorf("palette: unknown selection %q", selection)
}

func sanitizeLabel(label string) string {
	label = strings.ReplaceAll(label, "\r", " ")
	label = strings.ReplaceAll(label, "\n", " ")
	return strings.TrimSpace(label)
}

func sanitizeRofiField(value string) string {
	value = strings.ReplaceAll(value, "\x00", " ")
	value = strings.ReplaceAll(value, "\x1f", " ")
	return sanitizeLabel(value)
}

func formatIndices(indices []int) string {
	parts := make([]string, 0, len(indices))
	for _, i := range indices {
		parts = append(parts, strconv.Itoa(i))
	}
	return strings.Join(parts, ",")
}

// isCancelExit reports the exit statuses launchers use for "nothing picked":
// 1 for escape and 130 for Ctrl+C.
func isCancelExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	code := exitErr.ExitCode()
	return code == 1 || code == 130
}
