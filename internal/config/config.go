package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/tagtile/internal/tiling"
)

// MaxTags is the number of tags that fit into a client tag mask.
const MaxTags = 31

// Colors is one color scheme (foreground, background, border).
type Colors struct {
	Fg     string `yaml:"fg"`
	Bg     string `yaml:"bg"`
	Border string `yaml:"border"`
}

// Schemes holds the normal and selected color schemes.
type Schemes struct {
	Norm Colors `yaml:"norm"`
	Sel  Colors `yaml:"sel"`
}

// Geometry is an explicit placement for rule-matched clients.
type Geometry struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Rule maps window class/instance/title to placement. Empty predicates match
// any window.
type Rule struct {
	Class      string    `yaml:"class,omitempty"`
	Instance   string    `yaml:"instance,omitempty"`
	Title      string    `yaml:"title,omitempty"`
	Tags       uint32    `yaml:"tags,omitempty"`
	Floating   bool      `yaml:"floating,omitempty"`
	Monitor    int       `yaml:"monitor"`
	Geometry   *Geometry `yaml:"geometry,omitempty"`
	ScratchKey string    `yaml:"scratchkey,omitempty"`
}

var ruleKeys = []string{"class", "instance", "title", "tags", "floating", "monitor", "geometry", "scratchkey"}

// UnmarshalYAML decodes a rule. A rule without a monitor keeps the client on
// the monitor it appears on.
func (r *Rule) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			if k := node.Content[i]; !slices.Contains(ruleKeys, k.Value) {
				return fmt.Errorf("line %d: field %s not found in rule", k.Line, k.Value)
			}
		}
	}
	type plain Rule
	raw := plain{Monitor: -1}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*r = Rule(raw)
	return nil
}

// LayoutEntry is one slot of the layout registry.
type LayoutEntry struct {
	Symbol    string `yaml:"symbol"`
	Algorithm string `yaml:"algorithm"`
}

// Scratchpad binds a one-character key to the command that creates it.
type Scratchpad struct {
	Key     string   `yaml:"key"`
	Command []string `yaml:"command"`
}

// Systray configures the tray container.
type Systray struct {
	Enabled bool `yaml:"enabled"`
	// Pinning is the monitor index the tray lives on.
	Pinning int `yaml:"pinning"`
	// FollowSelected moves the tray to the selected monitor instead.
	FollowSelected bool `yaml:"follow_selected"`
	Spacing        int  `yaml:"spacing"`
	// OnLeft lays icons out left-to-right from the left end of the tray.
	OnLeft bool `yaml:"on_left"`
}

// Config represents the window manager configuration.
type Config struct {
	LogLevel       string        `yaml:"log_level"`
	Tags           []string      `yaml:"tags"`
	Fonts          []string      `yaml:"fonts"`
	Colors         Schemes       `yaml:"colors"`
	BorderPx       int           `yaml:"border_px"`
	GapPx          int           `yaml:"gap_px"`
	Snap           int           `yaml:"snap"`
	ShowBar        bool          `yaml:"show_bar"`
	TopBar         bool          `yaml:"top_bar"`
	ResizeHints    bool          `yaml:"resize_hints"`
	LockFullscreen bool          `yaml:"lock_fullscreen"`
	MFact          float64       `yaml:"mfact"`
	NMaster        int           `yaml:"nmaster"`
	KillTimeout    time.Duration `yaml:"kill_timeout"`
	Layouts        []LayoutEntry `yaml:"layouts"`
	Rules          []Rule        `yaml:"rules"`
	Scratchpads    []Scratchpad  `yaml:"scratchpads"`
	Systray        Systray       `yaml:"systray"`
	Keys           []Key         `yaml:"keys"`
	Buttons        []Button      `yaml:"buttons"`
}

// TagMask returns the mask covering every configured tag.
func (c *Config) TagMask() uint32 {
	return uint32(1)<<uint(len(c.Tags)) - 1
}

// LayoutRegistry resolves the configured layouts. Validate guarantees every
// algorithm name parses.
func (c *Config) LayoutRegistry() []tiling.Layout {
	out := make([]tiling.Layout, 0, len(c.Layouts))
	for _, l := range c.Layouts {
		kind, err := tiling.ParseKind(l.Algorithm)
		if err != nil {
			continue
		}
		out = append(out, tiling.Layout{Symbol: l.Symbol, Kind: kind})
	}
	return out
}

// ScratchCommand returns the command bound to a scratchpad key.
func (c *Config) ScratchCommand(key rune) ([]string, bool) {
	for _, s := range c.Scratchpads {
		if r, _ := utf8.DecodeRuneInString(s.Key); r == key {
			return s.Command, true
		}
	}
	return nil, false
}

// ValidationError points at the config path that failed to validate.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

var colorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	if len(c.Tags) == 0 {
		return &ValidationError{Path: "tags", Err: fmt.Errorf("at least one tag is required")}
	}
	if len(c.Tags) > MaxTags {
		return &ValidationError{Path: "tags", Err: fmt.Errorf("at most %d tags are supported, got %d", MaxTags, len(c.Tags))}
	}
	if len(c.Fonts) == 0 {
		return &ValidationError{Path: "fonts", Err: fmt.Errorf("at least one font is required")}
	}
	for name, col := range map[string]string{
		"colors.norm.fg": c.Colors.Norm.Fg, "colors.norm.bg": c.Colors.Norm.Bg, "colors.norm.border": c.Colors.Norm.Border,
		"colors.sel.fg": c.Colors.Sel.Fg, "colors.sel.bg": c.Colors.Sel.Bg, "colors.sel.border": c.Colors.Sel.Border,
	} {
		if !colorRe.MatchString(col) {
			return &ValidationError{Path: name, Err: fmt.Errorf("color %q must be #rrggbb", col)}
		}
	}
	if c.BorderPx < 0 {
		return &ValidationError{Path: "border_px", Err: fmt.Errorf("border_px must be >= 0")}
	}
	if c.GapPx < 0 {
		return &ValidationError{Path: "gap_px", Err: fmt.Errorf("gap_px must be >= 0")}
	}
	if c.Snap < 0 {
		return &ValidationError{Path: "snap", Err: fmt.Errorf("snap must be >= 0")}
	}
	if c.MFact < tiling.MinMFact || c.MFact > tiling.MaxMFact {
		return &ValidationError{Path: "mfact", Err: fmt.Errorf("mfact must be within [%.2f, %.2f]", tiling.MinMFact, tiling.MaxMFact)}
	}
	if c.NMaster < 0 {
		return &ValidationError{Path: "nmaster", Err: fmt.Errorf("nmaster must be >= 0")}
	}
	if c.KillTimeout <= 0 {
		return &ValidationError{Path: "kill_timeout", Err: fmt.Errorf("kill_timeout must be positive")}
	}

	if len(c.Layouts) == 0 {
		return &ValidationError{Path: "layouts", Err: fmt.Errorf("layouts must not be empty")}
	}
	for i, l := range c.Layouts {
		if _, err := tiling.ParseKind(l.Algorithm); err != nil {
			return &ValidationError{Path: fmt.Sprintf("layouts[%d].algorithm", i), Err: err}
		}
		if strings.TrimSpace(l.Symbol) == "" {
			return &ValidationError{Path: fmt.Sprintf("layouts[%d].symbol", i), Err: fmt.Errorf("symbol must not be empty")}
		}
	}

	scratchKeys := make(map[rune]bool)
	for i, s := range c.Scratchpads {
		path := fmt.Sprintf("scratchpads[%d]", i)
		if utf8.RuneCountInString(s.Key) != 1 {
			return &ValidationError{Path: path + ".key", Err: fmt.Errorf("scratchpad key must be a single character, got %q", s.Key)}
		}
		if len(s.Command) == 0 {
			return &ValidationError{Path: path + ".command", Err: fmt.Errorf("command must not be empty")}
		}
		r, _ := utf8.DecodeRuneInString(s.Key)
		if scratchKeys[r] {
			return &ValidationError{Path: path + ".key", Err: fmt.Errorf("duplicate scratchpad key %q", s.Key)}
		}
		scratchKeys[r] = true
	}
	for i, r := range c.Rules {
		path := fmt.Sprintf("rules[%d]", i)
		if r.Monitor < -1 {
			return &ValidationError{Path: path + ".monitor", Err: fmt.Errorf("monitor must be -1 (current) or an index")}
		}
		if r.ScratchKey != "" && utf8.RuneCountInString(r.ScratchKey) != 1 {
			return &ValidationError{Path: path + ".scratchkey", Err: fmt.Errorf("scratchkey must be a single character, got %q", r.ScratchKey)}
		}
		if r.Geometry != nil && (r.Geometry.Width <= 0 || r.Geometry.Height <= 0) {
			return &ValidationError{Path: path + ".geometry", Err: fmt.Errorf("geometry width and height must be positive")}
		}
	}
	if c.Systray.Pinning < 0 {
		return &ValidationError{Path: "systray.pinning", Err: fmt.Errorf("pinning must be >= 0")}
	}
	if c.Systray.Spacing < 0 {
		return &ValidationError{Path: "systray.spacing", Err: fmt.Errorf("spacing must be >= 0")}
	}

	for i, k := range c.Keys {
		if err := c.validateBinding(k.Action, k.Arg, scratchKeys); err != nil {
			return &ValidationError{Path: fmt.Sprintf("keys[%d]", i), Err: err}
		}
		if strings.TrimSpace(k.Key) == "" {
			return &ValidationError{Path: fmt.Sprintf("keys[%d].key", i), Err: fmt.Errorf("key must not be empty")}
		}
	}
	for i, b := range c.Buttons {
		if err := c.validateBinding(b.Action, b.Arg, scratchKeys); err != nil {
			return &ValidationError{Path: fmt.Sprintf("buttons[%d]", i), Err: err}
		}
		if _, err := ParseClick(string(b.Click)); err != nil {
			return &ValidationError{Path: fmt.Sprintf("buttons[%d].click", i), Err: err}
		}
	}
	return nil
}

func (c *Config) validateBinding(action Action, arg Arg, scratchKeys map[rune]bool) error {
	switch a := arg.(type) {
	case LayoutArg:
		if int(a) < 0 || int(a) >= len(c.Layouts) {
			return fmt.Errorf("%s: layout index %d out of range", action, int(a))
		}
	case ScratchArg:
		if !scratchKeys[rune(a)] {
			return fmt.Errorf("%s: no scratchpad with key %q", action, string(rune(a)))
		}
	}
	return nil
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	layouts := make([]LayoutEntry, 0, 8)
	for _, l := range tiling.DefaultLayouts() {
		layouts = append(layouts, LayoutEntry{Symbol: l.Symbol, Algorithm: l.Kind.String()})
	}
	return &Config{
		LogLevel: "info",
		Tags:     []string{"α", "β", "ξ", "δ", "ε", "φ", "γ", "θ", "ι"},
		Fonts:    []string{"-misc-fixed-medium-r-semicondensed--13-*-*-*-*-*-iso10646-1", "fixed"},
		Colors: Schemes{
			Norm: Colors{Fg: "#dcd7ba", Bg: "#1f1f28", Border: "#1f1f28"},
			Sel:  Colors{Fg: "#c8c093", Bg: "#2d4f67", Border: "#72a7bc"},
		},
		BorderPx:       1,
		Snap:           22,
		ShowBar:        true,
		TopBar:         true,
		ResizeHints:    false,
		LockFullscreen: false,
		MFact:          0.50,
		NMaster:        1,
		KillTimeout:    2 * time.Second,
		Layouts:        layouts,
		Rules:          defaultRules(),
		Scratchpads: []Scratchpad{
			{Key: "y", Command: []string{"st", "-t", "scratchpad", "-n", "scratchpad"}},
		},
		Systray: Systray{Enabled: true, Spacing: 2},
		Keys:    defaultKeys(),
		Buttons: defaultButtons(),
	}
}
