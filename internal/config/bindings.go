package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Action names a window manager operation that keys, buttons and the control
// socket can trigger.
type Action string

const (
	ActionSpawn            Action = "spawn"
	ActionToggleScratch    Action = "togglescratch"
	ActionToggleBar        Action = "togglebar"
	ActionFocusStack       Action = "focusstack"
	ActionIncNMaster       Action = "incnmaster"
	ActionSetMFact         Action = "setmfact"
	ActionZoom             Action = "zoom"
	ActionView             Action = "view"
	ActionToggleView       Action = "toggleview"
	ActionTag              Action = "tag"
	ActionToggleTag        Action = "toggletag"
	ActionSetLayout        Action = "setlayout"
	ActionCycleLayout      Action = "cyclelayout"
	ActionToggleFloating   Action = "togglefloating"
	ActionToggleFullscreen Action = "togglefullscreen"
	ActionKillClient       Action = "killclient"
	ActionFocusMon         Action = "focusmon"
	ActionTagMon           Action = "tagmon"
	ActionMoveMouse        Action = "movemouse"
	ActionResizeMouse      Action = "resizemouse"
	ActionQuit             Action = "quit"
)

// ArgKind is the argument shape an action accepts.
type ArgKind int

const (
	ArgKindNone ArgKind = iota
	ArgKindInt
	ArgKindUint
	ArgKindFloat
	ArgKindLayout
	ArgKindCommand
	ArgKindScratch
)

var actionArgs = map[Action]ArgKind{
	ActionSpawn:            ArgKindCommand,
	ActionToggleScratch:    ArgKindScratch,
	ActionToggleBar:        ArgKindNone,
	ActionFocusStack:       ArgKindInt,
	ActionIncNMaster:       ArgKindInt,
	ActionSetMFact:         ArgKindFloat,
	ActionZoom:             ArgKindNone,
	ActionView:             ArgKindUint,
	ActionToggleView:       ArgKindUint,
	ActionTag:              ArgKindUint,
	ActionToggleTag:        ArgKindUint,
	ActionSetLayout:        ArgKindLayout,
	ActionCycleLayout:      ArgKindInt,
	ActionToggleFloating:   ArgKindNone,
	ActionToggleFullscreen: ArgKindNone,
	ActionKillClient:       ArgKindNone,
	ActionFocusMon:         ArgKindInt,
	ActionTagMon:           ArgKindInt,
	ActionMoveMouse:        ArgKindNone,
	ActionResizeMouse:      ArgKindNone,
	ActionQuit:             ArgKindNone,
}

// ArgKindOf reports the argument shape of an action.
func ArgKindOf(a Action) (ArgKind, bool) {
	k, ok := actionArgs[a]
	return k, ok
}

// Actions lists every action name in sorted order.
func Actions() []Action {
	out := make([]Action, 0, len(actionArgs))
	for a := range actionArgs {
		out = append(out, a)
	}
	slices.Sort(out)
	return out
}

// NeedsPointer reports whether the action only makes sense from a button
// binding, with the pointer grabbed.
func (a Action) NeedsPointer() bool {
	return a == ActionMoveMouse || a == ActionResizeMouse
}

// RemoteActions lists the actions that can be run without a pointer press,
// in sorted order.
func RemoteActions() []Action {
	out := Actions()
	return slices.DeleteFunc(out, Action.NeedsPointer)
}

// Arg is the typed argument of a binding. Exactly one of the variants below
// implements it.
type Arg interface {
	isArg()
}

// NoArg is the argument of actions that take none, and the "unset" value of
// optional arguments.
type NoArg struct{}

// IntArg is a signed delta or direction.
type IntArg int

// UintArg is a tag mask.
type UintArg uint32

// AllTags selects every configured tag.
const AllTags = UintArg(^uint32(0))

// FloatArg is an mfact delta; values above 1.0 set mfact to value-1.0.
type FloatArg float64

// LayoutArg selects a registry slot by index. Actions taking a layout treat
// NoArg as "toggle back to the previous layout".
type LayoutArg int

// CommandArg is an argument vector for a spawned process.
type CommandArg []string

// ScratchArg names a scratchpad.
type ScratchArg rune

func (NoArg) isArg()      {}
func (IntArg) isArg()     {}
func (UintArg) isArg()    {}
func (FloatArg) isArg()   {}
func (LayoutArg) isArg()  {}
func (CommandArg) isArg() {}
func (ScratchArg) isArg() {}

// ShellCommand wraps a command line in /bin/sh -c.
func ShellCommand(cmd string) CommandArg {
	return CommandArg{"/bin/sh", "-c", cmd}
}

// TagArg returns the mask for one zero-based tag index.
func TagArg(i int) UintArg {
	return UintArg(uint32(1) << uint(i))
}

// ParseArg decodes a scalar argument for an action. It is used by the control
// socket, where arguments arrive as strings.
func ParseArg(action Action, raw string) (Arg, error) {
	raw = strings.TrimSpace(raw)
	var node yaml.Node
	if raw == "" {
		return decodeArg(action, nil)
	}
	if err := yaml.Unmarshal([]byte(raw), &node); err != nil {
		return nil, fmt.Errorf("%s: parse argument %q: %w", action, raw, err)
	}
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		return decodeArg(action, node.Content[0])
	}
	return decodeArg(action, nil)
}

func decodeArg(action Action, node *yaml.Node) (Arg, error) {
	kind, ok := actionArgs[action]
	if !ok {
		return nil, fmt.Errorf("unknown action %q", action)
	}
	if node == nil || node.Tag == "!!null" {
		switch kind {
		case ArgKindCommand:
			return nil, fmt.Errorf("%s: a command is required", action)
		case ArgKindScratch:
			return nil, fmt.Errorf("%s: a scratchpad key is required", action)
		case ArgKindInt, ArgKindFloat:
			return nil, fmt.Errorf("%s: a numeric argument is required", action)
		}
		return NoArg{}, nil
	}

	switch kind {
	case ArgKindNone:
		return nil, fmt.Errorf("%s: takes no argument", action)
	case ArgKindInt:
		var v int
		if err := node.Decode(&v); err != nil {
			return nil, fmt.Errorf("%s: expected an integer: %w", action, err)
		}
		return IntArg(v), nil
	case ArgKindFloat:
		var v float64
		if err := node.Decode(&v); err != nil {
			return nil, fmt.Errorf("%s: expected a number: %w", action, err)
		}
		return FloatArg(v), nil
	case ArgKindUint:
		return decodeTagMask(action, node)
	case ArgKindLayout:
		var idx int
		if err := node.Decode(&idx); err != nil {
			return nil, fmt.Errorf("%s: expected a layout index: %w", action, err)
		}
		return LayoutArg(idx), nil
	case ArgKindCommand:
		switch node.Kind {
		case yaml.ScalarNode:
			if strings.TrimSpace(node.Value) == "" {
				return nil, fmt.Errorf("%s: command must not be empty", action)
			}
			return ShellCommand(node.Value), nil
		case yaml.SequenceNode:
			var argv []string
			if err := node.Decode(&argv); err != nil {
				return nil, fmt.Errorf("%s: expected an argument list: %w", action, err)
			}
			if len(argv) == 0 {
				return nil, fmt.Errorf("%s: command must not be empty", action)
			}
			return CommandArg(argv), nil
		}
		return nil, fmt.Errorf("%s: expected a command string or list", action)
	case ArgKindScratch:
		if node.Kind != yaml.ScalarNode || utf8.RuneCountInString(node.Value) != 1 {
			return nil, fmt.Errorf("%s: expected a single-character scratchpad key", action)
		}
		r, _ := utf8.DecodeRuneInString(node.Value)
		return ScratchArg(r), nil
	}
	return nil, fmt.Errorf("%s: unsupported argument", action)
}

// decodeTagMask accepts "all", a list of one-based tag numbers, or a raw mask.
func decodeTagMask(action Action, node *yaml.Node) (Arg, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if strings.EqualFold(node.Value, "all") {
			return AllTags, nil
		}
		v, err := strconv.ParseUint(node.Value, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("%s: expected a tag mask, a tag list or \"all\"", action)
		}
		return UintArg(v), nil
	case yaml.SequenceNode:
		var tags []int
		if err := node.Decode(&tags); err != nil {
			return nil, fmt.Errorf("%s: expected a list of tag numbers: %w", action, err)
		}
		var mask uint32
		for _, t := range tags {
			if t < 1 || t > MaxTags {
				return nil, fmt.Errorf("%s: tag number %d out of range", action, t)
			}
			mask |= 1 << uint(t-1)
		}
		return UintArg(mask), nil
	}
	return nil, fmt.Errorf("%s: expected a tag mask, a tag list or \"all\"", action)
}

func encodeArg(arg Arg) any {
	switch a := arg.(type) {
	case IntArg:
		return int(a)
	case UintArg:
		if a == AllTags {
			return "all"
		}
		var tags []int
		for i := 0; i < MaxTags; i++ {
			if uint32(a)&(1<<uint(i)) != 0 {
				tags = append(tags, i+1)
			}
		}
		return tags
	case FloatArg:
		return float64(a)
	case LayoutArg:
		return int(a)
	case CommandArg:
		if len(a) == 3 && a[0] == "/bin/sh" && a[1] == "-c" {
			return a[2]
		}
		return []string(a)
	case ScratchArg:
		return string(rune(a))
	}
	return nil
}

// FormatArg renders an argument the way the config file spells it.
func FormatArg(arg Arg) string {
	switch v := encodeArg(arg).(type) {
	case nil:
		return ""
	case []int:
		parts := make([]string, len(v))
		for i, t := range v {
			parts[i] = strconv.Itoa(t)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []string:
		return strings.Join(v, " ")
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Key binds a key chord such as "Mod4-Shift-q" to an action.
type Key struct {
	Key    string
	Action Action
	Arg    Arg
}

type rawBinding struct {
	Key    string    `yaml:"key,omitempty"`
	Click  string    `yaml:"click,omitempty"`
	Button string    `yaml:"button,omitempty"`
	Action Action    `yaml:"action"`
	Arg    yaml.Node `yaml:"arg,omitempty"`
}

func (k *Key) UnmarshalYAML(node *yaml.Node) error {
	var raw rawBinding
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if raw.Click != "" || raw.Button != "" {
		return fmt.Errorf("line %d: key bindings do not take click or button", node.Line)
	}
	arg, err := decodeArg(raw.Action, argNode(&raw.Arg))
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*k = Key{Key: raw.Key, Action: raw.Action, Arg: arg}
	return nil
}

func (k Key) MarshalYAML() (any, error) {
	return bindingOut{Key: k.Key, Action: k.Action, Arg: encodeArg(k.Arg)}, nil
}

// Click identifies the region a pointer button was pressed in.
type Click string

const (
	ClickTagBar     Click = "tagbar"
	ClickLtSymbol   Click = "ltsymbol"
	ClickStatusText Click = "statustext"
	ClickWinTitle   Click = "wintitle"
	ClickClientWin  Click = "clientwin"
	ClickRootWin    Click = "rootwin"
)

// ParseClick validates a click region name.
func ParseClick(s string) (Click, error) {
	switch c := Click(strings.ToLower(s)); c {
	case ClickTagBar, ClickLtSymbol, ClickStatusText, ClickWinTitle, ClickClientWin, ClickRootWin:
		return c, nil
	}
	return "", fmt.Errorf("unknown click region %q", s)
}

// Button binds a pointer chord such as "Mod4-1" in a click region.
type Button struct {
	Click  Click
	Button string
	Action Action
	Arg    Arg
}

func (b *Button) UnmarshalYAML(node *yaml.Node) error {
	var raw rawBinding
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if raw.Key != "" {
		return fmt.Errorf("line %d: button bindings do not take key", node.Line)
	}
	arg, err := decodeArg(raw.Action, argNode(&raw.Arg))
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*b = Button{Click: Click(raw.Click), Button: raw.Button, Action: raw.Action, Arg: arg}
	return nil
}

func (b Button) MarshalYAML() (any, error) {
	return bindingOut{Click: string(b.Click), Button: b.Button, Action: b.Action, Arg: encodeArg(b.Arg)}, nil
}

type bindingOut struct {
	Key    string `yaml:"key,omitempty"`
	Click  string `yaml:"click,omitempty"`
	Button string `yaml:"button,omitempty"`
	Action Action `yaml:"action"`
	Arg    any    `yaml:"arg,omitempty"`
}

func argNode(n *yaml.Node) *yaml.Node {
	if n.Kind == 0 {
		return nil
	}
	return n
}
