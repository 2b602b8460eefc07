package config

import "fmt"

const (
	modKey   = "Mod4"
	terminal = "kitty"
)

func floating(class, instance, title string) Rule {
	return Rule{Class: class, Instance: instance, Title: title, Floating: true, Monitor: -1}
}

func defaultRules() []Rule {
	rules := []Rule{
		floating("", "", "Event Tester"),
		floating("", "", "lstopo"),
		floating("", "", "weatherreport"),
		floating("", "pop-up", ""),
	}
	for _, class := range []string{
		"Arandr", "Avahi-discover", "Blueberry.py", "Bssh", "Bvnc", "CMakeSetup",
	} {
		rules = append(rules, floating(class, "", ""))
	}
	rules = append(rules, floating("Display", "", "ImageMagick: "))
	for _, class := range []string{
		"feh", "Hardinfo", "Lxappearance", "matplotlib", "Nibbler", "Parcellite",
		"Pavucontrol", "qv4l2", "qvidcap", "System-config-printer.py", "Sxiv",
	} {
		rules = append(rules, floating(class, "", ""))
	}
	transmission := floating("Transmission-gtk", "", "")
	transmission.Tags = 1 << 8
	rules = append(rules, transmission)
	for _, class := range []string{"Xboard", "Xmessage", "Yad", "Yad-icon-browser"} {
		rules = append(rules, floating(class, "", ""))
	}
	rules = append(rules, Rule{Instance: "scratchpad", Floating: true, Monitor: -1, ScratchKey: "y"})
	return rules
}

func key(chord string, action Action, arg Arg) Key {
	if arg == nil {
		arg = NoArg{}
	}
	return Key{Key: chord, Action: action, Arg: arg}
}

func mod(chord string) string {
	return modKey + "-" + chord
}

func defaultKeys() []Key {
	keys := []Key{
		key(mod("Shift-q"), ActionKillClient, nil),
		key(mod("w"), ActionFocusMon, IntArg(-1)),
		key(mod("e"), ActionFocusMon, IntArg(+1)),
		key(mod("Shift-w"), ActionTagMon, IntArg(-1)),
		key(mod("Shift-e"), ActionTagMon, IntArg(+1)),
		key(mod("r"), ActionView, nil),
		key(mod("Shift-r"), ActionSetLayout, nil),
		key(mod("t"), ActionToggleFloating, nil),
		key(mod("Shift-f"), ActionToggleFullscreen, nil),
		key(mod("a"), ActionSpawn, ShellCommand(terminal)),
		key(mod("Shift-a"), ActionSpawn, ShellCommand("st")),
		key(mod("Control-a"), ActionSpawn, ShellCommand("tabbed -c -r 2 st -w ''")),
		key(mod("d"), ActionSpawn, ShellCommand("tabbed -c zathura -e")),
		key(mod("Shift-d"), ActionSpawn, ShellCommand("evince")),
		key(mod("f"), ActionSpawn, ShellCommand("google-chrome-stable")),
		key(mod("b"), ActionToggleBar, nil),
		key(mod("y"), ActionToggleScratch, ScratchArg('y')),

		key(mod("u"), ActionSpawn, ShellCommand("dmenu_run")),
		key(mod("Shift-u"), ActionSpawn, ShellCommand("rofi -modi drun,run,combi -show combi")),
		key(mod("k"), ActionFocusStack, IntArg(-1)),
		key(mod("j"), ActionFocusStack, IntArg(+1)),
		key(mod("h"), ActionSetMFact, FloatArg(-0.05)),
		key(mod("l"), ActionSetMFact, FloatArg(+0.05)),
		key(mod("Shift-m"), ActionZoom, nil),

		key(mod("Tab"), ActionCycleLayout, IntArg(+1)),
		key(mod("Shift-Tab"), ActionCycleLayout, IntArg(-1)),
		key(mod("Delete"), ActionSpawn, ShellCommand("xmenu-shutdown")),
		key(mod("Shift-Delete"), ActionQuit, nil),
		key(mod("Shift-BackSpace"), ActionSpawn, ShellCommand("loginctl lock-session")),
		key(mod("Return"), ActionSpawn, ShellCommand(terminal)),
		key(mod("Shift-Return"), ActionSpawn, ShellCommand("st")),
		key(mod("period"), ActionIncNMaster, IntArg(-1)),
		key(mod("comma"), ActionIncNMaster, IntArg(+1)),
		key(mod("space"), ActionSetLayout, LayoutArg(0)),
		// Shift-space picks bstack; monocle at index 4 is the other common choice.
		key(mod("Shift-space"), ActionSetLayout, LayoutArg(1)),
		key(mod("Control-space"), ActionSetLayout, LayoutArg(2)),
		key(mod("Print"), ActionSpawn, ShellCommand("scrotwp -fd")),
	}
	for i := 0; i < 9; i++ {
		n := fmt.Sprint(i + 1)
		keys = append(keys,
			key(mod(n), ActionView, TagArg(i)),
			key(mod("Control-"+n), ActionToggleView, TagArg(i)),
			key(mod("Shift-"+n), ActionTag, TagArg(i)),
			key(mod("Control-Shift-"+n), ActionToggleTag, TagArg(i)),
		)
	}
	keys = append(keys,
		key(mod("0"), ActionView, AllTags),
		key(mod("Shift-0"), ActionTag, AllTags),
		key("XF86AudioMute", ActionSpawn, ShellCommand("pactl set-sink-mute @DEFAULT_SINK@ toggle")),
		key("XF86AudioLowerVolume", ActionSpawn, ShellCommand("pactl set-sink-volume @DEFAULT_SINK@ -5%")),
		key("XF86AudioRaiseVolume", ActionSpawn, ShellCommand("pactl set-sink-volume @DEFAULT_SINK@ +5%")),
		key("XF86MonBrightnessDown", ActionSpawn, ShellCommand("xbacklight -dec 5")),
		key("XF86MonBrightnessUp", ActionSpawn, ShellCommand("xbacklight -inc 5")),
	)
	return keys
}

func button(click Click, chord string, action Action, arg Arg) Button {
	if arg == nil {
		arg = NoArg{}
	}
	return Button{Click: click, Button: chord, Action: action, Arg: arg}
}

func defaultButtons() []Button {
	return []Button{
		button(ClickLtSymbol, "1", ActionSetLayout, nil),
		button(ClickLtSymbol, "2", ActionSetLayout, LayoutArg(1)),
		button(ClickLtSymbol, "4", ActionCycleLayout, IntArg(+1)),
		button(ClickLtSymbol, "5", ActionCycleLayout, IntArg(-1)),
		button(ClickWinTitle, "2", ActionZoom, nil),
		button(ClickStatusText, "1", ActionSpawn, ShellCommand(terminal)),
		button(ClickStatusText, "2", ActionSpawn, ShellCommand(terminal+" -e pulsemixer")),
		button(ClickStatusText, "3", ActionSpawn, ShellCommand(terminal+" -e htop")),
		button(ClickClientWin, mod("1"), ActionMoveMouse, nil),
		button(ClickClientWin, mod("2"), ActionToggleFloating, nil),
		button(ClickClientWin, mod("3"), ActionResizeMouse, nil),
		button(ClickTagBar, "1", ActionView, nil),
		button(ClickTagBar, "3", ActionToggleView, nil),
		button(ClickTagBar, mod("1"), ActionTag, nil),
		button(ClickTagBar, mod("3"), ActionToggleTag, nil),
	}
}
