package palette

import (
	"fmt"
	"strings"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/wm"
)

// Entries builds the action menu for the current state of the manager.
// Rows for the selected monitor's view and layout are marked active.
func Entries(cfg *config.Config, st *wm.Status) []MenuItem {
	var sel wm.MonitorStatus
	for _, m := range st.Monitors {
		if m.Selected {
			sel = m
		}
	}

	view := make([]MenuItem, 0, len(st.Tags)+1)
	move := make([]MenuItem, 0, len(st.Tags)+1)
	for i, name := range st.Tags {
		bit := uint32(1) << uint(i)
		arg := fmt.Sprintf("[%d]", i+1)
		view = append(view, MenuItem{
			Label:    "Tag " + name,
			Action:   string(config.ActionView),
			Arg:      arg,
			IsActive: sel.Tags&bit != 0,
			IsUrgent: sel.Urgent&bit != 0,
		})
		move = append(move, MenuItem{
			Label:  "Tag " + name,
			Action: string(config.ActionTag),
			Arg:    arg,
		})
	}
	view = append(view, MenuItem{Label: "All tags", Action: string(config.ActionView), Arg: "all"})
	move = append(move, MenuItem{Label: "All tags", Action: string(config.ActionTag), Arg: "all"})

	layouts := make([]MenuItem, 0, len(cfg.Layouts))
	for i, l := range cfg.Layouts {
		layouts = append(layouts, MenuItem{
			Label:    strings.TrimSpace(l.Symbol + " " + l.Algorithm),
			Action:   string(config.ActionSetLayout),
			Arg:      fmt.Sprint(i),
			IsActive: l.Algorithm == sel.Layout,
		})
	}

	items := []MenuItem{
		{Label: "View", Icon: "view-grid", Submenu: view},
		{Label: "Move window to", Icon: "go-jump", Submenu: move},
	}
	if len(layouts) > 0 {
		items = append(items, MenuItem{Label: "Layout", Icon: "view-dual", Submenu: layouts})
	}
	if len(cfg.Scratchpads) > 0 {
		pads := make([]MenuItem, 0, len(cfg.Scratchpads))
		for _, s := range cfg.Scratchpads {
			pads = append(pads, MenuItem{
				Label:  s.Key + ": " + strings.Join(s.Command, " "),
				Action: string(config.ActionToggleScratch),
				Arg:    s.Key,
			})
		}
		items = append(items, MenuItem{Label: "Scratchpads", Icon: "utilities-terminal", Submenu: pads})
	}

	items = append(items,
		MenuItem{Label: "Window", IsHeader: true},
		MenuItem{Label: "Toggle floating", Action: string(config.ActionToggleFloating)},
		MenuItem{Label: "Toggle fullscreen", Action: string(config.ActionToggleFullscreen)},
		MenuItem{Label: "Zoom to master", Action: string(config.ActionZoom)},
		MenuItem{Label: "Close window", Icon: "window-close", Action: string(config.ActionKillClient)},
	)
	if len(st.Monitors) > 1 {
		items = append(items,
			MenuItem{Label: "Send window to next monitor", Action: string(config.ActionTagMon), Arg: "1"},
			MenuItem{Label: "Focus next monitor", Action: string(config.ActionFocusMon), Arg: "1"},
		)
	}
	items = append(items,
		MenuItem{Label: "Session", IsHeader: true},
		MenuItem{Label: "Toggle bar", Action: string(config.ActionToggleBar)},
		MenuItem{Label: "Quit tagtile", Icon: "system-log-out", Action: string(config.ActionQuit)},
	)
	return items
}
