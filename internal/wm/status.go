package wm

import (
	"slices"

	"github.com/1broseidon/tagtile/internal/tiling"
)

// MonitorStatus describes one monitor for status queries.
type MonitorStatus struct {
	Num      int         `json:"num"`
	Selected bool        `json:"selected"`
	Geometry tiling.Rect `json:"geometry"`
	WorkArea tiling.Rect `json:"work_area"`
	Layout   string      `json:"layout"`
	Symbol   string      `json:"symbol"`
	MFact    float64     `json:"mfact"`
	NMaster  int         `json:"nmaster"`
	Tags     uint32      `json:"tags"`
	Occupied uint32      `json:"occupied"`
	Urgent   uint32      `json:"urgent"`
	ShowBar  bool        `json:"show_bar"`
	Clients  int         `json:"clients"`
	Focused  string      `json:"focused,omitempty"`
}

// Status is a snapshot of the whole manager.
type Status struct {
	Tags           []string        `json:"tags"`
	Monitors       []MonitorStatus `json:"monitors"`
	StatusText     string          `json:"status_text"`
	Clients        int             `json:"clients"`
	TrayIcons      int             `json:"tray_icons"`
	PendingScratch string          `json:"pending_scratch,omitempty"`
}

// ClientInfo describes one managed client.
type ClientInfo struct {
	Window     uint32      `json:"window"`
	Name       string      `json:"name"`
	Class      string      `json:"class"`
	Instance   string      `json:"instance"`
	Monitor    int         `json:"monitor"`
	Tags       uint32      `json:"tags"`
	Geometry   tiling.Rect `json:"geometry"`
	Floating   bool        `json:"floating"`
	Fullscreen bool        `json:"fullscreen"`
	Urgent     bool        `json:"urgent"`
	Focused    bool        `json:"focused"`
	Visible    bool        `json:"visible"`
	ScratchKey string      `json:"scratch_key,omitempty"`
	HasIcon    bool        `json:"has_icon"`
}

// Status returns a snapshot of the monitors and their views.
func (e *Engine) Status() Status {
	st := Status{
		Tags:       slices.Clone(e.cfg.Tags),
		StatusText: e.status,
		Clients:    len(e.clients),
		TrayIcons:  len(e.TrayIcons()),
	}
	if e.pendingScratch != 0 {
		st.PendingScratch = string(e.pendingScratch)
	}
	for _, m := range e.mons {
		ms := MonitorStatus{
			Num:      m.Num,
			Selected: m == e.selmon,
			Geometry: m.Rect(),
			WorkArea: m.WorkArea(),
			Layout:   e.layout(m).Kind.String(),
			Symbol:   m.LtSymbol,
			MFact:    m.MFact,
			NMaster:  m.NMaster,
			Tags:     m.TagSet[m.SelTags],
			ShowBar:  m.ShowBar,
			Clients:  len(m.Clients),
		}
		for _, w := range m.Clients {
			if c := e.clients[w]; c != nil {
				ms.Occupied |= c.Tags
				if c.IsUrgent {
					ms.Urgent |= c.Tags
				}
			}
		}
		if c := e.sel(m); c != nil {
			ms.Focused = c.Name
		}
		st.Monitors = append(st.Monitors, ms)
	}
	return st
}

// Clients lists managed clients per monitor in manage order.
func (e *Engine) Clients() []ClientInfo {
	var out []ClientInfo
	for _, m := range e.mons {
		for _, w := range m.Clients {
			c := e.clients[w]
			if c == nil {
				continue
			}
			class, instance := e.srv.Class(c.Win)
			info := ClientInfo{
				Window:     uint32(c.Win),
				Name:       c.Name,
				Class:      class,
				Instance:   instance,
				Monitor:    m.Num,
				Tags:       c.Tags,
				Geometry:   rectOf(c.X, c.Y, c.W, c.H),
				Floating:   c.IsFloating,
				Fullscreen: c.IsFullscreen,
				Urgent:     c.IsUrgent,
				Focused:    m == e.selmon && m.Sel == c.Win,
				Visible:    c.Visible(),
				HasIcon:    c.Icon != nil,
			}
			if c.ScratchKey != 0 {
				info.ScratchKey = string(c.ScratchKey)
			}
			out = append(out, info)
		}
	}
	return out
}
