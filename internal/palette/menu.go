package palette

import (
	"errors"
	"strconv"
	"strings"
)

// MenuItem is a node of the menu tree. Leaves carry the action to run.
type MenuItem struct {
	Label    string
	Icon     string
	Action   string
	Arg      string
	IsHeader bool
	IsActive bool
	IsUrgent bool
	Submenu  []MenuItem
}

// IsParent reports whether the item opens a submenu.
func (m MenuItem) IsParent() bool {
	return len(m.Submenu) > 0
}

const (
	backID     = "back"
	subPrefix  = "sub:"
	leafPrefix = "leaf:"
)

// Menu walks a menu tree one launcher invocation per level.
type Menu struct {
	backend Backend
	prompt  string
	root    []MenuItem
}

// NewMenu creates a menu over the given root items.
func NewMenu(backend Backend, prompt string, items []MenuItem) *Menu {
	return &Menu{backend: backend, prompt: prompt, root: items}
}

// Show runs the menu until a leaf is picked. Cancelling the top level
// returns ErrCancelled; cancelling a submenu returns to its parent.
func (m *Menu) Show() (MenuItem, error) {
	return m.showLevel(m.root, nil)
}

func (m *Menu) showLevel(items []MenuItem, breadcrumb []string) (MenuItem, error) {
	if len(items) == 0 {
		return MenuItem{}, errors.New("menu: no items to show")
	}
	prompt := m.prompt
	if len(breadcrumb) > 0 {
		prompt = breadcrumb[len(breadcrumb)-1]
	}

	for {
		rows := make([]Item, 0, len(items)+1)
		if len(breadcrumb) > 0 {
			rows = append(rows, Item{Label: "← Back", ID: backID, Icon: "go-previous"})
		}
		for i, it := range items {
			row := Item{
				Label:    it.Label,
				Icon:     it.Icon,
				IsHeader: it.IsHeader,
				IsActive: it.IsActive,
				IsUrgent: it.IsUrgent,
				ID:       leafPrefix + strconv.Itoa(i),
			}
			if it.IsParent() {
				row.Label += " →"
				row.ID = subPrefix + strconv.Itoa(i)
			}
			rows = append(rows, row)
		}

		picked, err := m.backend.Show(prompt, rows)
		if err != nil {
			return MenuItem{}, err
		}
		if picked.IsHeader {
			continue
		}
		if picked.ID == backID {
			return MenuItem{}, ErrCancelled
		}

		if idx, ok := parseID(picked.ID, subPrefix, len(items)); ok {
			sub, err := m.showLevel(items[idx].Submenu, append(breadcrumb, items[idx].Label))
			if errors.Is(err, ErrCancelled) {
				continue
			}
			return sub, err
		}
		if idx, ok := parseID(picked.ID, leafPrefix, len(items)); ok && items[idx].Action != "" {
			return items[idx], nil
		}
	}
}

func parseID(id, prefix string, n int) (int, bool) {
	rest, ok := strings.CutPrefix(id, prefix)
	if !ok {
		return 0, false
	}
	idx, err := strconv.Atoi(rest)
	if err != nil || idx < 0 || idx >= n {
		return 0, false
	}
	return idx, true
}
