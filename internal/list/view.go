package list

import (
	"smart-shopping-list/internal/category"
	"smart-shopping-list/internal/quantity"
)

// Group holds one category's unchecked items in insertion order.
type Group struct {
	Category string
	Items    []Item
}

// View is the read-only projection handed to rendering layers: unchecked
// items grouped by category in supermarket route order, checked items as
// a trailing group in insertion order, plus the save-error flag.
type View struct {
	ListID   string
	ListName string
	Groups   []Group
	Checked  []Item
	SaveErr  error
}

// View builds the projection of the currently selected list from the
// current snapshot.
func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked(s.selected)
}

// ViewOf builds the projection of one list by ID.
func (s *Store) ViewOf(listID string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findListLocked(listID) == nil {
		return View{}, ErrListNotFound
	}
	return s.viewLocked(listID), nil
}

func (s *Store) viewLocked(listID string) View {
	v := View{SaveErr: s.saveErr}
	l := s.findListLocked(listID)
	if l == nil {
		return v
	}
	v.ListID = l.ID
	v.ListName = l.Name

	var unchecked []*Item
	var cats []string
	for _, it := range l.Items {
		if it.Checked {
			v.Checked = append(v.Checked, *cloneItem(it))
			continue
		}
		unchecked = append(unchecked, it)
		cats = append(cats, it.Category)
	}

	for _, g := range category.Group(cats) {
		grp := Group{Category: g.Category}
		for _, idx := range g.Indexes {
			grp.Items = append(grp.Items, *cloneItem(unchecked[idx]))
		}
		v.Groups = append(v.Groups, grp)
	}
	return v
}

// ItemByNumber resolves the 1-based display number used by the bot and
// CLI: unchecked items in group order first, then the checked group.
func (v View) ItemByNumber(n int) (Item, bool) {
	if n < 1 {
		return Item{}, false
	}
	count := 0
	for _, g := range v.Groups {
		for _, it := range g.Items {
			count++
			if count == n {
				return it, true
			}
		}
	}
	for _, it := range v.Checked {
		count++
		if count == n {
			return it, true
		}
	}
	return Item{}, false
}

// ExportLines renders the unchecked items as plain-text lines in route
// order, e.g. "3x Tomaten" or "500 g Mehl".
func (v View) ExportLines() []string {
	var lines []string
	for _, g := range v.Groups {
		for _, it := range g.Items {
			q := quantity.Quantity{Amount: it.Quantity, Unit: it.Unit}
			lines = append(lines, quantity.FormatForExport(q, it.Text))
		}
	}
	return lines
}
