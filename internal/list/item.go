// Package list owns the in-memory shopping lists: the per-item
// classification lifecycle, the merge policy for duplicate products and
// the debounced sync to persistence.
package list

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Status tracks where an item is in its classification lifecycle.
type Status string

// Item status constants.
const (
	StatusAnalyzing Status = "analyzing"
	StatusDone      Status = "done"
	StatusError     Status = "error"
)

// Item is a single shopping list entry. Category, Quantity and Unit are
// only meaningful once Status is done; the store keeps that invariant.
type Item struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	RawInput string   `json:"raw_input"`
	Checked  bool     `json:"checked"`
	Status   Status   `json:"status"`
	Category string   `json:"category,omitempty"`
	Quantity *float64 `json:"quantity,omitempty"`
	Unit     string   `json:"unit,omitempty"`
}

// List is an ordered collection of items. Item order is insertion order;
// checked items are moved to a trailing group at render time only.
type List struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Items []*Item `json:"items"`
}

// DefaultListName is used when a list is created without a name.
const DefaultListName = "Einkaufsliste"

const maxListNameLen = 80

// NewDefaultList creates the list a user gets when none exist.
func NewDefaultList() *List {
	return &List{ID: uuid.NewString(), Name: DefaultListName}
}

// cleanListName trims, defaults and caps a user supplied list name so a
// list always has a valid one. The cap counts runes, not bytes, so
// truncation never leaves a broken multi-byte character.
func cleanListName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultListName
	}
	if utf8.RuneCountInString(name) > maxListNameLen {
		name = string([]rune(name)[:maxListNameLen])
	}
	return name
}

func (l *List) itemIndex(itemID string) int {
	for i, it := range l.Items {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}

func (l *List) removeItemAt(i int) {
	l.Items = append(l.Items[:i], l.Items[i+1:]...)
}

func cloneItem(it *Item) *Item {
	c := *it
	if it.Quantity != nil {
		q := *it.Quantity
		c.Quantity = &q
	}
	return &c
}

func cloneList(l *List) *List {
	c := &List{ID: l.ID, Name: l.Name}
	if l.Items != nil {
		c.Items = make([]*Item, len(l.Items))
		for i, it := range l.Items {
			c.Items[i] = cloneItem(it)
		}
	}
	return c
}

func cloneLists(ls []*List) []*List {
	out := make([]*List, len(ls))
	for i, l := range ls {
		out[i] = cloneList(l)
	}
	return out
}
