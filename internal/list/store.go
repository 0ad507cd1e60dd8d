package list

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"smart-shopping-list/internal/identity"
	"smart-shopping-list/internal/quantity"

	"github.com/google/uuid"
)

// Repository persists all of a user's lists as one opaque document.
// Last write wins; the store never merges remote state.
type Repository interface {
	Load(ctx context.Context, userID string) ([]*List, error)
	Save(ctx context.Context, userID string, lists []*List) error
}

// FrequencyRecorder records that an item was checked off. Best effort:
// the store logs failures and moves on.
type FrequencyRecorder interface {
	Record(ctx context.Context, normalizedLabel string) error
}

// Errors returned by store operations.
var (
	ErrListNotFound  = errors.New("list not found")
	ErrItemNotFound  = errors.New("item not found")
	ErrItemAnalyzing = errors.New("item is still being analyzed")
	ErrItemNotDone   = errors.New("item has no settled classification")
)

// DefaultSaveDelay is the quiet period before a mutation is persisted.
// Every further mutation inside the window resets it, coalescing rapid
// edits into one write.
const DefaultSaveDelay = 500 * time.Millisecond

// Store is the single owner of all shopping lists. Every mutation is one
// lock-scoped call, so no two mutations are ever half applied relative to
// each other; classification callbacks re-read current state by ID.
type Store struct {
	mu     sync.Mutex
	userID string
	repo   Repository
	freq   FrequencyRecorder

	lists    []*List
	selected string

	saveDelay time.Duration
	saveTimer *time.Timer
	saveErr   error

	// saveMu serializes repository writes so a slow save can never land
	// after, and overwrite, one taken from a newer snapshot.
	saveMu sync.Mutex
}

// NewStore creates a store for one user's lists. freq may be nil.
func NewStore(userID string, repo Repository, freq FrequencyRecorder) *Store {
	return &Store{
		userID:    userID,
		repo:      repo,
		freq:      freq,
		saveDelay: DefaultSaveDelay,
	}
}

// SetSaveDelay overrides the debounce quiet period. Call before first use.
func (s *Store) SetSaveDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveDelay = d
}

// Init loads the user's lists from the repository. When none exist a
// fresh default list is synthesized so the user never faces zero lists.
func (s *Store) Init(ctx context.Context) error {
	lists, err := s.repo.Load(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("failed to load lists: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists = lists
	if len(s.lists) == 0 {
		s.lists = []*List{NewDefaultList()}
		s.scheduleSaveLocked()
	}
	s.selected = s.lists[0].ID
	return nil
}

// Reload replaces the in-memory snapshot wholesale with freshly loaded
// state, keeping the currently selected list if it still exists, else
// falling back to the first available one.
func (s *Store) Reload(ctx context.Context) error {
	lists, err := s.repo.Load(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("failed to reload lists: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists = lists
	if len(s.lists) == 0 {
		s.lists = []*List{NewDefaultList()}
		s.scheduleSaveLocked()
	}
	if s.findListLocked(s.selected) == nil {
		s.selected = s.lists[0].ID
	}
	s.saveErr = nil
	return nil
}

// ListInfo is a read-only summary of one list.
type ListInfo struct {
	ID       string
	Name     string
	Items    int
	Selected bool
}

// Lists returns summaries of all lists in stable order.
func (s *Store) Lists() []ListInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]ListInfo, len(s.lists))
	for i, l := range s.lists {
		infos[i] = ListInfo{
			ID:       l.ID,
			Name:     l.Name,
			Items:    len(l.Items),
			Selected: l.ID == s.selected,
		}
	}
	return infos
}

// SelectedID returns the ID of the currently selected list.
func (s *Store) SelectedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// SelectList switches the current list.
func (s *Store) SelectList(listID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findListLocked(listID) == nil {
		return ErrListNotFound
	}
	s.selected = listID
	return nil
}

// CreateList adds a new list (name defaulted if blank) and selects it.
func (s *Store) CreateList(name string) ListInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := &List{ID: uuid.NewString(), Name: cleanListName(name)}
	s.lists = append(s.lists, l)
	s.selected = l.ID
	s.scheduleSaveLocked()
	return ListInfo{ID: l.ID, Name: l.Name, Selected: true}
}

// RenameList changes a list's name, defaulting blank names.
func (s *Store) RenameList(listID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.findListLocked(listID)
	if l == nil {
		return ErrListNotFound
	}
	l.Name = cleanListName(name)
	s.scheduleSaveLocked()
	return nil
}

// DeleteList removes a list. Deleting the last remaining list replaces it
// with a fresh default list: a user is never left with zero lists.
func (s *Store) DeleteList(listID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, l := range s.lists {
		if l.ID == listID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrListNotFound
	}

	s.lists = append(s.lists[:idx], s.lists[idx+1:]...)
	if len(s.lists) == 0 {
		s.lists = []*List{NewDefaultList()}
	}
	if s.findListLocked(s.selected) == nil {
		s.selected = s.lists[0].ID
	}
	s.scheduleSaveLocked()
	return nil
}

// AddManualItem inserts an item created by a direct text edit. It skips
// the analyzing state entirely and settles as done with no structure.
// Blank input is silently ignored.
func (s *Store) AddManualItem(listID, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.findListLocked(listID)
	if l == nil {
		return "", ErrListNotFound
	}

	it := &Item{
		ID:       uuid.NewString(),
		Text:     text,
		RawInput: text,
		Status:   StatusDone,
	}
	l.Items = append(l.Items, it)
	s.scheduleSaveLocked()
	return it.ID, nil
}

// EditItemText overwrites an item's display text. A manual edit
// invalidates any previously inferred structure, so quantity and unit are
// cleared. Items still being analyzed cannot be edited until they settle.
func (s *Store) EditItemText(listID, itemID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	it, err := s.findItemLocked(listID, itemID)
	if err != nil {
		return err
	}
	if it.Status == StatusAnalyzing {
		return ErrItemAnalyzing
	}

	it.Text = text
	it.Quantity = nil
	it.Unit = ""
	s.scheduleSaveLocked()
	return nil
}

// EditItemQuantity re-parses raw quantity text and stores the structured
// result. Only settled (done) items carry a quantity.
func (s *Store) EditItemQuantity(listID, itemID, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, err := s.findItemLocked(listID, itemID)
	if err != nil {
		return err
	}
	if it.Status != StatusDone {
		return ErrItemNotDone
	}

	q := quantity.Parse(raw)
	it.Quantity = q.Amount
	it.Unit = q.Unit
	s.scheduleSaveLocked()
	return nil
}

// ToggleItem flips an item's checked state. Items still being analyzed
// cannot be toggled until they settle. Checking an item records it in
// the frequency history, fire and forget.
func (s *Store) ToggleItem(listID, itemID string) error {
	s.mu.Lock()

	it, err := s.findItemLocked(listID, itemID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if it.Status == StatusAnalyzing {
		s.mu.Unlock()
		return ErrItemAnalyzing
	}

	it.Checked = !it.Checked
	recordLabel := ""
	if it.Checked {
		recordLabel = identity.Normalize(it.Text)
	}
	s.scheduleSaveLocked()
	s.mu.Unlock()

	if recordLabel != "" && s.freq != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.freq.Record(ctx, recordLabel); err != nil {
				log.Printf("Warning: failed to record frequent item %q: %v", recordLabel, err)
			}
		}()
	}
	return nil
}

// DeleteItem removes an item unconditionally in any status. Deleting an
// analyzing item logically cancels its classification: the eventual
// callback finds no item with that ID and discards the result.
func (s *Store) DeleteItem(listID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.findListLocked(listID)
	if l == nil {
		return ErrListNotFound
	}
	idx := l.itemIndex(itemID)
	if idx == -1 {
		return ErrItemNotFound
	}

	l.removeItemAt(idx)
	s.scheduleSaveLocked()
	return nil
}

// Item returns a copy of one item.
func (s *Store) Item(listID, itemID string) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, err := s.findItemLocked(listID, itemID)
	if err != nil {
		return Item{}, err
	}
	return *cloneItem(it), nil
}

// SaveError reports the outcome of the most recent persistence attempt.
// Mutations already applied in memory are never rolled back; the user can
// retry the save or reload from the backend.
func (s *Store) SaveError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveErr
}

// Flush cancels any pending debounced save and persists immediately.
// Also serves as the explicit retry after a failed save. Concurrent
// flushes run one at a time, each snapshotting after the previous save
// finished.
func (s *Store) Flush(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
	snapshot := cloneLists(s.lists)
	s.mu.Unlock()

	err := s.repo.Save(ctx, s.userID, snapshot)

	s.mu.Lock()
	s.saveErr = err
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to save lists: %w", err)
	}
	return nil
}

func (s *Store) findListLocked(listID string) *List {
	for _, l := range s.lists {
		if l.ID == listID {
			return l
		}
	}
	return nil
}

func (s *Store) findItemLocked(listID, itemID string) (*Item, error) {
	l := s.findListLocked(listID)
	if l == nil {
		return nil, ErrListNotFound
	}
	idx := l.itemIndex(itemID)
	if idx == -1 {
		return nil, ErrItemNotFound
	}
	return l.Items[idx], nil
}

func (s *Store) scheduleSaveLocked() {
	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}
	s.saveTimer = time.AfterFunc(s.saveDelay, func() {
		if err := s.Flush(context.Background()); err != nil {
			log.Printf("Warning: %v", err)
		}
	})
}
