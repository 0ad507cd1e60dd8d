package list

import (
	"context"
	"errors"
	"strings"
	"sync"

	"smart-shopping-list/internal/classify"
	"smart-shopping-list/internal/identity"

	"github.com/google/uuid"
)

// Ingestor drives the async lifecycle of submitted items: optimistic
// insertion, one classification call per chunk and settlement through the
// merge policy. Chunks are classified independently and may settle in any
// order relative to submission and to unrelated mutations. Submit and
// Wait are safe to call from concurrent goroutines.
type Ingestor struct {
	store      *Store
	classifier classify.Classifier

	mu      sync.Mutex
	settled *sync.Cond
	pending int
}

// NewIngestor creates an ingestor feeding the given store.
func NewIngestor(store *Store, classifier classify.Classifier) *Ingestor {
	ing := &Ingestor{store: store, classifier: classifier}
	ing.settled = sync.NewCond(&ing.mu)
	return ing
}

// SplitInput breaks pasted free text into chunks, one per item. Lines,
// commas and semicolons all separate; blank chunks are dropped.
func SplitInput(input string) []string {
	var chunks []string
	for _, part := range strings.FieldsFunc(input, func(r rune) bool {
		return r == '\n' || r == ',' || r == ';'
	}) {
		if chunk := strings.TrimSpace(part); chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

// Submit splits the input and inserts one analyzing item per chunk,
// visible immediately. Classification runs in the background and is not
// on the critical path of visibility. Returns the new item IDs; blank
// input yields none and is not an error.
func (ing *Ingestor) Submit(ctx context.Context, listID, input string) []string {
	chunks := SplitInput(input)
	if len(chunks) == 0 {
		return nil
	}

	var ids []string
	for _, chunk := range chunks {
		itemID, ok := ing.store.insertAnalyzing(listID, chunk)
		if !ok {
			continue
		}
		ids = append(ids, itemID)

		ing.mu.Lock()
		ing.pending++
		ing.mu.Unlock()
		go func(chunk, itemID string) {
			defer ing.finish()
			result, err := ing.classifier.Classify(ctx, chunk)
			ing.store.settle(listID, itemID, result, err)
		}(chunk, itemID)
	}
	return ids
}

// Wait blocks until all in-flight classifications have settled,
// including chunks submitted by other goroutines in the meantime.
func (ing *Ingestor) Wait() {
	ing.mu.Lock()
	defer ing.mu.Unlock()
	for ing.pending > 0 {
		ing.settled.Wait()
	}
}

func (ing *Ingestor) finish() {
	ing.mu.Lock()
	ing.pending--
	ing.settled.Broadcast()
	ing.mu.Unlock()
}

// insertAnalyzing appends a fresh analyzing item with its raw text as the
// provisional display text. The ID is allocated before the classification
// call is dispatched so the eventual callback can find the item.
func (s *Store) insertAnalyzing(listID, rawInput string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.findListLocked(listID)
	if l == nil {
		return "", false
	}

	it := &Item{
		ID:       uuid.NewString(),
		Text:     rawInput,
		RawInput: rawInput,
		Status:   StatusAnalyzing,
	}
	l.Items = append(l.Items, it)
	s.scheduleSaveLocked()
	return it.ID, true
}

// settle applies one classification outcome against the current snapshot.
// It is the only transition out of analyzing and the only place merging
// happens. The whole decision is a single read-modify-write under the
// store lock, so concurrent settlements cannot race each other.
func (s *Store) settle(listID, itemID string, result classify.Classification, classifyErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.findListLocked(listID)
	if l == nil {
		return
	}
	idx := l.itemIndex(itemID)
	if idx == -1 {
		// Deleted while in flight; discard the result, no resurrection.
		return
	}
	it := l.Items[idx]

	if classifyErr != nil {
		if errors.Is(classifyErr, classify.ErrUnavailable) {
			// Feature gated: settle with the raw text, no structure.
			it.Status = StatusDone
			it.Text = it.RawInput
		} else {
			it.Status = StatusError
		}
		s.scheduleSaveLocked()
		return
	}

	name := strings.TrimSpace(result.Name)
	if name == "" {
		name = it.RawInput
	}
	key := identity.Normalize(name)

	if match := findMergeTarget(l, itemID, key); match != nil {
		if match.Quantity != nil && result.Quantity != nil {
			sum := *match.Quantity + *result.Quantity
			match.Quantity = &sum
			if match.Unit == "" {
				match.Unit = result.Unit
			}
			l.removeItemAt(idx)
			s.scheduleSaveLocked()
			return
		}
		// Either side lacks a numeric quantity: summing incompatible
		// amounts would silently corrupt the list, so keep both lines.
	}

	it.Status = StatusDone
	it.Text = name
	it.Category = strings.ToLower(strings.TrimSpace(result.Category))
	it.Quantity = result.Quantity
	it.Unit = result.Unit
	s.scheduleSaveLocked()
}

// findMergeTarget returns the first unchecked, settled item (other than
// the one settling) whose normalized text equals the new key.
func findMergeTarget(l *List, settlingID, key string) *Item {
	for _, other := range l.Items {
		if other.ID == settlingID || other.Checked || other.Status != StatusDone {
			continue
		}
		if identity.Normalize(other.Text) == key {
			return other
		}
	}
	return nil
}
