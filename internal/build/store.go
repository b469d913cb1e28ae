// Package build holds the current part selection, one part per category,
// and publishes a change event whenever the selection changes.
//
// A Store is not safe for concurrent use; it is driven from the single UI
// event loop.
package build

import (
	"sort"

	"github.com/mesh-intelligence/configurator/pkg/types"
)

// EventKind identifies what changed in a Store.
type EventKind int

// Store event kinds.
const (
	EventSelected EventKind = iota
	EventOverridden
	EventCleared
)

func (k EventKind) String() string {
	switch k {
	case EventSelected:
		return "selected"
	case EventOverridden:
		return "overridden"
	case EventCleared:
		return "cleared"
	}
	return "unknown"
}

// Entry is one category slot of the build.
type Entry struct {
	Category types.Category
	Part     types.PartDefinition
}

// Event describes a change to a single category. Previous is nil when the
// category had no selection; Current is nil after a clear.
type Event struct {
	Kind     EventKind
	Category types.Category
	Previous *types.PartDefinition
	Current  *types.PartDefinition
}

// Store owns the build entries.
type Store struct {
	entries     map[types.Category]types.PartDefinition
	subscribers map[int]func(Event)
	nextSub     int
}

// NewStore returns an empty build.
func NewStore() *Store {
	return &Store{
		entries:     make(map[types.Category]types.PartDefinition),
		subscribers: make(map[int]func(Event)),
	}
}

// Subscribe registers fn to be called after every change. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	return func() { delete(s.subscribers, id) }
}

// Select puts part into category c. Selecting the part the category already
// holds (same ID) changes nothing and publishes nothing, so a committed
// override survives the reselect. Selecting a different part discards the
// previous part's override; the new part's own override fields apply.
func (s *Store) Select(c types.Category, part types.PartDefinition) {
	prev, had := s.entries[c]
	if had && prev.ID == part.ID {
		return
	}
	s.entries[c] = part

	ev := Event{Kind: EventSelected, Category: c, Current: &part}
	if had {
		ev.Previous = &prev
	}
	s.publish(ev)
}

// Override commits delta into the part held by category c. It is ignored
// when c has no selection.
func (s *Store) Override(c types.Category, delta types.TransformDelta) {
	prev, ok := s.entries[c]
	if !ok {
		return
	}
	next := prev.WithOverride(delta)
	s.entries[c] = next
	s.publish(Event{Kind: EventOverridden, Category: c, Previous: &prev, Current: &next})
}

// Clear removes the selection of category c, if any.
func (s *Store) Clear(c types.Category) {
	prev, ok := s.entries[c]
	if !ok {
		return
	}
	delete(s.entries, c)
	s.publish(Event{Kind: EventCleared, Category: c, Previous: &prev})
}

// Get returns the part selected for category c.
func (s *Store) Get(c types.Category) (types.PartDefinition, bool) {
	p, ok := s.entries[c]
	return p, ok
}

// Has reports whether category c has a selection.
func (s *Store) Has(c types.Category) bool {
	_, ok := s.entries[c]
	return ok
}

// Len returns the number of selected categories.
func (s *Store) Len() int { return len(s.entries) }

// Entries returns the build sorted by category. The order carries no
// meaning; it only keeps output stable.
func (s *Store) Entries() []Entry {
	out := make([]Entry, 0, len(s.entries))
	for c, p := range s.entries {
		out = append(out, Entry{Category: c, Part: p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

func (s *Store) publish(ev Event) {
	ids := make([]int, 0, len(s.subscribers))
	for id := range s.subscribers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := s.subscribers[id]; ok {
			fn(ev)
		}
	}
}
