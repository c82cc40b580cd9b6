package domain

// HistoryCapacity is the number of recently played items kept.
const HistoryCapacity = 10

// History is a bounded, most-recent-first list of played items with unique keys.
// The zero value is not usable; create one with NewHistory.
type History struct {
	items    []Item
	capacity int
}

// NewHistory creates an empty history holding at most capacity items.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = HistoryCapacity
	}
	return &History{
		items:    make([]Item, 0, capacity),
		capacity: capacity,
	}
}

// Push moves item to the front, dropping any older entry with the same key
// and the oldest entry when over capacity.
func (h *History) Push(item Item) {
	kept := make([]Item, 0, h.capacity)
	kept = append(kept, item)
	for _, existing := range h.items {
		if existing.Key == item.Key {
			continue
		}
		if len(kept) == h.capacity {
			break
		}
		kept = append(kept, existing)
	}
	h.items = kept
}

// Items returns a copy of the history, most recent first.
func (h *History) Items() []Item {
	out := make([]Item, len(h.items))
	copy(out, h.items)
	return out
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.items)
}

// Clear removes all entries.
func (h *History) Clear() {
	h.items = h.items[:0]
}
