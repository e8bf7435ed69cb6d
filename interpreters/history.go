package interpreters

const DefaultHistoryLimit = 1_000_000

type historyEntry struct {
	codePointer int
	tapePointer int
	cell        byte
	outputLen   int
}

// history is a bounded stack. Pushing onto a full history silently evicts the oldest entry,
// so at most limit steps can be undone.
type history struct {
	entries []historyEntry
	head    int // index of the oldest entry once the ring is full
	size    int
	limit   int
}

func newHistory(limit int) *history {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &history{
		limit: limit,
	}
}

func (h *history) push(e historyEntry) {
	if len(h.entries) < h.limit {
		h.entries = append(h.entries, e)
		h.size++
		return
	}
	if h.size < h.limit {
		h.entries[(h.head+h.size)%h.limit] = e
		h.size++
		return
	}
	// full, overwrite the oldest
	h.entries[h.head] = e
	h.head = (h.head + 1) % h.limit
}

func (h *history) pop() (historyEntry, bool) {
	if h.size == 0 {
		return historyEntry{}, false
	}
	h.size--
	idx := (h.head + h.size) % len(h.entries)
	e := h.entries[idx]
	if len(h.entries) < h.limit {
		// still growing, keep slice and size in step
		h.entries = h.entries[:h.size]
	}
	return e, true
}

func (h *history) len() int {
	return h.size
}
