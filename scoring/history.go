package scoring

import "errors"

// DefaultHistoryLimit bounds how many undo steps are kept per match.
const DefaultHistoryLimit = 64

var ErrHistoryEmpty = errors.New("no snapshots recorded")

// History is a bounded LIFO stack of state snapshots. When the limit is
// reached the oldest snapshot is evicted, so undo always reverts the most
// recent transitions first.
type History struct {
	limit     int
	snapshots []State
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Push records a snapshot. The state is cloned, so later mutations of the
// caller's copy cannot corrupt the history.
func (h *History) Push(s State) {
	if len(h.snapshots) >= h.limit {
		copy(h.snapshots, h.snapshots[1:])
		h.snapshots = h.snapshots[:len(h.snapshots)-1]
	}
	h.snapshots = append(h.snapshots, s.Clone())
}

// Pop removes and returns the most recent snapshot.
func (h *History) Pop() (State, error) {
	if len(h.snapshots) == 0 {
		return State{}, ErrHistoryEmpty
	}
	last := h.snapshots[len(h.snapshots)-1]
	h.snapshots = h.snapshots[:len(h.snapshots)-1]
	return last, nil
}

func (h *History) Len() int {
	return len(h.snapshots)
}

func (h *History) Clear() {
	h.snapshots = h.snapshots[:0]
}
