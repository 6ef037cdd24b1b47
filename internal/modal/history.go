package modal

// History is the navigation history modals push entries onto.
type History interface {
	Push(entry string)
	Pop() (string, bool)
	Top() (string, bool)
	Len() int
}

// MemoryHistory is a History kept in memory for one visitor.
type MemoryHistory struct {
	entries []string
}

// NewMemoryHistory returns an empty history.
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{}
}

func (history *MemoryHistory) Push(entry string) {
	history.entries = append(history.entries, entry)
}

func (history *MemoryHistory) Pop() (string, bool) {
	if len(history.entries) == 0 {
		return "", false
	}
	last := history.entries[len(history.entries)-1]
	history.entries = history.entries[:len(history.entries)-1]
	return last, true
}

func (history *MemoryHistory) Top() (string, bool) {
	if len(history.entries) == 0 {
		return "", false
	}
	return history.entries[len(history.entries)-1], true
}

func (history *MemoryHistory) Len() int {
	return len(history.entries)
}
