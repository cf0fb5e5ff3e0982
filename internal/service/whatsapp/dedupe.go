package whatsapp

import "sync"

const seenMessagesMax = 1024

// messageLog remembers the most recent inbound message IDs so a redelivered
// webhook does not run the same command twice.
type messageLog struct {
	mu    sync.Mutex
	ids   map[string]struct{}
	order []string
	max   int
}

func newMessageLog(size int) *messageLog {
	return &messageLog{ids: make(map[string]struct{}, size), max: size}
}

// claim records id and reports whether it was new. Empty IDs are always new.
func (l *messageLog) claim(id string) bool {
	if id == "" {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.ids[id]; ok {
		return false
	}
	if len(l.order) == l.max {
		delete(l.ids, l.order[0])
		l.order = l.order[1:]
	}
	l.ids[id] = struct{}{}
	l.order = append(l.order, id)
	return true
}
