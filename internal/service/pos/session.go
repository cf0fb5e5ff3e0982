package pos

import (
	"sync"
	"time"

	"github.com/mamadbah2/boutique/internal/domain/models"
)

type session struct {
	inv *models.Invoice
	rev uint64
}

// SessionManager holds the open invoice of every terminal. Each session
// carries a revision bumped by every Update.
type SessionManager struct {
	sessions map[string]*session
	mu       sync.Mutex
	newID    func() string
	now      func() time.Time
}

// NewSessionManager creates a new session manager.
func NewSessionManager(newID func() string, now func() time.Time) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*session),
		newID:    newID,
		now:      now,
	}
}

// Update runs fn against the terminal's open invoice, opening one if needed.
// fn must not block; the manager lock is held while it runs. A session
// opened by a failing fn is not kept.
func (sm *SessionManager) Update(terminal string, fn func(inv *models.Invoice) error) (models.Invoice, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	_, existed := sm.sessions[terminal]
	s := sm.openLocked(terminal)
	if err := fn(s.inv); err != nil {
		if !existed && len(s.inv.Items) == 0 {
			delete(sm.sessions, terminal)
		}
		return snapshot(s.inv), err
	}
	s.rev++
	return snapshot(s.inv), nil
}

// Snapshot returns a copy of the terminal's open invoice and its revision.
// A terminal without a session gets an empty invoice that is not stored.
func (sm *SessionManager) Snapshot(terminal string) (models.Invoice, uint64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	s, ok := sm.sessions[terminal]
	if !ok {
		return sm.blank(terminal), 0
	}
	return snapshot(s.inv), s.rev
}

// Reset replaces the terminal's invoice with an empty one.
func (sm *SessionManager) Reset(terminal string) models.Invoice {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, terminal)
	return snapshot(sm.openLocked(terminal).inv)
}

// Settle removes the saved invoice from the terminal. When the session is
// unchanged since the snapshot at rev it is dropped; otherwise the saved
// quantities are taken off its lines and whatever was added meanwhile stays
// open under a new invoice ID.
func (sm *SessionManager) Settle(terminal string, saved models.Invoice, rev uint64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	s, ok := sm.sessions[terminal]
	if !ok || s.inv.ID != saved.ID {
		return
	}
	if s.rev == rev {
		delete(sm.sessions, terminal)
		return
	}

	savedQty := make(map[string]int, len(saved.Items))
	for _, item := range saved.Items {
		savedQty[item.ID] = item.Quantity
	}

	remaining := make([]models.LineItem, 0, len(s.inv.Items))
	for _, item := range s.inv.Items {
		item.Quantity -= savedQty[item.ID]
		if item.Quantity <= 0 {
			continue
		}
		item.Recalculate()
		remaining = append(remaining, item)
	}
	if len(remaining) == 0 {
		delete(sm.sessions, terminal)
		return
	}

	fresh := sm.blank(terminal)
	fresh.ID = sm.newID()
	fresh.Items = remaining
	sm.sessions[terminal] = &session{inv: &fresh}
}

func (sm *SessionManager) openLocked(terminal string) *session {
	if s, ok := sm.sessions[terminal]; ok {
		return s
	}
	inv := sm.blank(terminal)
	inv.ID = sm.newID()
	s := &session{inv: &inv}
	sm.sessions[terminal] = s
	return s
}

func (sm *SessionManager) blank(terminal string) models.Invoice {
	return models.Invoice{
		Terminal: terminal,
		Status:   models.InvoiceStatusOpen,
		Items:    []models.LineItem{},
		OpenedAt: sm.now().UTC(),
	}
}

func snapshot(inv *models.Invoice) models.Invoice {
	out := *inv
	out.Items = append([]models.LineItem{}, inv.Items...)
	return out
}
