package memory

import (
	"context"
	"sync"

	"github.com/finscope/estimates-api/internal/core/domain"
	"github.com/finscope/estimates-api/internal/core/ports"
)

// AuditLog keeps audit entries in insertion order.
type AuditLog struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

var _ ports.AuditLog = (*AuditLog)(nil)

func NewAuditLog() *AuditLog {
	return &AuditLog{}
}

func (l *AuditLog) Record(_ context.Context, entry domain.AuditEntry) error {
	entry.Periods = entry.Periods.Clone()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
	return nil
}

// Entries returns a snapshot of everything recorded so far.
func (l *AuditLog) Entries() []domain.AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.AuditEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
