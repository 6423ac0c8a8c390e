package domain

import "time"

// AuditEntry records a mutation performed by a user.
type AuditEntry struct {
	UserID  int64
	Action  string
	Kind    EstimateKind
	Ticker  string
	Periods Periods
	At      time.Time
}
