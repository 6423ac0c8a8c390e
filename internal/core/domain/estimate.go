package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// EstimateKind selects one of the three estimate families a user can override.
type EstimateKind string

const (
	KindEarnings EstimateKind = "earnings"
	KindRevenue  EstimateKind = "revenue"
	KindGrowth   EstimateKind = "growth"
)

// Period labels. Earnings and revenue use the first four, growth uses all six.
const (
	PeriodCurrentQtr  = "currentQtr"
	PeriodNextQtr     = "nextQtr"
	PeriodCurrentYear = "currentYear"
	PeriodNextYear    = "nextYear"
	PeriodNext5Years  = "next5Years"
	PeriodPast5Years  = "past5Years"
)

var ErrEstimateNotFound = errors.New("estimate not found")
var ErrInvalidPeriods = errors.New("invalid periods")

var quarterlyPeriods = []string{PeriodCurrentQtr, PeriodNextQtr, PeriodCurrentYear, PeriodNextYear}

var periodKeys = map[EstimateKind][]string{
	KindEarnings: quarterlyPeriods,
	KindRevenue:  quarterlyPeriods,
	KindGrowth:   append(append([]string{}, quarterlyPeriods...), PeriodNext5Years, PeriodPast5Years),
}

// EstimateKinds lists every supported kind in route order.
func EstimateKinds() []EstimateKind {
	return []EstimateKind{KindEarnings, KindRevenue, KindGrowth}
}

// Valid reports whether k is one of the supported kinds.
func (k EstimateKind) Valid() bool {
	_, ok := periodKeys[k]
	return ok
}

// PeriodKeys returns the closed set of period labels allowed for k.
func (k EstimateKind) PeriodKeys() []string {
	keys := periodKeys[k]
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// AuditAction is the action name recorded when an estimate of this kind is saved.
func (k EstimateKind) AuditAction() string {
	return "SAVE_" + strings.ToUpper(string(k)) + "_ESTIMATE"
}

// Periods maps a period label to the user's numeric estimate.
type Periods map[string]float64

// Clone returns an independent copy of p.
func (p Periods) Clone() Periods {
	if p == nil {
		return nil
	}
	out := make(Periods, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// EstimateRecord is a user's saved override for one (kind, ticker) pair.
// At most one record exists per (kind, ticker, userId).
type EstimateRecord struct {
	Kind      EstimateKind `json:"-"`
	Ticker    string       `json:"ticker"`
	UserID    int64        `json:"userId"`
	Periods   Periods      `json:"periods"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Clone returns a deep copy so callers can never alias stored periods.
func (r *EstimateRecord) Clone() *EstimateRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.Periods = r.Periods.Clone()
	return &c
}

// EstimateNotFoundError reports that the user has saved nothing for the kind
// and ticker requested.
type EstimateNotFoundError struct {
	Kind EstimateKind
}

func (e *EstimateNotFoundError) Error() string {
	return fmt.Sprintf("no %s estimate found for this ticker", e.Kind)
}

func (e *EstimateNotFoundError) Is(target error) bool {
	return target == ErrEstimateNotFound
}

// InvalidPeriodsError lists the period labels that were missing or not allowed
// for the estimate kind.
type InvalidPeriodsError struct {
	Kind    EstimateKind
	Missing []string
	Extra   []string
}

func (e *InvalidPeriodsError) Error() string {
	parts := make([]string, 0, 2)
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, "unexpected "+strings.Join(e.Extra, ", "))
	}
	return fmt.Sprintf("invalid periods for %s estimate: %s", e.Kind, strings.Join(parts, "; "))
}

func (e *InvalidPeriodsError) Unwrap() error {
	return ErrInvalidPeriods
}

// ValidatePeriods checks that the keys of periods are exactly the allowed set
// for kind. Missing and extra keys are reported in sorted order.
func ValidatePeriods(kind EstimateKind, periods Periods) error {
	allowed, ok := periodKeys[kind]
	if !ok {
		return fmt.Errorf("unknown estimate kind %q: %w", kind, ErrInvalidPeriods)
	}

	var missing, extra []string
	for _, key := range allowed {
		if _, ok := periods[key]; !ok {
			missing = append(missing, key)
		}
	}
	for key := range periods {
		if !containsKey(allowed, key) {
			extra = append(extra, key)
		}
	}
	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}

	sort.Strings(missing)
	sort.Strings(extra)
	return &InvalidPeriodsError{Kind: kind, Missing: missing, Extra: extra}
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
