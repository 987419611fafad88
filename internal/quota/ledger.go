package quota

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"voxresumo/internal/domain"
	"voxresumo/internal/store"
)

// Ledger tracks consumed media seconds per user per local calendar day.
// Entries are appended under a day key computed at call time; nothing is
// ever re-keyed, rewritten or garbage collected.
//
// Record performs a read-modify-write on the day key. Within one process
// the store serializes the individual operations but there is no lock
// spanning read and write, so two concurrent processes sharing a backend
// can both pass admission on a stale sum and overshoot the daily cap. The
// original client has the same race between browser tabs; it is accepted
// here rather than fixed.
type Ledger struct {
	store store.Store
	now   func() time.Time
}

// NewLedger builds a ledger over the given store. now may be nil, in which
// case time.Now is used; tests inject a fixed clock to cross day
// boundaries deterministically.
func NewLedger(s store.Store, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{store: s, now: now}
}

// dayKey formats the current local date the way the ledger buckets it.
func (l *Ledger) dayKey() string {
	return l.now().Format("2006-01-02")
}

// ConsumedSecondsToday sums the durations recorded for userID under
// today's key. A missing key reads as zero consumption.
func (l *Ledger) ConsumedSecondsToday(ctx context.Context, userID string) (float64, error) {
	entries, err := l.entriesForDay(ctx, userID, l.dayKey())
	if err != nil {
		return 0, err
	}
	var total float64
	for _, e := range entries {
		total += e.DurationSeconds
	}
	return total, nil
}

// Record appends entry under (userID, today). The day is taken from the
// clock at the moment of recording: a submission that started before
// midnight and finishes after is charged to the new day.
func (l *Ledger) Record(ctx context.Context, userID string, entry domain.UsageEntry) error {
	day := l.dayKey()
	entries, err := l.entriesForDay(ctx, userID, day)
	if err != nil {
		return err
	}
	entries = append(entries, entry)
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("quota: encode ledger: %w", err)
	}
	if err := l.store.Set(ctx, store.DailyUsageKey(userID, day), string(raw)); err != nil {
		return fmt.Errorf("quota: %w: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (l *Ledger) entriesForDay(ctx context.Context, userID, day string) ([]domain.UsageEntry, error) {
	raw, ok, err := l.store.Get(ctx, store.DailyUsageKey(userID, day))
	if err != nil {
		return nil, fmt.Errorf("quota: %w: %v", domain.ErrPersistence, err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var entries []domain.UsageEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("quota: decode ledger: %w", err)
	}
	return entries, nil
}
