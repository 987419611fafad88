package quota

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"voxresumo/internal/domain"
	"voxresumo/internal/store"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func entry(projectID string, seconds float64, at time.Time) domain.UsageEntry {
	return domain.UsageEntry{
		ProjectID:       projectID,
		TaskType:        domain.TaskTypeMeeting,
		DurationSeconds: seconds,
		Timestamp:       at,
	}
}

func TestConsumedSecondsTodayEmpty(t *testing.T) {
	ledger := NewLedger(store.NewMemory(), fixedClock(time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)))
	got, err := ledger.ConsumedSecondsToday(context.Background(), "user-a")
	if err != nil {
		t.Fatalf("ConsumedSecondsToday() error: %v", err)
	}
	if got != 0 {
		t.Fatalf("ConsumedSecondsToday() = %v, want 0", got)
	}
}

func TestRecordIsAdditive(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)
	ledger := NewLedger(store.NewMemory(), fixedClock(now))
	ctx := context.Background()

	if err := ledger.Record(ctx, "user-a", entry("p1", 120, now)); err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if err := ledger.Record(ctx, "user-a", entry("p2", 100.5, now)); err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	got, err := ledger.ConsumedSecondsToday(ctx, "user-a")
	if err != nil {
		t.Fatalf("ConsumedSecondsToday() error: %v", err)
	}
	if got != 220.5 {
		t.Fatalf("ConsumedSecondsToday() = %v, want 220.5", got)
	}
}

func TestUsersDoNotShareLedgers(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)
	ledger := NewLedger(store.NewMemory(), fixedClock(now))
	ctx := context.Background()

	if err := ledger.Record(ctx, "user-a", entry("p1", 300, now)); err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	got, err := ledger.ConsumedSecondsToday(ctx, "user-b")
	if err != nil {
		t.Fatalf("ConsumedSecondsToday() error: %v", err)
	}
	if got != 0 {
		t.Fatalf("user-b consumed %v, want 0", got)
	}
}

func TestYesterdayDoesNotCountToday(t *testing.T) {
	mem := store.NewMemory()
	today := time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)
	yesterday := today.AddDate(0, 0, -1)

	// Seed an entry under yesterday's key directly.
	raw, _ := json.Marshal([]domain.UsageEntry{entry("old", 400, yesterday)})
	if err := mem.Set(context.Background(), store.DailyUsageKey("user-a", yesterday.Format("2006-01-02")), string(raw)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	ledger := NewLedger(mem, fixedClock(today))
	got, err := ledger.ConsumedSecondsToday(context.Background(), "user-a")
	if err != nil {
		t.Fatalf("ConsumedSecondsToday() error: %v", err)
	}
	if got != 0 {
		t.Fatalf("ConsumedSecondsToday() = %v, want 0 after day rollover", got)
	}
}

func TestRecordKeysByRecordingInstant(t *testing.T) {
	mem := store.NewMemory()
	clock := time.Date(2026, 3, 14, 23, 59, 0, 0, time.Local)
	ledger := NewLedger(mem, func() time.Time { return clock })
	ctx := context.Background()

	if err := ledger.Record(ctx, "user-a", entry("p1", 60, clock)); err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	// Midnight passes between submission start and recording; the entry is
	// charged to the new day.
	clock = clock.Add(2 * time.Minute)
	if err := ledger.Record(ctx, "user-a", entry("p2", 90, clock)); err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	got, err := ledger.ConsumedSecondsToday(ctx, "user-a")
	if err != nil {
		t.Fatalf("ConsumedSecondsToday() error: %v", err)
	}
	if got != 90 {
		t.Fatalf("ConsumedSecondsToday() = %v, want only the post-midnight 90", got)
	}
}

type failingStore struct {
	store.Store
	getErr error
	setErr error
}

func (f failingStore) Get(ctx context.Context, key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	return f.Store.Get(ctx, key)
}

func (f failingStore) Set(ctx context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Store.Set(ctx, key, value)
}

func TestStorageFailuresSurfaceAsPersistenceErrors(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)
	boom := errors.New("disk full")

	ledger := NewLedger(failingStore{Store: store.NewMemory(), getErr: boom}, fixedClock(now))
	if _, err := ledger.ConsumedSecondsToday(context.Background(), "user-a"); !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("ConsumedSecondsToday() error = %v, want ErrPersistence", err)
	}

	ledger = NewLedger(failingStore{Store: store.NewMemory(), setErr: boom}, fixedClock(now))
	if err := ledger.Record(context.Background(), "user-a", entry("p1", 10, now)); !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("Record() error = %v, want ErrPersistence", err)
	}
}
