package store

import (
	"context"
	"path/filepath"
	"testing"
)

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, ok, err := m.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok=%v err=%v, want absent", ok, err)
	}
	if err := m.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := m.Set(ctx, "k", "v2"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	v, ok, err := m.Get(ctx, "k")
	if err != nil || !ok || v != "v2" {
		t.Fatalf("Get(k) = (%q, %v, %v), want v2", v, ok, err)
	}
	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Fatal("Get(k) found value after Delete")
	}
	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() of missing key error: %v", err)
	}
}

func TestFilePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	ctx := context.Background()

	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile() error: %v", err)
	}
	if err := f.Set(ctx, "user_plan_u1", "pro"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := f.Set(ctx, "projects_u1", "[]"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := f.Delete(ctx, "projects_u1"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	reopened, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile() reopen error: %v", err)
	}
	v, ok, err := reopened.Get(ctx, "user_plan_u1")
	if err != nil || !ok || v != "pro" {
		t.Fatalf("Get() after reopen = (%q, %v, %v), want pro", v, ok, err)
	}
	if _, ok, _ := reopened.Get(ctx, "projects_u1"); ok {
		t.Fatal("deleted key survived reopen")
	}
}

func TestFileRequiresPath(t *testing.T) {
	if _, err := NewFile("  "); err == nil {
		t.Fatal("NewFile(blank) succeeded, want error")
	}
}

func TestFileRejectsCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile() error: %v", err)
	}
	if err := f.Set(context.Background(), "k", "v"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	// Overwrite with junk and reopen.
	if err := writeRaw(path, "{not json"); err != nil {
		t.Fatalf("corrupt write: %v", err)
	}
	if _, err := NewFile(path); err == nil {
		t.Fatal("NewFile(corrupt) succeeded, want decode error")
	}
}

func TestKeyShapes(t *testing.T) {
	if got := DailyUsageKey("u1", "2026-03-14"); got != "daily_usage_u1_2026-03-14" {
		t.Fatalf("DailyUsageKey = %q", got)
	}
	if got := UserPlanKey("u1"); got != "user_plan_u1" {
		t.Fatalf("UserPlanKey = %q", got)
	}
	if got := ProjectsKey("u1"); got != "projects_u1" {
		t.Fatalf("ProjectsKey = %q", got)
	}
	if got := UserIDKey("u1"); got != "user_id_u1" {
		t.Fatalf("UserIDKey = %q", got)
	}
}
