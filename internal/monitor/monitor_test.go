package monitor

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestMonitor_FiresOnChange(t *testing.T) {
	dir := t.TempDir()
	var fired atomic.Int32

	m, err := New([]string{dir}, 10*time.Millisecond, func() { fired.Add(1) })
	if err != nil {
		t.Fatalf("new monitor: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = m.Run(ctx)
	}()

	if err := os.WriteFile(filepath.Join(dir, "catalog.xml"), []byte("<components/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for fired.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-done

	if fired.Load() == 0 {
		t.Error("file creation did not trigger the callback")
	}
}

func TestMonitor_FiresOnNestedChange(t *testing.T) {
	// Catalogs often live in subdirectories of the configured source
	// path; the watch must cover the whole tree, like the pool scan does.
	dir := t.TempDir()
	nested := filepath.Join(dir, "xml", "main")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	var fired atomic.Int32
	m, err := New([]string{dir}, 10*time.Millisecond, func() { fired.Add(1) })
	if err != nil {
		t.Fatalf("new monitor: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = m.Run(ctx)
	}()

	if err := os.WriteFile(filepath.Join(nested, "catalog.yml"), []byte("---\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for fired.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-done

	if fired.Load() == 0 {
		t.Error("change inside a nested subdirectory did not trigger the callback")
	}
}

func TestMonitor_CoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	var fired atomic.Int32

	m, err := New([]string{dir}, time.Hour, func() { fired.Add(1) })
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = m.Run(ctx)
	}()

	for i := 0; i < 5; i++ {
		name := filepath.Join(dir, "file"+string(rune('a'+i))+".xml")
		if err := os.WriteFile(name, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for fired.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	// Let any spurious extra callbacks surface.
	time.Sleep(100 * time.Millisecond)
	cancel()
	<-done

	if got := fired.Load(); got != 1 {
		t.Errorf("burst of writes must collapse into one callback, got %d", got)
	}
}

func TestMonitor_NoExistingPaths(t *testing.T) {
	if _, err := New([]string{"/does/not/exist"}, time.Second, func() {}); err == nil {
		t.Error("monitor over nonexistent paths must fail")
	}
}
