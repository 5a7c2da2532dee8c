package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestNewMissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent.csv"), 0)
	if err == nil {
		t.Fatal("New succeeded for a missing file")
	}
}

func TestRunFiresOncePerBurst(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	writeFile(t, path, "a,b\n1,2\n")

	w, err := New(path, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	fired := make(chan struct{}, 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() { fired <- struct{}{} })
	}()

	// A burst of writes should collapse into one callback.
	for i := 0; i < 3; i++ {
		writeFile(t, path, "a,b\n1,2\n3,4\n")
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("callback never fired after writes")
	}
	select {
	case <-fired:
		t.Error("burst of writes fired more than once")
	case <-time.After(200 * time.Millisecond):
	}

	// A later write fires again.
	writeFile(t, path, "a,b\n5,6\n")
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("callback never fired after second change")
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	writeFile(t, path, "a,b\n1,2\n")

	w, err := New(path, 30*time.Millisecond)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	fired := make(chan struct{}, 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx, func() { fired <- struct{}{} })

	writeFile(t, filepath.Join(dir, "other.csv"), "x\n")

	select {
	case <-fired:
		t.Error("callback fired for a sibling file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestCloseStopsRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	writeFile(t, path, "a,b\n")

	w, err := New(path, 30*time.Millisecond)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- w.Run(context.Background(), func() {})
	}()

	w.Close()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v after Close, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Close")
	}
}
