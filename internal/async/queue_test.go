package async

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestImportQueue_RunsTasksInOrder(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	q := NewImportQueue(func(_ context.Context, task Task) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, task.Path)
		if task.Path == "b.txt" {
			return errors.New("boom")
		}
		return nil
	}, nil, WithQueueSize(1))

	ctx := context.Background()
	for _, p := range []string{"a.txt", "b.txt", "c.txt"} {
		if err := q.Enqueue(ctx, Task{Path: p}); err != nil {
			t.Fatalf("Enqueue(%s): %v", p, err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	q.Shutdown(shutdownCtx)

	mu.Lock()
	defer mu.Unlock()
	want := []string{"a.txt", "b.txt", "c.txt"}
	if len(seen) != len(want) {
		t.Fatalf("handled %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("task %d = %s, want %s", i, seen[i], want[i])
		}
	}

	// Enqueue after shutdown is a no-op.
	if err := q.Enqueue(ctx, Task{Path: "late.txt"}); err != nil {
		t.Errorf("Enqueue after shutdown: %v", err)
	}
	q.Shutdown(shutdownCtx)
}
