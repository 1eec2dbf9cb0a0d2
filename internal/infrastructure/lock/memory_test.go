package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fridgebot/backend/internal/domain"
)

func TestMemory_SerializesSameUser(t *testing.T) {
	locker := NewMemory(0)
	ctx := context.Background()

	var (
		mu      sync.Mutex
		active  int
		overlap bool
		wg      sync.WaitGroup
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(ctx, 42)
			if err != nil {
				t.Errorf("Lock() error = %v", err)
				return
			}
			defer unlock()

			mu.Lock()
			active++
			if active > 1 {
				overlap = true
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if overlap {
		t.Error("two holders of the same user lock ran concurrently")
	}
	if locker.Size() != 0 {
		t.Errorf("Size() = %d after all unlocks, want 0", locker.Size())
	}
}

func TestMemory_DifferentUsersDoNotBlock(t *testing.T) {
	locker := NewMemory(50 * time.Millisecond)
	ctx := context.Background()

	unlock1, err := locker.Lock(ctx, 1)
	if err != nil {
		t.Fatalf("Lock(1) error = %v", err)
	}
	defer unlock1()

	unlock2, err := locker.Lock(ctx, 2)
	if err != nil {
		t.Fatalf("Lock(2) error = %v while user 1 is held", err)
	}
	unlock2()

	if locker.Size() != 1 {
		t.Errorf("Size() = %d, want 1", locker.Size())
	}
}

func TestMemory_WaitTimeout(t *testing.T) {
	locker := NewMemory(20 * time.Millisecond)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, 7)
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}

	start := time.Now()
	_, err = locker.Lock(ctx, 7)
	if !errors.Is(err, domain.ErrLockTimeout) {
		t.Errorf("second Lock() error = %v, want ErrLockTimeout", err)
	}
	if elapsed := time.Since(start); elapsed < 15*time.Millisecond {
		t.Errorf("second Lock() returned after %v, want to wait about 20ms", elapsed)
	}

	unlock()
	unlock() // second call is a no-op

	unlock, err = locker.Lock(ctx, 7)
	if err != nil {
		t.Fatalf("Lock() after release error = %v", err)
	}
	unlock()

	if locker.Size() != 0 {
		t.Errorf("Size() = %d, want 0", locker.Size())
	}
}

func TestMemory_ContextCancel(t *testing.T) {
	locker := NewMemory(0)

	unlock, err := locker.Lock(context.Background(), 3)
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := locker.Lock(ctx, 3); !errors.Is(err, domain.ErrLockTimeout) {
		t.Errorf("Lock() with cancelled context error = %v, want ErrLockTimeout", err)
	}
}
