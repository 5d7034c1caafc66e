package usecase

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestConversationLockerBasic(t *testing.T) {
	cl := NewConversationLocker()

	unlock, err := cl.Lock(context.Background(), "agent_alpha:user-1")
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}

	if cl.ActiveCount() != 1 {
		t.Errorf("ActiveCount = %d, want 1", cl.ActiveCount())
	}

	unlock()

	// After unlock, the key entry should be cleaned up.
	if cl.ActiveCount() != 0 {
		t.Errorf("ActiveCount after unlock = %d, want 0", cl.ActiveCount())
	}
}

func TestConversationLockerSerializesSameKey(t *testing.T) {
	cl := NewConversationLocker()

	unlock1, err := cl.Lock(context.Background(), "agent_alpha:user-1")
	if err != nil {
		t.Fatalf("Lock1: %v", err)
	}

	order := make(chan int, 2)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		unlock2, err := cl.Lock(context.Background(), "agent_alpha:user-1")
		if err != nil {
			t.Errorf("Lock2: %v", err)
			return
		}
		order <- 2
		unlock2()
	}()

	// Give the second goroutine time to block.
	time.Sleep(50 * time.Millisecond)

	order <- 1
	unlock1()

	wg.Wait()
	close(order)

	vals := make([]int, 0, 2)
	for v := range order {
		vals = append(vals, v)
	}
	if len(vals) != 2 || vals[0] != 1 || vals[1] != 2 {
		t.Errorf("order = %v, want [1, 2]", vals)
	}
}

func TestConversationLockerIndependentKeys(t *testing.T) {
	cl := NewConversationLocker()

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	for _, key := range []string{"agent_alpha:user-1", "agent_beta:user-1"} {
		wg.Add(1)
		go func(k string) {
			defer wg.Done()
			unlock, err := cl.Lock(context.Background(), k)
			if err != nil {
				errCh <- err
				return
			}
			time.Sleep(20 * time.Millisecond)
			unlock()
		}(key)
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Errorf("unexpected error: %v", err)
	}
	if cl.ActiveCount() != 0 {
		t.Errorf("ActiveCount = %d, want 0", cl.ActiveCount())
	}
}

func TestConversationLockerContextCancelled(t *testing.T) {
	cl := NewConversationLocker()

	unlock, err := cl.Lock(context.Background(), "agent_alpha:user-1")
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err = cl.Lock(ctx, "agent_alpha:user-1")
	if err == nil {
		t.Fatal("Lock should fail when context expires while waiting")
	}
}
