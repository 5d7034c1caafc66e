package usecase

import (
	"context"
	"fmt"
	"sync"
)

// ConversationLocker provides operation-level mutual exclusion per
// conversation key. It prevents two concurrent Chat calls for the same
// (agent, user) pair from interleaving their history, while leaving
// unrelated conversations free to run in parallel.
type ConversationLocker struct {
	mu    sync.Mutex
	locks map[string]*keyMutex
}

type keyMutex struct {
	mu       sync.Mutex
	refCount int
}

// NewConversationLocker creates a new locker.
func NewConversationLocker() *ConversationLocker {
	return &ConversationLocker{
		locks: make(map[string]*keyMutex),
	}
}

// Lock acquires the lock for the given conversation key. It blocks until the
// lock is acquired or the context is cancelled. Returns an unlock function
// that MUST be called when the operation is complete.
func (cl *ConversationLocker) Lock(ctx context.Context, key string) (unlock func(), err error) {
	cl.mu.Lock()
	km, ok := cl.locks[key]
	if !ok {
		km = &keyMutex{}
		cl.locks[key] = km
	}
	km.refCount++
	cl.mu.Unlock()

	// Acquire the key mutex with context cancellation support.
	acquired := make(chan struct{})
	go func() {
		km.mu.Lock()
		close(acquired)
	}()

	release := func() {
		km.mu.Unlock()
		cl.mu.Lock()
		km.refCount--
		if km.refCount == 0 {
			delete(cl.locks, key)
		}
		cl.mu.Unlock()
	}

	select {
	case <-acquired:
		return release, nil

	case <-ctx.Done():
		// Context cancelled before the lock was acquired. The acquiring
		// goroutine will eventually succeed; release immediately so the
		// lock is not held forever.
		go func() {
			<-acquired
			release()
		}()
		return nil, fmt.Errorf("conversation lock: %w", ctx.Err())
	}
}

// ActiveCount returns the number of keys with active or pending locks.
// Intended for testing.
func (cl *ConversationLocker) ActiveCount() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return len(cl.locks)
}
