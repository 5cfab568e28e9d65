// Package concurrency provides keyed synchronization primitives.
package concurrency

import (
	"context"
	"sync"
)

// KeyedSemaphore holds one counting semaphore per key, created on first use.
// Every key allows at most size concurrent holders.
type KeyedSemaphore struct {
	size int
	sems sync.Map
}

// NewKeyedSemaphore creates a KeyedSemaphore. Sizes below 1 are raised to 1.
func NewKeyedSemaphore(size int) *KeyedSemaphore {
	if size < 1 {
		size = 1
	}
	return &KeyedSemaphore{size: size}
}

// Size returns the per-key capacity
func (k *KeyedSemaphore) Size() int { return k.size }

func (k *KeyedSemaphore) get(key string) chan struct{} {
	if s, ok := k.sems.Load(key); ok {
		return s.(chan struct{})
	}
	s, _ := k.sems.LoadOrStore(key, make(chan struct{}, k.size))
	return s.(chan struct{})
}

// TryAcquire takes a slot for key without waiting
func (k *KeyedSemaphore) TryAcquire(key string) bool {
	select {
	case k.get(key) <- struct{}{}:
		return true
	default:
		return false
	}
}

// Acquire waits for a slot for key or for ctx to end
func (k *KeyedSemaphore) Acquire(ctx context.Context, key string) error {
	select {
	case k.get(key) <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot taken for key. Releasing more than was acquired is a no-op.
func (k *KeyedSemaphore) Release(key string) {
	select {
	case <-k.get(key):
	default:
	}
}

// InUse reports how many slots of key are held
func (k *KeyedSemaphore) InUse(key string) int {
	return len(k.get(key))
}
