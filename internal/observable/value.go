// Package observable holds state that the UI layer reads and watches.
package observable

import (
	"context"
	"sync"
)

// Value is a conflated, always-initialized observable. Subscribers receive the
// current value on subscription and then the latest value after each Set; a slow
// subscriber skips intermediate values instead of blocking writers.
type Value[T any] struct {
	mu      sync.RWMutex
	current T
	subs    map[chan T]struct{}
}

func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{current: initial, subs: make(map[chan T]struct{})}
}

func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}

func (v *Value[T]) Set(x T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = x
	for ch := range v.subs {
		offer(ch, x)
	}
}

// Subscribe streams values until ctx is done, then closes the channel.
func (v *Value[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	v.mu.Lock()
	ch <- v.current
	v.subs[ch] = struct{}{}
	v.mu.Unlock()

	go func() {
		<-ctx.Done()
		v.mu.Lock()
		delete(v.subs, ch)
		close(ch)
		v.mu.Unlock()
	}()
	return ch
}

// Subscribers reports how many subscriptions are live.
func (v *Value[T]) Subscribers() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.subs)
}

// offer replaces any pending value in ch with x. Callers hold the write lock,
// so ch has room after the drain.
func offer[T any](ch chan T, x T) {
	select {
	case ch <- x:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- x
}
