package viewmodel

import (
	"context"
	"sync"
)

// scope ties commands to the owning view-model's lifetime. Close cancels
// every in-flight command and waits for it to return.
type scope struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func newScope(parent context.Context) *scope {
	ctx, cancel := context.WithCancel(parent)
	return &scope{ctx: ctx, cancel: cancel}
}

// run executes fn with a context cancelled by either the caller or the scope.
// It reports false without calling fn once the scope is closed.
func (s *scope) run(ctx context.Context, fn func(ctx context.Context)) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	fn(ctx)
	return true
}

func (s *scope) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *scope) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

// loadSequencer orders loads into one projection. A new load cancels the one
// in flight, and only the newest load may publish its result.
type loadSequencer struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

type loadTicket struct {
	ctx    context.Context
	id     uint64
	cancel context.CancelFunc
}

func (l *loadSequencer) begin(ctx context.Context) loadTicket {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
	l.seq++
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	return loadTicket{ctx: ctx, id: l.seq, cancel: cancel}
}

// commit runs publish only if t is still the newest load.
func (l *loadSequencer) commit(t loadTicket, publish func()) bool {
	defer t.cancel()
	l.mu.Lock()
	defer l.mu.Unlock()
	if t.id != l.seq || t.ctx.Err() != nil {
		return false
	}
	publish()
	l.cancel = nil
	return true
}
