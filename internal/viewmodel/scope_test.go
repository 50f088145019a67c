package viewmodel

import (
	"context"
	"testing"
)

func TestLoadSequencer_OnlyNewestCommits(t *testing.T) {
	var seq loadSequencer
	first := seq.begin(context.Background())
	second := seq.begin(context.Background())

	if first.ctx.Err() == nil {
		t.Fatal("a newer load should cancel the one in flight")
	}
	if seq.commit(first, func() { t.Fatal("stale load published") }) {
		t.Fatal("stale commit reported success")
	}
	published := false
	if !seq.commit(second, func() { published = true }) || !published {
		t.Fatal("newest load should publish")
	}
}

func TestScope_RunAfterClose(t *testing.T) {
	s := newScope(context.Background())
	ran := false
	if !s.run(context.Background(), func(context.Context) { ran = true }) || !ran {
		t.Fatal("open scope should run")
	}
	s.close()
	s.close()
	if s.run(context.Background(), func(context.Context) { t.Fatal("ran after close") }) {
		t.Fatal("closed scope reported run")
	}
}

func TestScope_CloseCancelsRunningCommand(t *testing.T) {
	s := newScope(context.Background())
	started := make(chan struct{})
	finished := make(chan struct{})
	go s.run(context.Background(), func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		close(finished)
	})
	<-started
	s.close()
	select {
	case <-finished:
	default:
		t.Fatal("close returned before the command did")
	}
}

func TestViewRoute_EncodesEveryState(t *testing.T) {
	states := []RouteState{
		RouteInitial{}, RouteLoading{}, RouteDeleted{}, RouteCreated{}, RouteUpdated{},
		RoutesLoaded{}, FareCollectionsLoaded{}, RouteError{Message: "x"},
	}
	seen := map[string]bool{}
	for _, s := range states {
		seen[ViewRoute(s).Kind] = true
	}
	if len(seen) != len(states) {
		t.Fatalf("kinds collide: %v", seen)
	}
}
