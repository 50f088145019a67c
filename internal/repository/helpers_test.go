package repository_test

import (
	"context"
	"errors"

	"naulify_agent/internal/store"
)

var errBackend = errors.New("backend unavailable")

// brokenCollection fails every call, like an unreachable document store.
type brokenCollection[T store.Document] struct{}

func (brokenCollection[T]) Name() string  { return "broken" }
func (brokenCollection[T]) NewID() string { return "id" }

func (brokenCollection[T]) Get(context.Context, string) (T, error) {
	var zero T
	return zero, errBackend
}

func (brokenCollection[T]) Set(context.Context, T) error { return errBackend }

func (brokenCollection[T]) Delete(context.Context, string) error { return errBackend }

func (brokenCollection[T]) Find(context.Context, store.Query) ([]T, error) { return nil, errBackend }
