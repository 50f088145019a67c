package store

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-process document store that keeps JSON-decoded documents,
// matching the filtering semantics of a managed document database.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]memoryDoc
}

type memoryDoc struct {
	raw    []byte
	fields map[string]any
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string]map[string]memoryDoc)}
}

func (m *Memory) backendName() string { return "memory" }

type memoryCollection[T Document] struct {
	m    *Memory
	name string
}

// MemoryCollection returns the named collection of m.
func MemoryCollection[T Document](m *Memory, name string) Collection[T] {
	return &memoryCollection[T]{m: m, name: name}
}

func (c *memoryCollection[T]) Name() string { return c.name }

func (c *memoryCollection[T]) NewID() string { return newID() }

func (c *memoryCollection[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	c.m.mu.RLock()
	doc, ok := c.m.collections[c.name][id]
	c.m.mu.RUnlock()
	if !ok {
		return zero, ErrNotFound
	}
	return decode[T](doc)
}

func (c *memoryCollection[T]) Set(ctx context.Context, doc T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id := doc.DocumentID()
	if id == "" {
		return ErrMissingID
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	fields := make(map[string]any)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}

	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	docs, ok := c.m.collections[c.name]
	if !ok {
		docs = make(map[string]memoryDoc)
		c.m.collections[c.name] = docs
	}
	docs[id] = memoryDoc{raw: raw, fields: fields}
	return nil
}

func (c *memoryCollection[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	delete(c.m.collections[c.name], id)
	return nil
}

func (c *memoryCollection[T]) Find(ctx context.Context, q Query) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	filters := make([]Filter, len(q.Filters))
	for i, f := range q.Filters {
		if f.Op != OpEq && f.Op != OpGte && f.Op != OpLte {
			return nil, ErrUnsupportedFilter
		}
		v, err := normalize(f.Value)
		if err != nil {
			return nil, err
		}
		filters[i] = Filter{Field: f.Field, Op: f.Op, Value: v}
	}

	c.m.mu.RLock()
	type hit struct {
		id  string
		doc memoryDoc
	}
	var hits []hit
	for id, doc := range c.m.collections[c.name] {
		if !matches(doc.fields, filters) {
			continue
		}
		if q.OrderBy != "" {
			if _, ok := doc.fields[q.OrderBy]; !ok {
				continue
			}
		}
		hits = append(hits, hit{id: id, doc: doc})
	}
	c.m.mu.RUnlock()

	sort.Slice(hits, func(i, j int) bool {
		if q.OrderBy != "" {
			cmp, ok := compare(hits[i].doc.fields[q.OrderBy], hits[j].doc.fields[q.OrderBy])
			if ok && cmp != 0 {
				if q.Descending {
					return cmp > 0
				}
				return cmp < 0
			}
		}
		return hits[i].id < hits[j].id
	})
	if q.Limit > 0 && len(hits) > q.Limit {
		hits = hits[:q.Limit]
	}

	out := make([]T, 0, len(hits))
	for _, h := range hits {
		doc, err := decode[T](h.doc)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func decode[T Document](doc memoryDoc) (T, error) {
	var out T
	err := json.Unmarshal(doc.raw, &out)
	return out, err
}

// normalize puts a filter value through the same JSON decoding as stored fields.
func normalize(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	err = json.Unmarshal(raw, &out)
	return out, err
}

func matches(fields map[string]any, filters []Filter) bool {
	for _, f := range filters {
		v, ok := fields[f.Field]
		if !ok {
			return false
		}
		cmp, ok := compare(v, f.Value)
		if !ok {
			return false
		}
		switch f.Op {
		case OpEq:
			if cmp != 0 {
				return false
			}
		case OpGte:
			if cmp < 0 {
				return false
			}
		case OpLte:
			if cmp > 0 {
				return false
			}
		}
	}
	return true
}

// compare orders two decoded JSON values of the same kind.
func compare(a, b any) (int, bool) {
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		if !ok {
			return 0, false
		}
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		}
		return 0, true
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		if av == bv {
			return 0, true
		}
		if !av {
			return -1, true
		}
		return 1, true
	}
	return 0, false
}
