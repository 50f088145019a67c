package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Collection names used by the agent.
const (
	CollectionUsers           = "users"
	CollectionVehicles        = "vehicles"
	CollectionRoutes          = "routes"
	CollectionFareCollections = "fare_collections"
	CollectionAccounts        = "accounts"
)

var (
	ErrNotFound          = errors.New("document not found")
	ErrMissingID         = errors.New("document has no id")
	ErrDuplicate         = errors.New("document violates a unique constraint")
	ErrUnsupportedFilter = errors.New("unsupported filter operator")
)

// Document is anything stored under a stable string key.
type Document interface {
	DocumentID() string
}

// Op is a filter comparison. Field names are the documents' JSON keys, which
// double as column names in the SQL adapter.
type Op string

const (
	OpEq  Op = "=="
	OpGte Op = ">="
	OpLte Op = "<="
)

type Filter struct {
	Field string
	Op    Op
	Value any
}

// Query selects documents by AND-ed filters, ordered by a single field.
// Ties on OrderBy are broken by ascending document id.
type Query struct {
	Filters    []Filter
	OrderBy    string
	Descending bool
	Limit      int
}

func Where(field string, op Op, value any) Query {
	return Query{}.Where(field, op, value)
}

func (q Query) Where(field string, op Op, value any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Op: op, Value: value})
	return q
}

func (q Query) OrderByDesc(field string) Query {
	q.OrderBy, q.Descending = field, true
	return q
}

func (q Query) OrderByAsc(field string) Query {
	q.OrderBy, q.Descending = field, false
	return q
}

func (q Query) WithLimit(n int) Query {
	q.Limit = n
	return q
}

// Collection is a keyed set of documents with native filtering and ordering.
type Collection[T Document] interface {
	Name() string
	// NewID returns a fresh server-side document id.
	NewID() string
	// Get returns ErrNotFound when no document has the id.
	Get(ctx context.Context, id string) (T, error)
	// Set writes doc under its id, replacing any previous version.
	Set(ctx context.Context, doc T) error
	Delete(ctx context.Context, id string) error
	Find(ctx context.Context, q Query) ([]T, error)
}

// Backend is a source of collections: *Memory or *Gorm.
type Backend interface {
	backendName() string
}

// Open returns the collection called name on backend b.
func Open[T Document](b Backend, name string) Collection[T] {
	switch b := b.(type) {
	case *Memory:
		return MemoryCollection[T](b, name)
	case *Gorm:
		return GormCollection[T](b, name)
	default:
		panic("store: unknown backend " + b.backendName())
	}
}

func newID() string {
	return uuid.NewString()
}
