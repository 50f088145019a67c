package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

// Gorm stores each collection as a table of the same name.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (g *Gorm) backendName() string { return "gorm" }

type gormCollection[T Document] struct {
	db   *gorm.DB
	name string
}

// GormCollection returns the table-backed collection called name.
func GormCollection[T Document](g *Gorm, name string) Collection[T] {
	return &gormCollection[T]{db: g.db, name: name}
}

func (c *gormCollection[T]) Name() string { return c.name }

func (c *gormCollection[T]) NewID() string { return newID() }

func (c *gormCollection[T]) table(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx).Table(c.name)
}

func (c *gormCollection[T]) Get(ctx context.Context, id string) (T, error) {
	var doc T
	err := c.table(ctx).Where("id = ?", id).Take(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return doc, ErrNotFound
	}
	return doc, err
}

func (c *gormCollection[T]) Set(ctx context.Context, doc T) error {
	if doc.DocumentID() == "" {
		return ErrMissingID
	}
	err := c.table(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(&doc).Error
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

// isUniqueViolation recognises duplicate keys from either SQL driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func (c *gormCollection[T]) Delete(ctx context.Context, id string) error {
	return c.table(ctx).Where("id = ?", id).Delete(new(T)).Error
}

func (c *gormCollection[T]) Find(ctx context.Context, q Query) ([]T, error) {
	tx := c.table(ctx)
	for _, f := range q.Filters {
		col := clause.Column{Name: f.Field}
		switch f.Op {
		case OpEq:
			tx = tx.Where(clause.Eq{Column: col, Value: f.Value})
		case OpGte:
			tx = tx.Where(clause.Gte{Column: col, Value: f.Value})
		case OpLte:
			tx = tx.Where(clause.Lte{Column: col, Value: f.Value})
		default:
			return nil, ErrUnsupportedFilter
		}
	}
	if q.OrderBy != "" {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: q.OrderBy}, Desc: q.Descending})
	}
	tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var out []T
	if err := tx.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
