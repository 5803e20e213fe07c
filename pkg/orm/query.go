// Package orm is a fluent query layer over the shared gorm connection,
// with pagination, a Redis read-through cache, and a transaction helper.
package orm

import (
	"time"

	"github.com/shashiranjanraj/bazaar/pkg/cache"
	"github.com/shashiranjanraj/bazaar/pkg/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Query struct {
	db *gorm.DB
}

func DB() *Query {
	return &Query{db: database.DB}
}

// Gorm exposes the underlying *gorm.DB for operations the wrapper does not
// cover (locking clauses, expressions).
func Gorm() *gorm.DB {
	return database.DB
}

// Transaction runs fn inside a database transaction. Everything fn writes is
// committed together, or rolled back together when fn returns an error.
// This is the atomicity boundary for order placement.
func Transaction(fn func(tx *gorm.DB) error) error {
	return database.DB.Transaction(fn)
}

// LockForUpdate adds a SELECT ... FOR UPDATE row lock on databases that
// support it. SQLite serialises writers on its own and rejects the clause,
// so it is skipped there.
func LockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(expr string) *Query {
	return &Query{db: q.db.Order(expr)}
}

func (q *Query) Preload(association string, args ...interface{}) *Query {
	return &Query{db: q.db.Preload(association, args...)}
}

func (q *Query) Limit(n int) *Query {
	return &Query{db: q.db.Limit(n)}
}

func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	return q.db.First(dest).Error
}

func (q *Query) Count() (int64, error) {
	var n int64
	err := q.db.Count(&n).Error
	return n, err
}

func (q *Query) Create(v interface{}) error {
	return q.db.Create(v).Error
}

func (q *Query) Save(v interface{}) error {
	return q.db.Save(v).Error
}

func (q *Query) Delete(v interface{}) error {
	return q.db.Delete(v).Error
}

// Cache reads dest from Redis under key, falling back to the database and
// populating the cache on a miss.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if cache.Get(key, dest) {
		return nil
	}

	err := q.db.Find(dest).Error
	if err != nil {
		return err
	}

	cache.Set(key, dest, ttl)
	return nil
}

// ─── Pagination ──────────────────────────────────────────────────────────────

// Pagination is the page metadata returned alongside every listing.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
}

// GetWithPagination fills dest with one page of results and returns the
// pagination metadata. page starts at 1; limit is clamped to [1,100].
func (q *Query) GetWithPagination(dest interface{}, page, limit int) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 15
	}
	if limit > 100 {
		limit = 100
	}

	var total int64
	if err := q.db.Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	lastPage := int((total + int64(limit) - 1) / int64(limit))
	if lastPage < 1 {
		lastPage = 1
	}

	offset := (page - 1) * limit
	if err := q.db.Offset(offset).Limit(limit).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	return Pagination{
		CurrentPage: page,
		LastPage:    lastPage,
		PerPage:     limit,
		Total:       total,
	}, nil
}
