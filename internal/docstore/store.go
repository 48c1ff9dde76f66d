// Package docstore is the persistence adapter: a collection-per-entity document store
// with id lookups, whole-document upserts and equality filters. There is no query
// planner and no multi-document transaction; callers sort and aggregate in memory.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrNotFound = errors.New("docstore: document not found")
	ErrExists   = errors.New("docstore: document already exists")
)

type Op uint8

const (
	OpEq       Op = iota // field == value
	OpContains           // array field contains value
)

// Cond is a single filter condition; conditions passed together are ANDed.
type Cond struct {
	Field string
	Op    Op
	Value any
}

func Eq(field string, value any) Cond       { return Cond{Field: field, Op: OpEq, Value: value} }
func Contains(field string, value any) Cond { return Cond{Field: field, Op: OpContains, Value: value} }

// Store is implemented by each backend. Documents are JSON-shaped structs; out
// arguments are pointers to a struct (Get) or to a slice of structs (Find).
type Store interface {
	Get(ctx context.Context, coll, id string, out any) error
	// Create inserts doc under id, failing with ErrExists if id is taken.
	Create(ctx context.Context, coll, id string, doc any) error
	// Put replaces (or inserts) the whole document stored under id.
	Put(ctx context.Context, coll, id string, doc any) error
	Delete(ctx context.Context, coll, id string) error
	Find(ctx context.Context, coll string, out any, conds ...Cond) error
	Count(ctx context.Context, coll string, conds ...Cond) (int, error)
	Close(ctx context.Context) error
}

var (
	reColl  = regexp.MustCompile(`^[a-z][a-z0-9_]{0,62}$`)
	reField = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)
)

func checkColl(coll string) error {
	if !reColl.MatchString(coll) {
		return fmt.Errorf("docstore: invalid collection name %q", coll)
	}
	return nil
}

func checkConds(conds []Cond) error {
	for _, c := range conds {
		if !reField.MatchString(c.Field) {
			return fmt.Errorf("docstore: invalid field name %q", c.Field)
		}
		if c.Op != OpEq && c.Op != OpContains {
			return fmt.Errorf("docstore: unsupported operator %d", c.Op)
		}
	}
	return nil
}
