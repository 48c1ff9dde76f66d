package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLite keeps every collection in its own table of (id, JSON doc) rows and filters
// with the JSON1 functions.
type SQLite struct {
	db *sqlx.DB

	mu     sync.Mutex
	tables map[string]bool
}

func OpenSQLite(dsn string) (*SQLite, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection: ":memory:" databases are per-connection and sqlite has a single writer anyway.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		return nil, err
	}
	return &SQLite{db: db, tables: map[string]bool{}}, nil
}

func (s *SQLite) ensure(ctx context.Context, coll string) error {
	if err := checkColl(coll); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tables[coll] {
		return nil
	}
	ddl := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %q(
  id TEXT PRIMARY KEY,
  doc TEXT NOT NULL CHECK (json_valid(doc)),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);`, coll)
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("docstore: create table %s: %w", coll, err)
	}
	s.tables[coll] = true
	return nil
}

func (s *SQLite) Get(ctx context.Context, coll, id string, out any) error {
	if err := s.ensure(ctx, coll); err != nil {
		return err
	}
	var doc string
	err := s.db.GetContext(ctx, &doc, fmt.Sprintf(`SELECT doc FROM %q WHERE id = ?`, coll), id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(doc), out)
}

func (s *SQLite) Create(ctx context.Context, coll, id string, doc any) error {
	if err := s.ensure(ctx, coll); err != nil {
		return err
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %q(id, doc, created_at, updated_at)
		VALUES(?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO NOTHING`, coll), id, string(b))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrExists
	}
	return nil
}

func (s *SQLite) Put(ctx context.Context, coll, id string, doc any) error {
	if err := s.ensure(ctx, coll); err != nil {
		return err
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %q(id, doc, created_at, updated_at)
		VALUES(?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET doc = excluded.doc, updated_at = CURRENT_TIMESTAMP`, coll), id, string(b))
	return err
}

func (s *SQLite) Delete(ctx context.Context, coll, id string) error {
	if err := s.ensure(ctx, coll); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %q WHERE id = ?`, coll), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) Find(ctx context.Context, coll string, out any, conds ...Cond) error {
	if err := s.ensure(ctx, coll); err != nil {
		return err
	}
	where, args, err := sqliteWhere(conds)
	if err != nil {
		return err
	}
	var docs []string
	q := fmt.Sprintf(`SELECT doc FROM %q%s ORDER BY rowid`, coll, where)
	if err := s.db.SelectContext(ctx, &docs, q, args...); err != nil {
		return err
	}
	return json.Unmarshal([]byte("["+strings.Join(docs, ",")+"]"), out)
}

func (s *SQLite) Count(ctx context.Context, coll string, conds ...Cond) (int, error) {
	if err := s.ensure(ctx, coll); err != nil {
		return 0, err
	}
	where, args, err := sqliteWhere(conds)
	if err != nil {
		return 0, err
	}
	var n int
	err = s.db.GetContext(ctx, &n, fmt.Sprintf(`SELECT COUNT(*) FROM %q%s`, coll, where), args...)
	return n, err
}

func (s *SQLite) Close(context.Context) error { return s.db.Close() }

func sqliteWhere(conds []Cond) (string, []any, error) {
	if len(conds) == 0 {
		return "", nil, nil
	}
	if err := checkConds(conds); err != nil {
		return "", nil, err
	}
	parts := make([]string, 0, len(conds))
	args := make([]any, 0, 2*len(conds))
	for _, c := range conds {
		path := "$." + c.Field
		switch c.Op {
		case OpEq:
			parts = append(parts, `json_extract(doc, ?) = ?`)
		case OpContains:
			parts = append(parts, `EXISTS (SELECT 1 FROM json_each(doc, ?) WHERE json_each.value = ?)`)
		}
		args = append(args, path, sqliteValue(c.Value))
	}
	return " WHERE " + strings.Join(parts, " AND "), args, nil
}

// json_extract yields 1/0 for JSON booleans.
func sqliteValue(v any) any {
	if b, ok := v.(bool); ok {
		if b {
			return 1
		}
		return 0
	}
	return v
}
