// SPDX-License-Identifier: AGPL-3.0-only
package database

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Dialect selects the placeholder style and goose dialect of the backing store.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
)

func New(db DBTX) *Queries {
	return &Queries{db: db, dialect: DialectSQLite}
}

type Queries struct {
	db      DBTX
	dialect Dialect
}

func (q *Queries) WithDialect(d Dialect) *Queries {
	return &Queries{db: q.db, dialect: d}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx, dialect: q.dialect}
}

// rebind rewrites ? placeholders to $N for postgres. Queries in this package
// never carry a literal question mark.
func (q *Queries) rebind(query string) string {
	if q.dialect != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
