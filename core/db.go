package core

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
)

type (
	// DBExecutor is satisfied by both *sqlx.DB and *sqlx.Tx.
	DBExecutor interface {
		sqlx.ExtContext

		GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	}

	DB interface {
		DBExecutor

		BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
		Close() error
	}

	DBTransactor interface {
		DBExecutor

		Commit() error
		Rollback() error
	}
)

var (
	_ DB           = (*sqlx.DB)(nil)
	_ DBTransactor = (*sqlx.Tx)(nil)
)

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// ParseOrdering parses a comma separated list of fields, e.g. "-created_at,name".
// A leading "-" means descending.
func ParseOrdering(s string) []DBOrdering {
	var orderings []DBOrdering
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		orderings = append(orderings, DBOrdering{Field: field, Ascending: !descending})
	}
	return orderings
}
