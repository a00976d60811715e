// Package sqlxrepos implements the repositories on top of sqlx and squirrel,
// for both PostgreSQL and SQLite.
package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/storage/database"
)

// Store is the handle every repository is built on.
type Store struct {
	db          *sqlx.DB
	sb          sq.StatementBuilderType
	dialect     string
	validate    *core.Validator
	logger      core.Logger
	pageSize    int
	maxPageSize int
}

type StoreOption func(*Store)

// WithPagination overrides the default and maximum page sizes.
func WithPagination(conf core.PaginationConfig) StoreOption {
	return func(s *Store) {
		if conf.PageSize > 0 {
			s.pageSize = conf.PageSize
		}
		if conf.MaxPageSize > 0 {
			s.maxPageSize = conf.MaxPageSize
		}
	}
}

func NewStore(db *sqlx.DB, validate *core.Validator, logger core.Logger, opts ...StoreOption) *Store {
	s := &Store{
		db:          db,
		dialect:     database.Dialect(db),
		validate:    validate,
		logger:      logger,
		pageSize:    15,
		maxPageSize: 100,
	}
	var placeholder sq.PlaceholderFormat = sq.Dollar
	if s.dialect == core.EngineSQLite {
		placeholder = sq.Question
	}
	s.sb = sq.StatementBuilder.PlaceholderFormat(placeholder)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) DB() *sqlx.DB { return s.db }

// withTx runs fn in a transaction, committed when fn succeeds and rolled back otherwise.
func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				s.logger.Error("rolling back transaction", rbErr)
			}
			return
		}
		err = errors.Wrap(tx.Commit(), "committing transaction")
	}()
	return fn(tx)
}

// search matches term anywhere in any of cols, ignoring case.
func (s *Store) search(term string, cols ...string) sq.Sqlizer {
	pattern := "%" + term + "%"
	or := make(sq.Or, 0, len(cols))
	for _, col := range cols {
		if s.dialect == core.EngineSQLite {
			or = append(or, sq.Like{col: pattern}) // LIKE ignores ASCII case in SQLite
		} else {
			or = append(or, sq.ILike{col: pattern})
		}
	}
	return or
}

// fkRef is a foreign key of a row being written. A zero id is a NULL reference and is skipped.
type fkRef struct {
	field  string
	entity string
	table  string
	id     int64
}

// checkRefs makes sure every referenced row exists, so a missing target is reported with its field.
func (s *Store) checkRefs(ctx context.Context, exec core.DBExecutor, entity string, refs []fkRef) error {
	for _, ref := range refs {
		if ref.id == 0 {
			continue
		}
		q, args, err := s.sb.Select("1").From(ref.table).Where(sq.Eq{"id": ref.id}).Limit(1).ToSql()
		if err != nil {
			return errors.Wrap(err, "building reference check")
		}
		var found int
		if err = exec.GetContext(ctx, &found, q, args...); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &core.ReferentialIntegrityError{Entity: entity, Field: ref.field, RefEntity: ref.entity, RefID: ref.id}
			}
			return errors.Wrapf(err, "checking %s", ref.field)
		}
	}
	return nil
}

// orderBy validates the requested ordering against the sortable columns.
// Results always end with the id so that pages are stable.
func orderBy(ordering []core.DBOrdering, sortable []string) ([]string, error) {
	if len(ordering) == 0 {
		return []string{"id DESC"}, nil
	}
	clauses := make([]string, 0, len(ordering)+1)
	var hasID bool
	for _, ord := range ordering {
		if ord.Field != "id" && !slices.Contains(sortable, ord.Field) {
			return nil, core.NewValidationError(nil, core.FieldError{
				Field: "ordering",
				Error: fmt.Sprintf("cannot order by %q, expected one of: id, %s", ord.Field, strings.Join(sortable, ", ")),
			})
		}
		hasID = hasID || ord.Field == "id"
		clauses = append(clauses, ord.String())
	}
	if !hasID {
		clauses = append(clauses, "id DESC")
	}
	return clauses, nil
}

// paginate fills a page of T from the table rows matching conds.
func paginate[T any](
	ctx context.Context,
	s *Store,
	table string,
	conds []sq.Sqlizer,
	ordering []string,
	page core.PageRequest,
) (core.Page[T], error) {
	page = page.Normalize(s.pageSize, s.maxPageSize)
	result := core.Page[T]{Items: make([]T, 0), Page: page.Page, PageSize: page.PageSize}

	countQ := s.sb.Select("COUNT(*)").From(table)
	selectQ := s.sb.Select("*").From(table)
	for _, cond := range conds {
		countQ = countQ.Where(cond)
		selectQ = selectQ.Where(cond)
	}

	q, args, err := countQ.ToSql()
	if err != nil {
		return result, errors.Wrap(err, "building count query")
	}
	if err = s.db.GetContext(ctx, &result.Total, q, args...); err != nil {
		return result, errors.Wrapf(err, "counting %s", table)
	}
	if result.Total == 0 || page.Offset() >= result.Total {
		return result, nil
	}

	q, args, err = selectQ.
		OrderBy(ordering...).
		Limit(uint64(page.PageSize)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return result, errors.Wrap(err, "building select query")
	}
	if err = s.db.SelectContext(ctx, &result.Items, q, args...); err != nil {
		return result, errors.Wrapf(err, "selecting %s", table)
	}
	return result, nil
}

// selectAll loads every row of T matching the query, as a non-nil slice.
func selectAll[T any](ctx context.Context, exec core.DBExecutor, qb sq.SelectBuilder) ([]T, error) {
	items := make([]T, 0)
	q, args, err := qb.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building select query")
	}
	if err = exec.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}
