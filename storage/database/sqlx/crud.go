package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/storage/database/dberr"
)

// crud implements Create, Get, Update & Delete of one table.
// T is the stored entity, N its validated input and U its partial update.
type crud[T, N, U any] struct {
	*Store
	table    string
	entity   string
	sortable []string
	row      func(in N) map[string]interface{}
	refs     func(in N) []fkRef
	merge    func(upd U, cur T) N
}

func (c crud[T, N, U]) Create(ctx context.Context, in N) (T, error) {
	var out T
	if err := c.clean(&in); err != nil {
		return out, err
	}
	err := c.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := c.checkRefs(ctx, tx, c.entity, c.references(in)); err != nil {
			return err
		}

		now := time.Now().UTC()
		vals := c.row(in)
		vals["created_at"] = now
		vals["updated_at"] = now
		q, args, err := c.sb.Insert(c.table).SetMap(vals).Suffix("RETURNING id").ToSql()
		if err != nil {
			return errors.Wrapf(err, "building %s insert", c.entity)
		}

		var id int64
		if err = tx.GetContext(ctx, &id, q, args...); err != nil {
			return dberr.Classify(err, c.entity, "inserting "+c.entity)
		}
		return c.get(ctx, tx, id, &out)
	})
	return out, err
}

func (c crud[T, N, U]) Get(ctx context.Context, id int64) (T, error) {
	var out T
	err := c.get(ctx, c.db, id, &out)
	return out, err
}

func (c crud[T, N, U]) Update(ctx context.Context, id int64, upd U) (T, error) {
	var out T
	err := c.withTx(ctx, func(tx *sqlx.Tx) error {
		var cur T
		if err := c.get(ctx, tx, id, &cur); err != nil {
			return err
		}
		in := c.merge(upd, cur)
		if err := c.clean(&in); err != nil {
			return err
		}
		if err := c.checkRefs(ctx, tx, c.entity, c.references(in)); err != nil {
			return err
		}

		vals := c.row(in)
		vals["updated_at"] = time.Now().UTC()
		q, args, err := c.sb.Update(c.table).SetMap(vals).Where(sq.Eq{"id": id}).ToSql()
		if err != nil {
			return errors.Wrapf(err, "building %s update", c.entity)
		}
		if _, err = tx.ExecContext(ctx, q, args...); err != nil {
			return dberr.Classify(err, c.entity, "updating "+c.entity)
		}
		return c.get(ctx, tx, id, &out)
	})
	return out, err
}

// Delete removes the row; dependent rows are deleted or detached by the schema's ON DELETE rules
// within the same transaction.
func (c crud[T, N, U]) Delete(ctx context.Context, id int64) error {
	return c.withTx(ctx, func(tx *sqlx.Tx) error {
		q, args, err := c.sb.Delete(c.table).Where(sq.Eq{"id": id}).ToSql()
		if err != nil {
			return errors.Wrapf(err, "building %s delete", c.entity)
		}
		res, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			return dberr.Classify(err, c.entity, "deleting "+c.entity)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return errors.Wrap(err, "counting deleted rows")
		}
		if n == 0 {
			return core.NewNotFoundError(c.entity, id)
		}
		return nil
	})
}

func (c crud[T, N, U]) list(ctx context.Context, conds []sq.Sqlizer, ordering []core.DBOrdering, page core.PageRequest) (core.Page[T], error) {
	clauses, err := orderBy(ordering, c.sortable)
	if err != nil {
		return core.Page[T]{}, err
	}
	return paginate[T](ctx, c.Store, c.table, conds, clauses, page)
}

func (c crud[T, N, U]) get(ctx context.Context, exec core.DBExecutor, id int64, dest *T) error {
	q, args, err := c.sb.Select("*").From(c.table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrapf(err, "building %s select", c.entity)
	}
	if err = exec.GetContext(ctx, dest, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.NewNotFoundError(c.entity, id)
		}
		return errors.Wrapf(err, "selecting %s", c.entity)
	}
	return nil
}

// clean normalises the input then validates it.
func (c crud[T, N, U]) clean(in *N) error {
	if cleaner, ok := any(in).(interface{ Clean() }); ok {
		cleaner.Clean()
	}
	return c.validate.Struct(in)
}

func (c crud[T, N, U]) references(in N) []fkRef {
	if c.refs == nil {
		return nil
	}
	return c.refs(in)
}

func ref(field, entity, table string, id int64) fkRef {
	return fkRef{field: field, entity: entity, table: table, id: id}
}

func nullRef(field, entity, table string, id null.Int64) fkRef {
	if !id.Valid {
		return fkRef{field: field}
	}
	return ref(field, entity, table, id.Int64)
}
