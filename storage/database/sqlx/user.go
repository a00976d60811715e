package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/user"
	"github.com/trezcool/schooladmin/storage/database/dberr"
)

const usersTable = "users"

var userSortable = []string{"name", "email", "role", "last_login", "created_at"}

type userRepository struct {
	*Store
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(s *Store) *userRepository {
	return &userRepository{Store: s}
}

func (repo userRepository) values(usr user.User) map[string]interface{} {
	return map[string]interface{}{
		"name":          usr.Name,
		"email":         usr.Email,
		"password":      usr.PasswordHash,
		"role":          string(usr.Role),
		"phone":         usr.Phone,
		"address":       usr.Address,
		"profile_image": usr.ProfileImage,
		"is_active":     usr.IsActive,
		"last_login":    usr.LastLogin,
	}
}

func (repo userRepository) getBy(ctx context.Context, exec core.DBExecutor, cond sq.Sqlizer, id int64) (user.User, error) {
	var usr user.User
	q, args, err := repo.sb.Select("*").From(usersTable).Where(cond).ToSql()
	if err != nil {
		return usr, errors.Wrap(err, "building user select")
	}
	if err = exec.GetContext(ctx, &usr, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return usr, core.NewNotFoundError(user.EntityUser, id)
		}
		return usr, errors.Wrap(err, "selecting user")
	}
	return usr, nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	var out user.User
	err := repo.withTx(ctx, func(tx *sqlx.Tx) error {
		now := time.Now().UTC()
		vals := repo.values(usr)
		vals["created_at"] = now
		vals["updated_at"] = now
		q, args, err := repo.sb.Insert(usersTable).SetMap(vals).Suffix("RETURNING id").ToSql()
		if err != nil {
			return errors.Wrap(err, "building user insert")
		}
		var id int64
		if err = tx.GetContext(ctx, &id, q, args...); err != nil {
			return dberr.Classify(err, user.EntityUser, "inserting user")
		}
		out, err = repo.getBy(ctx, tx, sq.Eq{"id": id}, id)
		return err
	})
	return out, err
}

func (repo userRepository) GetUser(ctx context.Context, id int64) (user.User, error) {
	return repo.getBy(ctx, repo.db, sq.Eq{"id": id}, id)
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return repo.getBy(ctx, repo.db, sq.Eq{"email": email}, 0)
}

func (repo userRepository) ListUsers(ctx context.Context, filter user.QueryFilter, page core.PageRequest) (core.Page[user.User], error) {
	var conds []sq.Sqlizer
	if filter.Search != "" {
		conds = append(conds, repo.search(filter.Search, "name", "email"))
	}
	if filter.Role != "" {
		conds = append(conds, sq.Eq{"role": string(filter.Role)})
	}
	if filter.IsActive != nil {
		conds = append(conds, sq.Eq{"is_active": *filter.IsActive})
	}
	clauses, err := orderBy(filter.Ordering, userSortable)
	if err != nil {
		return core.Page[user.User]{}, err
	}
	return paginate[user.User](ctx, repo.Store, usersTable, conds, clauses, page)
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	var out user.User
	err := repo.withTx(ctx, func(tx *sqlx.Tx) error {
		vals := repo.values(usr)
		vals["updated_at"] = time.Now().UTC()
		q, args, err := repo.sb.Update(usersTable).SetMap(vals).Where(sq.Eq{"id": usr.ID}).ToSql()
		if err != nil {
			return errors.Wrap(err, "building user update")
		}
		res, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			return dberr.Classify(err, user.EntityUser, "updating user")
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return core.NewNotFoundError(user.EntityUser, usr.ID)
		}
		out, err = repo.getBy(ctx, tx, sq.Eq{"id": usr.ID}, usr.ID)
		return err
	})
	return out, err
}

func (repo userRepository) SetLastLogin(ctx context.Context, id int64, at time.Time) error {
	q, args, err := repo.sb.Update(usersTable).Set("last_login", at.UTC()).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building last_login update")
	}
	res, err := repo.db.ExecContext(ctx, q, args...)
	if err != nil {
		return errors.Wrap(err, "updating last_login")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.NewNotFoundError(user.EntityUser, id)
	}
	return nil
}

func (repo userRepository) DeleteUser(ctx context.Context, id int64) error {
	return repo.withTx(ctx, func(tx *sqlx.Tx) error {
		q, args, err := repo.sb.Delete(usersTable).Where(sq.Eq{"id": id}).ToSql()
		if err != nil {
			return errors.Wrap(err, "building user delete")
		}
		res, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			return dberr.Classify(err, user.EntityUser, "deleting user")
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return core.NewNotFoundError(user.EntityUser, id)
		}
		return nil
	})
}
