package database

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/storage/database/migrations"
)

// NewMigrator returns a goose provider over the embedded migrations of the connection's dialect.
// Providers hold no package state, so several databases can be migrated concurrently.
func NewMigrator(db *sqlx.DB) (*goose.Provider, error) {
	engine := Dialect(db)
	dialect := goose.DialectPostgres
	if engine == core.EngineSQLite {
		dialect = goose.DialectSQLite3
	}
	fsys, err := fs.Sub(migrations.FS, engine)
	if err != nil {
		return nil, errors.Wrap(err, "loading migrations")
	}
	provider, err := goose.NewProvider(dialect, db.DB, fsys)
	if err != nil {
		return nil, errors.Wrap(err, "creating migrator")
	}
	return provider, nil
}

// Migrate applies every pending migration.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	provider, err := NewMigrator(db)
	if err != nil {
		return err
	}
	if _, err = provider.Up(ctx); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}

// RunMigration runs a migration command and reports what it did on out.
// Commands: up, up-by-one, up-to VERSION, down, down-to VERSION, redo, reset, status, version.
func RunMigration(ctx context.Context, db *sqlx.DB, out io.Writer, command string, args ...string) error {
	provider, err := NewMigrator(db)
	if err != nil {
		return err
	}

	var results []*goose.MigrationResult
	switch command {
	case "up":
		results, err = provider.Up(ctx)
	case "up-by-one":
		var res *goose.MigrationResult
		if res, err = provider.UpByOne(ctx); res != nil {
			results = append(results, res)
		}
	case "up-to":
		var version int64
		if version, err = parseVersion(command, args); err != nil {
			return err
		}
		results, err = provider.UpTo(ctx, version)
	case "down":
		var res *goose.MigrationResult
		if res, err = provider.Down(ctx); res != nil {
			results = append(results, res)
		}
	case "down-to":
		var version int64
		if version, err = parseVersion(command, args); err != nil {
			return err
		}
		results, err = provider.DownTo(ctx, version)
	case "redo":
		var down, up *goose.MigrationResult
		if down, err = provider.Down(ctx); err != nil {
			return errors.Wrap(err, "redo")
		}
		results = append(results, down)
		if up, err = provider.UpByOne(ctx); up != nil {
			results = append(results, up)
		}
	case "reset":
		results, err = provider.DownTo(ctx, 0)
	case "status":
		return printStatus(ctx, provider, out)
	case "version":
		var version int64
		if version, err = provider.GetDBVersion(ctx); err != nil {
			return errors.Wrap(err, "getting version")
		}
		_, _ = fmt.Fprintf(out, "version %d\n", version)
		return nil
	default:
		return fmt.Errorf("%q: no such command", command)
	}

	for _, res := range results {
		printResult(out, res)
	}
	if err != nil {
		if errors.Is(err, goose.ErrNoNextVersion) || errors.Is(err, goose.ErrNoCurrentVersion) {
			_, _ = fmt.Fprintln(out, "no migrations to run")
			return nil
		}
		return errors.Wrap(err, command)
	}
	if len(results) == 0 {
		_, _ = fmt.Fprintln(out, "no migrations to run")
	}
	return nil
}

func parseVersion(command string, args []string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s must be of form: migrate %s VERSION", command, command)
	}
	version, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("version must be a number (got '%s')", args[0])
	}
	return version, nil
}

func printResult(out io.Writer, res *goose.MigrationResult) {
	if res == nil || res.Source == nil {
		return
	}
	_, _ = fmt.Fprintf(out, "%-4s %05d %s (%s)\n", res.Direction, res.Source.Version, res.Source.Path, res.Duration)
}

func printStatus(ctx context.Context, provider *goose.Provider, out io.Writer) error {
	statuses, err := provider.Status(ctx)
	if err != nil {
		return errors.Wrap(err, "getting status")
	}
	_, _ = fmt.Fprintln(out, "    Applied At                  Migration")
	_, _ = fmt.Fprintln(out, "    =======================================")
	for _, st := range statuses {
		appliedAt := "Pending --"
		if st.State == goose.StateApplied {
			appliedAt = st.AppliedAt.UTC().Format("Mon Jan 02 15:04:05 2006")
		}
		_, _ = fmt.Fprintf(out, "    %-27s %s\n", appliedAt, st.Source.Path)
	}
	return nil
}
