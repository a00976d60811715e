package main

import (
	"context"

	"github.com/trezcool/schooladmin/storage/database"
)

var migrateFunc = database.RunMigration // mockable

func (cli *commandLine) migrate(ctx context.Context, args []string) error {
	return migrateFunc(ctx, cli.db, cli.out, args[0], args[1:]...)
}
