package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"

	spreadsheetsvc "github.com/trezcool/schooladmin/services/spreadsheet"
)

func format(path, name string) (spreadsheetsvc.Format, error) {
	if name == "" {
		name = path
	}
	return spreadsheetsvc.ParseFormat(name)
}

func (cli *commandLine) exportEmployees(ctx context.Context, path, formatName string) (err error) {
	f, err := format(path, formatName)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating export file")
	}
	defer func() {
		if cErr := file.Close(); err == nil && cErr != nil {
			err = errors.Wrap(cErr, "closing export file")
		}
	}()

	n, err := spreadsheetsvc.ExportEmployees(ctx, cli.employees, file, f)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "exported %d employee(s) to %s\n", n, path)
	return nil
}

func (cli *commandLine) importEmployees(ctx context.Context, path, formatName string) error {
	f, err := format(path, formatName)
	if err != nil {
		return err
	}
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening import file")
	}
	defer func() { _ = file.Close() }()

	n, err := spreadsheetsvc.ImportEmployees(ctx, cli.employees, file, f)
	_, _ = fmt.Fprintf(cli.out, "imported %d employee(s) from %s\n", n, path)
	var impErr *spreadsheetsvc.ImportError
	if errors.As(err, &impErr) {
		for _, re := range impErr.Rows {
			_, _ = fmt.Fprintf(cli.out, "  row %d: %v\n", re.Row, re.Err)
		}
	}
	return err
}
