// Package spreadsheetsvc exchanges employees with CSV and XLSX spreadsheets.
package spreadsheetsvc

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/schooladmin/core"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

func (f Format) IsValid() bool {
	switch f {
	case FormatCSV, FormatXLSX:
		return true
	}
	return false
}

func (f Format) Values() []string {
	return []string{string(FormatCSV), string(FormatXLSX)}
}

// ParseFormat accepts a format name or a file name ending with one.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	if f := Format(s); f.IsValid() {
		return f, nil
	}
	return "", core.NewValidationError(nil, core.FieldError{
		Field: "format",
		Error: "must be one of: " + strings.Join(Format("").Values(), ", "),
	})
}

const sheetName = "Employees"

// header is the first row of every exported file.
var header = []string{"Id", "Name", "Email", "Phone", "Salary", "Department"}

// RowError is the failure of one data row; Row counts from 1 with the header as row 1.
type RowError struct {
	Row int
	Err error
}

// ImportError lists the rows that could not be imported.
type ImportError struct {
	Rows []RowError
}

func (err ImportError) Error() string {
	msgs := make([]string, 0, len(err.Rows))
	for _, re := range err.Rows {
		msgs = append(msgs, fmt.Sprintf("row %d: %v", re.Row, re.Err))
	}
	return fmt.Sprintf("%d row(s) failed to import: %s", len(err.Rows), strings.Join(msgs, "; "))
}

// RowNumbers returns the failed rows in file order.
func (err ImportError) RowNumbers() []int {
	rows := make([]int, 0, len(err.Rows))
	for _, re := range err.Rows {
		rows = append(rows, re.Row)
	}
	return rows
}

func unsupported(f Format) error {
	return errors.Errorf("unsupported spreadsheet format %q", f)
}

func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "spreadsheet")
	}
	return nil
}
