package spreadsheetsvc

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/school"
)

// ImportEmployees creates an employee for every data row of r and returns how many were created.
// The first row is the header; columns are matched by name, ignoring case, and Id is ignored.
// Rows that fail are skipped and reported together in an *ImportError.
func ImportEmployees(ctx context.Context, repo school.EmployeeRepository, r io.Reader, format Format) (int, error) {
	var (
		rows [][]string
		err  error
	)
	switch format {
	case FormatCSV:
		rows, err = readCSV(r)
	case FormatXLSX:
		rows, err = readXLSX(r)
	default:
		return 0, unsupported(format)
	}
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, core.NewValidationError(errors.New("spreadsheet is empty"))
	}

	cols, err := columns(rows[0])
	if err != nil {
		return 0, err
	}

	var (
		created int
		failed  []RowError
	)
	for i, row := range rows[1:] {
		if err = checkContext(ctx); err != nil {
			return created, err
		}
		if blank(row) {
			continue
		}
		rowNum := i + 2 // header is row 1
		in, err := cols.employee(row)
		if err == nil {
			_, err = repo.Create(ctx, in)
		}
		if err != nil {
			failed = append(failed, RowError{Row: rowNum, Err: err})
			continue
		}
		created++
	}
	if len(failed) > 0 {
		return created, &ImportError{Rows: failed}
	}
	return created, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, core.NewValidationError(errors.Wrap(err, "reading csv"))
	}
	return rows, nil
}

// readXLSX reads the first sheet of the workbook.
func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, core.NewValidationError(errors.Wrap(err, "reading xlsx"))
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(0), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrap(err, "reading sheet")
	}
	return rows, nil
}

// columnIndex maps each known header to its column, -1 when absent.
type columnIndex map[string]int

func columns(headerRow []string) (columnIndex, error) {
	cols := columnIndex{}
	for _, h := range header {
		cols[strings.ToLower(h)] = -1
	}
	for i, cell := range headerRow {
		name := strings.ToLower(strings.TrimSpace(cell))
		if idx, known := cols[name]; known && idx < 0 {
			cols[name] = i
		}
	}
	var missing []core.FieldError
	for _, name := range []string{"name", "email"} {
		if cols[name] < 0 {
			missing = append(missing, core.FieldError{Field: name, Error: "column is missing from the header"})
		}
	}
	if len(missing) > 0 {
		return nil, core.NewValidationError(nil, missing...)
	}
	return cols, nil
}

func (cols columnIndex) cell(row []string, name string) string {
	idx := cols[name]
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (cols columnIndex) employee(row []string) (school.NewEmployee, error) {
	in := school.NewEmployee{
		Name:       cols.cell(row, "name"),
		Email:      cols.cell(row, "email"),
		Phone:      nullString(cols.cell(row, "phone")),
		Department: nullString(cols.cell(row, "department")),
		Salary:     decimal.Zero,
	}
	if s := cols.cell(row, "salary"); s != "" {
		salary, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
		if err != nil {
			return in, core.NewValidationError(nil, core.FieldError{Field: "salary", Error: "must be a number"})
		}
		in.Salary = salary
	}
	return in, nil
}

func nullString(s string) null.String {
	return null.NewString(s, s != "")
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
