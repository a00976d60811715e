package spreadsheetsvc

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/school"
)

const exportPageSize = 100

// ExportEmployees writes every employee, by ascending id, and returns how many were written.
func ExportEmployees(ctx context.Context, repo school.EmployeeRepository, w io.Writer, format Format) (int, error) {
	var rw rowWriter
	switch format {
	case FormatCSV:
		rw = newCSVWriter(w)
	case FormatXLSX:
		xw, err := newXLSXWriter(w)
		if err != nil {
			return 0, err
		}
		rw = xw
	default:
		return 0, unsupported(format)
	}

	if err := rw.WriteRow(header); err != nil {
		return 0, errors.Wrap(err, "writing header")
	}
	var n int
	filter := school.EmployeeFilter{Ordering: core.ParseOrdering("id")}
	for page := 1; ; page++ {
		if err := checkContext(ctx); err != nil {
			return n, err
		}
		res, err := repo.List(ctx, filter, core.PageRequest{Page: page, PageSize: exportPageSize})
		if err != nil {
			return n, errors.Wrap(err, "listing employees")
		}
		for _, e := range res.Items {
			if err = rw.WriteRow(employeeRow(e)); err != nil {
				return n, errors.Wrapf(err, "writing employee %d", e.ID)
			}
			n++
		}
		if len(res.Items) == 0 || page >= res.TotalPages() {
			break
		}
	}
	return n, errors.Wrap(rw.Close(), "flushing spreadsheet")
}

func employeeRow(e school.Employee) []string {
	return []string{
		strconv.FormatInt(e.ID, 10),
		e.Name,
		e.Email,
		e.Phone.String,
		e.Salary.StringFixed(2),
		e.Department.String,
	}
}

type rowWriter interface {
	WriteRow(cells []string) error
	Close() error
}

type csvWriter struct {
	w *csv.Writer
}

func newCSVWriter(w io.Writer) *csvWriter {
	return &csvWriter{w: csv.NewWriter(w)}
}

func (cw *csvWriter) WriteRow(cells []string) error {
	return cw.w.Write(cells)
}

func (cw *csvWriter) Close() error {
	cw.w.Flush()
	return cw.w.Error()
}

// xlsxWriter streams rows into a single sheet; the workbook is written to out on Close.
type xlsxWriter struct {
	out  io.Writer
	file *excelize.File
	sw   *excelize.StreamWriter
	row  int
}

func newXLSXWriter(out io.Writer) (*xlsxWriter, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, "naming sheet")
	}
	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, "creating stream writer")
	}
	return &xlsxWriter{out: out, file: f, sw: sw}, nil
}

func (xw *xlsxWriter) WriteRow(cells []string) error {
	xw.row++
	cell, err := excelize.CoordinatesToCellName(1, xw.row)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	return xw.sw.SetRow(cell, values)
}

func (xw *xlsxWriter) Close() error {
	defer func() { _ = xw.file.Close() }()
	if err := xw.sw.Flush(); err != nil {
		return err
	}
	_, err := xw.file.WriteTo(xw.out)
	return err
}
