// Package dberr translates driver errors into the core error taxonomy.
package dberr

import (
	"database/sql"
	"regexp"
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/trezcool/schooladmin/core"
)

type kind int

const (
	kindUnknown kind = iota
	kindUnique
	kindForeignKey
	kindInvalid
)

var (
	// Key (class_id, name)=(1, A) already exists.
	pqKeyRegex = regexp.MustCompile(`Key \(([^)]+)\)=\(([^)]*)\)`)
	// UNIQUE constraint failed: sections.class_id, sections.name
	// UNIQUE constraint failed: index 'teacher_subject_class_section_unique'
	sqliteConstraintRegex = regexp.MustCompile(`(UNIQUE|NOT NULL|CHECK|FOREIGN KEY) constraint failed(?::\s*(.+))?`)
	sqliteIndexRegex      = regexp.MustCompile(`^index '([^']+)'`)
	// modernc appends the extended result code: "users.email (2067)"
	sqliteCodeSuffixRegex = regexp.MustCompile(`\s*\(\d+\)$`)
)

// Classify maps err, raised while writing entity, to a typed error.
// Unrecognised errors are wrapped with msg; nil stays nil.
func Classify(err error, entity, msg string) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return core.NewNotFoundError(entity, 0)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return classifyPostgres(pqErr, entity, msg)
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return classifySQLite(sqliteErr, entity, msg)
	}
	return errors.Wrap(err, msg)
}

func pqKind(code pq.ErrorCode) kind {
	switch code {
	case "23505": // unique_violation
		return kindUnique
	case "23503": // foreign_key_violation
		return kindForeignKey
	case "23502", "23514", "22001", "22003", "22P02": // not_null, check, string too long, out of range, bad text
		return kindInvalid
	}
	return kindUnknown
}

func classifyPostgres(pqErr *pq.Error, entity, msg string) error {
	switch pqKind(pqErr.Code) {
	case kindUnique:
		var fields []string
		if m := pqKeyRegex.FindStringSubmatch(pqErr.Detail); m != nil {
			fields = splitFields(m[1])
		}
		return &core.UniquenessConflictError{Entity: entity, Constraint: pqErr.Constraint, Fields: fields, Err: pqErr}
	case kindForeignKey:
		riErr := &core.ReferentialIntegrityError{Entity: entity, Err: pqErr}
		if m := pqKeyRegex.FindStringSubmatch(pqErr.Detail); m != nil {
			riErr.Field = strings.TrimSpace(m[1])
		}
		return riErr
	case kindInvalid:
		field := pqErr.Column
		if field == "" {
			field = checkField(pqErr.Constraint, pqErr.Table)
		}
		return invalid(pqErr, field)
	}
	return errors.Wrap(pqErr, msg)
}

func sqliteKind(code int) kind {
	switch code {
	case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
		return kindUnique
	case sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY:
		return kindForeignKey
	case sqlite3lib.SQLITE_CONSTRAINT_NOTNULL, sqlite3lib.SQLITE_CONSTRAINT_CHECK:
		return kindInvalid
	}
	return kindUnknown
}

func classifySQLite(sqliteErr *msqlite.Error, entity, msg string) error {
	k := sqliteKind(sqliteErr.Code())
	m := sqliteConstraintRegex.FindStringSubmatch(sqliteErr.Error())
	if k == kindUnknown && m != nil {
		// extended result codes are missing, fall back on the message
		switch m[1] {
		case "UNIQUE":
			k = kindUnique
		case "FOREIGN KEY":
			k = kindForeignKey
		default:
			k = kindInvalid
		}
	}
	var detail string
	if m != nil {
		detail = trimCode(m[2])
	}

	switch k {
	case kindUnique:
		ucErr := &core.UniquenessConflictError{Entity: entity, Err: sqliteErr}
		if im := sqliteIndexRegex.FindStringSubmatch(detail); im != nil {
			ucErr.Constraint = im[1]
		} else if detail != "" {
			ucErr.Fields = splitFields(detail)
		}
		return ucErr
	case kindForeignKey:
		return &core.ReferentialIntegrityError{Entity: entity, Err: sqliteErr}
	case kindInvalid:
		var field string
		if m != nil && m[1] == "NOT NULL" {
			if flds := splitFields(detail); len(flds) > 0 {
				field = flds[0]
			}
		} else {
			field = checkField(detail, "")
		}
		return invalid(sqliteErr, field)
	}
	return errors.Wrap(sqliteErr, msg)
}

func invalid(err error, field string) error {
	if field == "" {
		return core.NewValidationError(err)
	}
	return core.NewValidationError(err, core.FieldError{Field: field, Error: "invalid value"})
}

// trimCode drops the result code the driver appends to constraint messages.
func trimCode(detail string) string {
	return sqliteCodeSuffixRegex.ReplaceAllString(strings.TrimSpace(detail), "")
}

// splitFields turns "sections.class_id, sections.name" into [class_id name].
func splitFields(s string) []string {
	parts := strings.Split(s, ",")
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if i := strings.LastIndex(p, "."); i >= 0 {
			p = p[i+1:]
		}
		if p != "" {
			fields = append(fields, p)
		}
	}
	return fields
}

// checkField guesses the column of a CHECK constraint from either its name (students_status_check)
// or its expression (status IN ('active', ...)).
func checkField(s, table string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if table != "" && strings.HasPrefix(s, table+"_") && strings.HasSuffix(s, "_check") {
		return strings.TrimSuffix(strings.TrimPrefix(s, table+"_"), "_check")
	}
	if i := strings.IndexAny(s, " (<>="); i > 0 {
		return s[:i]
	}
	return ""
}
