// Package testutil prepares databases and fixtures for the package tests.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"gorm.io/datatypes"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/school"
	"github.com/trezcool/schooladmin/core/user"
	logsvc "github.com/trezcool/schooladmin/services/logger"
	"github.com/trezcool/schooladmin/storage/database"
	sqlxrepos "github.com/trezcool/schooladmin/storage/database/sqlx"
)

var seq atomic.Int64

// Seq returns a process-wide unique number, for unique fixture values.
func Seq() int64 {
	return seq.Add(1)
}

// NewValidator returns a validator with every domain validator registered.
func NewValidator() *core.Validator {
	v := core.NewValidator()
	user.InitValidators(v)
	school.InitValidators(v)
	return v
}

// PrepareDB opens a migrated SQLite database in a temporary directory. It is closed when the test ends.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err = database.Migrate(ctx, db); err != nil {
		t.Fatalf("PrepareDB() failed to migrate: %v", err)
	}
	return db
}

// NewStore returns a store on a fresh database, paginating by pageSize when given.
func NewStore(t *testing.T, pageSize ...int) *sqlxrepos.Store {
	t.Helper()
	var opts []sqlxrepos.StoreOption
	if len(pageSize) > 0 {
		opts = append(opts, sqlxrepos.WithPagination(core.PaginationConfig{PageSize: pageSize[0]}))
	}
	return sqlxrepos.NewStore(PrepareDB(t), NewValidator(), logsvc.NewNopLogger(), opts...)
}

func must[T any](t *testing.T, name string, v T, err error) T {
	t.Helper()
	if err != nil {
		t.Fatalf("%s() failed: %v", name, err)
	}
	return v
}

func CreateUser(t *testing.T, repo user.Repository, name, email, pwd string, role user.Role) user.User {
	t.Helper()
	usr := user.User{Name: name, Email: email, Role: role, IsActive: true}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	return must(t, "CreateUser", usr, err)
}

func CreateClass(t *testing.T, repos school.Repositories, name string) school.SchoolClass {
	t.Helper()
	cls, err := repos.Classes.Create(context.Background(), school.NewSchoolClass{Name: name})
	return must(t, "CreateClass", cls, err)
}

func CreateSection(t *testing.T, repos school.Repositories, classID int64, name string) school.Section {
	t.Helper()
	sec, err := repos.Sections.Create(context.Background(), school.NewSection{ClassID: classID, Name: name})
	return must(t, "CreateSection", sec, err)
}

func CreateSubject(t *testing.T, repos school.Repositories, name string) school.Subject {
	t.Helper()
	sub, err := repos.Subjects.Create(context.Background(), school.NewSubject{
		Name: name,
		Code: fmt.Sprintf("SUB-%d", Seq()),
	})
	return must(t, "CreateSubject", sub, err)
}

func CreateTeacher(t *testing.T, repos school.Repositories, firstname, lastname string) school.Teacher {
	t.Helper()
	tch, err := repos.Teachers.Create(context.Background(), school.NewTeacher{
		EmployeeID: fmt.Sprintf("EMP-%d", Seq()),
		Firstname:  firstname,
		Lastname:   lastname,
	})
	return must(t, "CreateTeacher", tch, err)
}

// CreateStudent creates a student in the given class and section; zero ids leave them unset.
func CreateStudent(t *testing.T, repos school.Repositories, name string, classID, sectionID int64) school.Student {
	t.Helper()
	st, err := repos.Students.Create(context.Background(), school.NewStudent{
		AdmissionNumber: fmt.Sprintf("ADM-%d", Seq()),
		Name:            name,
		ClassID:         null.NewInt64(classID, classID != 0),
		SectionID:       null.NewInt64(sectionID, sectionID != 0),
	})
	return must(t, "CreateStudent", st, err)
}

func CreateExam(t *testing.T, repos school.Repositories, classID, subjectID int64) school.Exam {
	t.Helper()
	exam, err := repos.Exams.Create(context.Background(), school.NewExam{
		Name:      "Mid term",
		ExamCode:  fmt.Sprintf("EX-%d", Seq()),
		ClassID:   classID,
		SubjectID: subjectID,
		ExamDate:  school.NewDate(2025, time.March, 3),
		StartTime: datatypes.NewTime(9, 0, 0, 0),
		EndTime:   datatypes.NewTime(11, 0, 0, 0),
	})
	return must(t, "CreateExam", exam, err)
}

func CreateFee(t *testing.T, repos school.Repositories, classID int64, amount string) school.Fee {
	t.Helper()
	fee, err := repos.Fees.Create(context.Background(), school.NewFee{
		ClassID: classID,
		FeeType: "Tuition",
		Amount:  decimal.RequireFromString(amount),
	})
	return must(t, "CreateFee", fee, err)
}
