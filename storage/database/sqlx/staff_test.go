package sqlxrepos_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"gorm.io/datatypes"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/school"
	testutil "github.com/trezcool/schooladmin/tests"
)

func TestTeacherSubjectRepository_Uniqueness(t *testing.T) {
	_, repos := setup(t)
	ctx := context.Background()
	cls := testutil.CreateClass(t, repos, "Grade 5")
	sec := testutil.CreateSection(t, repos, cls.ID, "A")
	sub := testutil.CreateSubject(t, repos, "Maths")
	tch := testutil.CreateTeacher(t, repos, "Ada", "Lovelace")

	tests := []struct {
		name    string
		in      school.NewTeacherSubject
		wantDup bool
	}{
		{"unscoped", school.NewTeacherSubject{TeacherID: tch.ID, SubjectID: sub.ID}, false},
		{"unscoped again", school.NewTeacherSubject{TeacherID: tch.ID, SubjectID: sub.ID}, true},
		{"class", school.NewTeacherSubject{TeacherID: tch.ID, SubjectID: sub.ID, ClassID: null.Int64From(cls.ID)}, false},
		{"class again", school.NewTeacherSubject{TeacherID: tch.ID, SubjectID: sub.ID, ClassID: null.Int64From(cls.ID)}, true},
		{"section", school.NewTeacherSubject{TeacherID: tch.ID, SubjectID: sub.ID, ClassID: null.Int64From(cls.ID), SectionID: null.Int64From(sec.ID)}, false},
		{"section again", school.NewTeacherSubject{TeacherID: tch.ID, SubjectID: sub.ID, ClassID: null.Int64From(cls.ID), SectionID: null.Int64From(sec.ID)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repos.TeacherSubjects.Create(ctx, tt.in)
			if tt.wantDup {
				var uErr *core.UniquenessConflictError
				require.ErrorAs(t, err, &uErr)
				assert.Equal(t, school.EntityTeacherSubject, uErr.Entity)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestUniqueness(t *testing.T) {
	_, repos := setup(t)
	ctx := context.Background()
	cls := testutil.CreateClass(t, repos, "Grade 5")
	sub := testutil.CreateSubject(t, repos, "Maths")
	tch := testutil.CreateTeacher(t, repos, "Ada", "Lovelace")
	exam := testutil.CreateExam(t, repos, cls.ID, sub.ID)

	tests := []struct {
		name   string
		create func() error
	}{
		{"subject code", func() error {
			_, err := repos.Subjects.Create(ctx, school.NewSubject{Name: "Algebra", Code: sub.Code})
			return err
		}},
		{"teacher employee_id", func() error {
			_, err := repos.Teachers.Create(ctx, school.NewTeacher{EmployeeID: tch.EmployeeID, Firstname: "Alan", Lastname: "Turing"})
			return err
		}},
		{"exam code", func() error {
			_, err := repos.Exams.Create(ctx, school.NewExam{
				Name: "Other", ExamCode: exam.ExamCode, ClassID: cls.ID, SubjectID: sub.ID,
				ExamDate: exam.ExamDate, StartTime: exam.StartTime, EndTime: exam.EndTime,
			})
			return err
		}},
		{"class subject", func() error {
			if _, err := repos.ClassSubjects.Create(ctx, school.NewClassSubject{ClassID: cls.ID, SubjectID: sub.ID}); err != nil {
				return err
			}
			_, err := repos.ClassSubjects.Create(ctx, school.NewClassSubject{ClassID: cls.ID, SubjectID: sub.ID})
			return err
		}},
		{"teacher attendance day", func() error {
			in := school.NewTeacherAttendance{TeacherID: tch.ID, Date: school.NewDate(2025, time.January, 10), Status: school.TeacherPresent}
			if _, err := repos.TeacherAttendances.Create(ctx, in); err != nil {
				return err
			}
			_, err := repos.TeacherAttendances.Create(ctx, in)
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.create()
			assert.True(t, core.IsUniquenessConflict(err), "err = %v, want uniqueness conflict", err)
		})
	}
}

func TestTeacherAttendanceRepository(t *testing.T) {
	_, repos := setup(t)
	ctx := context.Background()
	tch := testutil.CreateTeacher(t, repos, "Ada", "Lovelace")
	in, out := datatypes.NewTime(7, 45, 0, 0), datatypes.NewTime(15, 30, 0, 0)

	att, err := repos.TeacherAttendances.Create(ctx, school.NewTeacherAttendance{
		TeacherID: tch.ID, Date: school.NewDate(2025, time.January, 10),
		CheckIn: &in, CheckOut: &out,
	})
	require.NoError(t, err)
	assert.Equal(t, school.TeacherPresent, att.Status)
	require.NotNil(t, att.CheckIn)
	assert.Equal(t, in, *att.CheckIn)
	assert.Equal(t, out, *att.CheckOut)

	var upd school.UpdateTeacherAttendance
	require.NoError(t, core.DecodeStrictBytes([]byte(`{"check_out": null, "remarks": "left early"}`), &upd))
	att, err = repos.TeacherAttendances.Update(ctx, att.ID, upd)
	require.NoError(t, err)
	assert.Nil(t, att.CheckOut)
	assert.Equal(t, null.StringFrom("left early"), att.Remarks)

	_, err = repos.TeacherAttendances.Create(ctx, school.NewTeacherAttendance{
		TeacherID: tch.ID, Date: school.NewDate(2025, time.January, 11), Status: school.TeacherLate,
		CheckIn: &out, CheckOut: &in,
	})
	assert.True(t, core.IsValidation(err), "err = %v, want validation error", err)

	page, err := repos.TeacherAttendances.List(ctx, school.AttendanceFilter{OwnerID: tch.ID, Status: "present"}, core.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	_, err = repos.TeacherAttendances.List(ctx, school.AttendanceFilter{Status: "excused"}, core.PageRequest{})
	assert.True(t, core.IsValidation(err), "err = %v, want validation error", err)
}

func TestTimetableRepository(t *testing.T) {
	_, repos := setup(t)
	ctx := context.Background()
	cls := testutil.CreateClass(t, repos, "Grade 5")
	sec := testutil.CreateSection(t, repos, cls.ID, "A")
	sub := testutil.CreateSubject(t, repos, "Maths")
	tch := testutil.CreateTeacher(t, repos, "Ada", "Lovelace")

	slot := func(day school.DayOfWeek, hour int) (school.Timetable, error) {
		return repos.Timetables.Create(ctx, school.NewTimetable{
			ClassID: cls.ID, SectionID: sec.ID, SubjectID: sub.ID, TeacherID: tch.ID,
			DayOfWeek: day,
			StartTime: datatypes.NewTime(hour, 0, 0, 0),
			EndTime:   datatypes.NewTime(hour+1, 0, 0, 0),
		})
	}
	mon, err := slot("Monday", 8)
	require.NoError(t, err)
	assert.Equal(t, school.Monday, mon.DayOfWeek)
	assert.True(t, mon.IsActive)
	_, err = slot(school.Friday, 10)
	require.NoError(t, err)
	_, err = slot("someday", 10)
	assert.True(t, core.IsValidation(err), "err = %v, want validation error", err)

	page, err := repos.Timetables.List(ctx, school.TimetableFilter{DayOfWeek: school.Monday}, core.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, []int64{mon.ID}, ids(page.Items, func(tt school.Timetable) int64 { return tt.ID }))
}

func TestTeacherRepository_List(t *testing.T) {
	_, repos := setup(t)
	ctx := context.Background()
	ada := testutil.CreateTeacher(t, repos, "Ada", "Lovelace")
	alan, err := repos.Teachers.Create(ctx, school.NewTeacher{
		EmployeeID: "T-42", Firstname: "Alan", Lastname: "Turing",
		Department: null.StringFrom("Science"),
		Salary:     decimal.NewNullDecimal(decimal.RequireFromString("2500.50")),
		Status:     school.TeacherOnLeave,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alan Turing", alan.FullName())
	assert.True(t, alan.Salary.Decimal.Equal(decimal.RequireFromString("2500.5")))

	tests := []struct {
		name    string
		filter  school.TeacherFilter
		wantIDs []int64
	}{
		{"newest first", school.TeacherFilter{}, []int64{alan.ID, ada.ID}},
		{"search", school.TeacherFilter{Search: "love"}, []int64{ada.ID}},
		{"employee id", school.TeacherFilter{Search: "t-42"}, []int64{alan.ID}},
		{"department", school.TeacherFilter{Department: "Science"}, []int64{alan.ID}},
		{"status", school.TeacherFilter{Status: school.TeacherActive}, []int64{ada.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repos.Teachers.List(ctx, tt.filter, core.PageRequest{})
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, ids(page.Items, func(tch school.Teacher) int64 { return tch.ID }))
		})
	}
}

func TestEmployeeRepository(t *testing.T) {
	_, repos := setup(t)
	ctx := context.Background()

	emp, err := repos.Employees.Create(ctx, school.NewEmployee{
		Name: "Grace Hopper", Email: "Grace@School.test",
		Salary: decimal.RequireFromString("1999.99"), Department: null.StringFrom("IT"),
	})
	require.NoError(t, err)
	assert.Equal(t, "grace@school.test", emp.Email)

	got, err := repos.Employees.Get(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, emp, got)

	page, err := repos.Employees.List(ctx, school.EmployeeFilter{Department: "IT", Search: "grace"}, core.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	require.NoError(t, repos.Employees.Delete(ctx, emp.ID))
	err = repos.Employees.Delete(ctx, emp.ID)
	assert.True(t, core.IsNotFound(err), "err = %v, want not found", err)
}
