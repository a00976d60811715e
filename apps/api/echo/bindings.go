package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/school"
	"github.com/trezcool/schooladmin/core/user"
)

const orderingParam = "ordering"

// bindJSON decodes the request body into v, rejecting unknown fields.
func bindJSON(ctx echo.Context, v interface{}) error {
	return core.DecodeStrict(ctx.Request().Body, v)
}

// bindID reads the `:id` path param. Malformed ids never match a row.
func bindID(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errHttpNotFound
	}
	return id, nil
}

// queryBinder wraps echo's query params binder with the param kinds our filters use.
type queryBinder struct {
	*echo.ValueBinder
}

func newQueryBinder(ctx echo.Context) queryBinder {
	return queryBinder{echo.QueryParamsBinder(ctx)}
}

// date binds a YYYY-MM-DD param; dest stays nil when the param is absent.
func (b queryBinder) date(param string, dest **core.Date) queryBinder {
	b.CustomFunc(param, func(values []string) []error {
		t, err := time.Parse(time.DateOnly, values[0])
		if err != nil {
			return []error{echo.NewBindingError(param, values[0:1], "invalid value", err)}
		}
		d := core.Date(t)
		*dest = &d
		return nil
	})
	return b
}

// optBool binds a boolean param; dest stays nil when the param is absent.
func (b queryBinder) optBool(param string, dest **bool) queryBinder {
	b.CustomFunc(param, func(values []string) []error {
		v, err := strconv.ParseBool(values[0])
		if err != nil {
			return []error{echo.NewBindingError(param, values[0:1], "invalid value", err)}
		}
		*dest = &v
		return nil
	})
	return b
}

func (b queryBinder) ordering(dest *[]core.DBOrdering) queryBinder {
	b.CustomFunc(orderingParam, func(values []string) []error {
		*dest = core.ParseOrdering(values[0])
		return nil
	})
	return b
}

func (b queryBinder) page(dest *core.PageRequest) queryBinder {
	b.Int("page", &dest.Page).Int("page_size", &dest.PageSize)
	return b
}

// bindErr converts the first binding failure into a *core.ValidationError.
func (b queryBinder) bindErr() error {
	err := b.BindError()
	if err == nil {
		return nil
	}
	var bErr *echo.BindingError
	if errors.As(err, &bErr) {
		return core.NewValidationError(nil, core.FieldError{Field: bErr.Field, Error: "invalid value"})
	}
	return core.NewValidationError(errors.Wrap(err, "binding query params"))
}

// filter binders

func bindUserFilter(b queryBinder, f *user.QueryFilter) {
	b.String("search", &f.Search).String("role", (*string)(&f.Role))
	b.optBool("is_active", &f.IsActive).ordering(&f.Ordering)
}

func bindClassFilter(b queryBinder, f *school.ClassFilter) {
	b.String("search", &f.Search)
	b.optBool("is_active", &f.IsActive).ordering(&f.Ordering)
}

func bindSectionFilter(b queryBinder, f *school.SectionFilter) {
	b.Int64("class_id", &f.ClassID).Int64("class_teacher_id", &f.ClassTeacherID)
	b.ordering(&f.Ordering)
}

func bindSubjectFilter(b queryBinder, f *school.SubjectFilter) {
	b.String("search", &f.Search).String("type", &f.Type)
	b.optBool("is_active", &f.IsActive).ordering(&f.Ordering)
}

func bindClassSubjectFilter(b queryBinder, f *school.ClassSubjectFilter) {
	b.Int64("class_id", &f.ClassID).Int64("subject_id", &f.SubjectID)
	b.ordering(&f.Ordering)
}

func bindTeacherFilter(b queryBinder, f *school.TeacherFilter) {
	b.String("search", &f.Search).String("department", &f.Department).String("status", (*string)(&f.Status))
	b.ordering(&f.Ordering)
}

func bindTeacherSubjectFilter(b queryBinder, f *school.TeacherSubjectFilter) {
	b.Int64("teacher_id", &f.TeacherID).Int64("subject_id", &f.SubjectID).Int64("class_id", &f.ClassID)
	b.ordering(&f.Ordering)
}

func bindStudentFilter(b queryBinder, f *school.StudentFilter) {
	b.String("search", &f.Search).Int64("class_id", &f.ClassID).Int64("section_id", &f.SectionID).
		String("status", (*string)(&f.Status))
	b.ordering(&f.Ordering)
}

func bindParentFilter(b queryBinder, f *school.ParentFilter) {
	b.String("search", &f.Search)
	b.ordering(&f.Ordering)
}

func bindStudentParentFilter(b queryBinder, f *school.StudentParentFilter) {
	b.Int64("student_id", &f.StudentID).Int64("parent_id", &f.ParentID)
	b.optBool("is_primary_contact", &f.IsPrimaryContact).ordering(&f.Ordering)
}

func bindAttendanceFilter(b queryBinder, f *school.AttendanceFilter) {
	b.Int64("owner_id", &f.OwnerID).Int64("class_id", &f.ClassID).Int64("section_id", &f.SectionID).
		String("status", &f.Status)
	b.date("from", &f.From).date("to", &f.To).ordering(&f.Ordering)
}

func bindExamFilter(b queryBinder, f *school.ExamFilter) {
	b.Int64("class_id", &f.ClassID).Int64("subject_id", &f.SubjectID).String("status", (*string)(&f.Status))
	b.date("from", &f.From).date("to", &f.To).ordering(&f.Ordering)
}

func bindExamResultFilter(b queryBinder, f *school.ExamResultFilter) {
	b.Int64("exam_id", &f.ExamID).Int64("student_id", &f.StudentID).String("status", (*string)(&f.Status))
	b.ordering(&f.Ordering)
}

func bindFeeFilter(b queryBinder, f *school.FeeFilter) {
	b.Int64("class_id", &f.ClassID)
	b.optBool("is_active", &f.IsActive).ordering(&f.Ordering)
}

func bindFeePaymentFilter(b queryBinder, f *school.FeePaymentFilter) {
	b.Int64("student_id", &f.StudentID).Int64("fee_id", &f.FeeID).String("status", (*string)(&f.Status))
	b.date("from", &f.From).date("to", &f.To).ordering(&f.Ordering)
}

func bindAssignmentFilter(b queryBinder, f *school.AssignmentFilter) {
	b.Int64("class_id", &f.ClassID).Int64("section_id", &f.SectionID).Int64("subject_id", &f.SubjectID).
		Int64("teacher_id", &f.TeacherID).String("status", (*string)(&f.Status))
	b.date("due_before", &f.DueBefore).ordering(&f.Ordering)
}

func bindAnnouncementFilter(b queryBinder, f *school.AnnouncementFilter) {
	b.String("audience", (*string)(&f.Audience)).Int64("class_id", &f.ClassID).String("priority", (*string)(&f.Priority))
	b.date("active_on", &f.ActiveOn).ordering(&f.Ordering)
}

func bindTimetableFilter(b queryBinder, f *school.TimetableFilter) {
	b.Int64("class_id", &f.ClassID).Int64("section_id", &f.SectionID).Int64("teacher_id", &f.TeacherID).
		String("day_of_week", (*string)(&f.DayOfWeek))
	b.ordering(&f.Ordering)
}

func bindEmployeeFilter(b queryBinder, f *school.EmployeeFilter) {
	b.String("search", &f.Search).String("department", &f.Department)
	b.ordering(&f.Ordering)
}
