package sqlxrepos

import (
	"context"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/school"
)

type teacherRepository struct {
	crud[school.Teacher, school.NewTeacher, school.UpdateTeacher]
}

var _ school.TeacherRepository = (*teacherRepository)(nil)

func NewTeacherRepository(s *Store) *teacherRepository {
	return &teacherRepository{crud[school.Teacher, school.NewTeacher, school.UpdateTeacher]{
		Store:    s,
		table:    "teachers",
		entity:   school.EntityTeacher,
		sortable: []string{"firstname", "lastname", "employee_id", "date_of_joining", "created_at"},
		row: func(in school.NewTeacher) map[string]interface{} {
			return map[string]interface{}{
				"user_id":         in.UserID,
				"employee_id":     in.EmployeeID,
				"firstname":       in.Firstname,
				"lastname":        in.Lastname,
				"email":           in.Email,
				"phone":           in.Phone,
				"qualification":   in.Qualification,
				"designation":     in.Designation,
				"department":      in.Department,
				"date_of_joining": in.DateOfJoining,
				"salary":          in.Salary,
				"address":         in.Address,
				"profile_image":   in.ProfileImage,
				"status":          string(in.Status),
			}
		},
		refs: func(in school.NewTeacher) []fkRef {
			return []fkRef{nullRef("user_id", school.EntityUser, "users", in.UserID)}
		},
		merge: school.UpdateTeacher.Apply,
	}}
}

func (repo *teacherRepository) List(ctx context.Context, filter school.TeacherFilter, page core.PageRequest) (core.Page[school.Teacher], error) {
	var conds []sq.Sqlizer
	if filter.Search != "" {
		conds = append(conds, repo.search(filter.Search, "firstname", "lastname", "employee_id", "email"))
	}
	if filter.Department != "" {
		conds = append(conds, sq.Eq{"department": filter.Department})
	}
	if filter.Status != "" {
		if !filter.Status.IsValid() {
			return core.Page[school.Teacher]{}, invalidFilter("status", filter.Status)
		}
		conds = append(conds, sq.Eq{"status": string(filter.Status)})
	}
	return repo.list(ctx, conds, filter.Ordering, page)
}

type teacherSubjectRepository struct {
	crud[school.TeacherSubject, school.NewTeacherSubject, school.UpdateTeacherSubject]
}

var _ school.TeacherSubjectRepository = (*teacherSubjectRepository)(nil)

func NewTeacherSubjectRepository(s *Store) *teacherSubjectRepository {
	return &teacherSubjectRepository{crud[school.TeacherSubject, school.NewTeacherSubject, school.UpdateTeacherSubject]{
		Store:    s,
		table:    "teacher_subject",
		entity:   school.EntityTeacherSubject,
		sortable: []string{"teacher_id", "subject_id", "created_at"},
		row: func(in school.NewTeacherSubject) map[string]interface{} {
			return map[string]interface{}{
				"teacher_id": in.TeacherID,
				"subject_id": in.SubjectID,
				"class_id":   in.ClassID,
				"section_id": in.SectionID,
			}
		},
		refs: func(in school.NewTeacherSubject) []fkRef {
			return []fkRef{
				ref("teacher_id", school.EntityTeacher, "teachers", in.TeacherID),
				ref("subject_id", school.EntitySubject, "subjects", in.SubjectID),
				nullRef("class_id", school.EntityClass, "classes", in.ClassID),
				nullRef("section_id", school.EntitySection, "sections", in.SectionID),
			}
		},
		merge: school.UpdateTeacherSubject.Apply,
	}}
}

func (repo *teacherSubjectRepository) List(ctx context.Context, filter school.TeacherSubjectFilter, page core.PageRequest) (core.Page[school.TeacherSubject], error) {
	var conds []sq.Sqlizer
	if filter.TeacherID != 0 {
		conds = append(conds, sq.Eq{"teacher_id": filter.TeacherID})
	}
	if filter.SubjectID != 0 {
		conds = append(conds, sq.Eq{"subject_id": filter.SubjectID})
	}
	if filter.ClassID != 0 {
		conds = append(conds, sq.Eq{"class_id": filter.ClassID})
	}
	return repo.list(ctx, conds, filter.Ordering, page)
}

type teacherAttendanceRepository struct {
	crud[school.TeacherAttendance, school.NewTeacherAttendance, school.UpdateTeacherAttendance]
}

var _ school.TeacherAttendanceRepository = (*teacherAttendanceRepository)(nil)

func NewTeacherAttendanceRepository(s *Store) *teacherAttendanceRepository {
	return &teacherAttendanceRepository{crud[school.TeacherAttendance, school.NewTeacherAttendance, school.UpdateTeacherAttendance]{
		Store:    s,
		table:    "teacher_attendances",
		entity:   school.EntityTeacherAttendance,
		sortable: []string{"date", "teacher_id", "status", "created_at"},
		row: func(in school.NewTeacherAttendance) map[string]interface{} {
			return map[string]interface{}{
				"teacher_id": in.TeacherID,
				"date":       in.Date,
				"status":     string(in.Status),
				"check_in":   in.CheckIn,
				"check_out":  in.CheckOut,
				"remarks":    in.Remarks,
			}
		},
		refs: func(in school.NewTeacherAttendance) []fkRef {
			return []fkRef{ref("teacher_id", school.EntityTeacher, "teachers", in.TeacherID)}
		},
		merge: school.UpdateTeacherAttendance.Apply,
	}}
}

func (repo *teacherAttendanceRepository) List(ctx context.Context, filter school.AttendanceFilter, page core.PageRequest) (core.Page[school.TeacherAttendance], error) {
	conds := dateRange("date", filter.From, filter.To)
	if filter.OwnerID != 0 {
		conds = append(conds, sq.Eq{"teacher_id": filter.OwnerID})
	}
	if filter.Status != "" {
		if !school.TeacherAttendanceStatus(filter.Status).IsValid() {
			return core.Page[school.TeacherAttendance]{}, invalidFilter("status", school.TeacherAttendanceStatus(filter.Status))
		}
		conds = append(conds, sq.Eq{"status": string(filter.Status)})
	}
	return repo.list(ctx, conds, filter.Ordering, page)
}

type timetableRepository struct {
	crud[school.Timetable, school.NewTimetable, school.UpdateTimetable]
}

var _ school.TimetableRepository = (*timetableRepository)(nil)

func NewTimetableRepository(s *Store) *timetableRepository {
	return &timetableRepository{crud[school.Timetable, school.NewTimetable, school.UpdateTimetable]{
		Store:    s,
		table:    "timetables",
		entity:   school.EntityTimetable,
		sortable: []string{"day_of_week", "start_time", "created_at"},
		row: func(in school.NewTimetable) map[string]interface{} {
			return map[string]interface{}{
				"class_id":    in.ClassID,
				"section_id":  in.SectionID,
				"subject_id":  in.SubjectID,
				"teacher_id":  in.TeacherID,
				"day_of_week": string(in.DayOfWeek),
				"start_time":  in.StartTime,
				"end_time":    in.EndTime,
				"room_number": in.RoomNumber,
				"is_active":   *in.IsActive,
			}
		},
		refs: func(in school.NewTimetable) []fkRef {
			return []fkRef{
				ref("class_id", school.EntityClass, "classes", in.ClassID),
				ref("section_id", school.EntitySection, "sections", in.SectionID),
				ref("subject_id", school.EntitySubject, "subjects", in.SubjectID),
				ref("teacher_id", school.EntityTeacher, "teachers", in.TeacherID),
			}
		},
		merge: school.UpdateTimetable.Apply,
	}}
}

func (repo *timetableRepository) List(ctx context.Context, filter school.TimetableFilter, page core.PageRequest) (core.Page[school.Timetable], error) {
	var conds []sq.Sqlizer
	if filter.ClassID != 0 {
		conds = append(conds, sq.Eq{"class_id": filter.ClassID})
	}
	if filter.SectionID != 0 {
		conds = append(conds, sq.Eq{"section_id": filter.SectionID})
	}
	if filter.TeacherID != 0 {
		conds = append(conds, sq.Eq{"teacher_id": filter.TeacherID})
	}
	if filter.DayOfWeek != "" {
		if !filter.DayOfWeek.IsValid() {
			return core.Page[school.Timetable]{}, invalidFilter("day_of_week", filter.DayOfWeek)
		}
		conds = append(conds, sq.Eq{"day_of_week": string(filter.DayOfWeek)})
	}
	return repo.list(ctx, conds, filter.Ordering, page)
}

type employeeRepository struct {
	crud[school.Employee, school.NewEmployee, school.UpdateEmployee]
}

var _ school.EmployeeRepository = (*employeeRepository)(nil)

func NewEmployeeRepository(s *Store) *employeeRepository {
	return &employeeRepository{crud[school.Employee, school.NewEmployee, school.UpdateEmployee]{
		Store:    s,
		table:    "employees",
		entity:   school.EntityEmployee,
		sortable: []string{"name", "email", "department", "salary", "created_at"},
		row: func(in school.NewEmployee) map[string]interface{} {
			return map[string]interface{}{
				"name":       in.Name,
				"email":      in.Email,
				"phone":      in.Phone,
				"salary":     in.Salary,
				"department": in.Department,
			}
		},
		merge: school.UpdateEmployee.Apply,
	}}
}

func (repo *employeeRepository) List(ctx context.Context, filter school.EmployeeFilter, page core.PageRequest) (core.Page[school.Employee], error) {
	var conds []sq.Sqlizer
	if filter.Search != "" {
		conds = append(conds, repo.search(filter.Search, "name", "email"))
	}
	if filter.Department != "" {
		conds = append(conds, sq.Eq{"department": filter.Department})
	}
	return repo.list(ctx, conds, filter.Ordering, page)
}

// dateRange keeps rows whose col falls within [from, to]; nil bounds are open.
func dateRange(col string, from, to *core.Date) []sq.Sqlizer {
	var conds []sq.Sqlizer
	if from != nil {
		conds = append(conds, sq.GtOrEq{col: day(*from)})
	}
	if to != nil {
		conds = append(conds, sq.LtOrEq{col: day(*to)})
	}
	return conds
}

// day normalises d the way dates are stored: midnight UTC.
func day(d core.Date) core.Date {
	return core.Date(core.TruncateDay(time.Time(d)))
}

func invalidFilter(field string, e core.Enum) error {
	return core.NewValidationError(nil, core.FieldError{Field: field, Error: "must be one of: " + strings.Join(e.Values(), ", ")})
}
