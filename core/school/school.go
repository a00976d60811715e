// Package school holds the school domain: entities, their typed inputs and the repository contracts.
package school

import (
	"context"
	"time"

	"github.com/trezcool/schooladmin/core"
)

// Entity names, as reported in errors.
const (
	EntityClass             = "class"
	EntitySection           = "section"
	EntitySubject           = "subject"
	EntityClassSubject      = "class_subject"
	EntityTeacher           = "teacher"
	EntityTeacherSubject    = "teacher_subject"
	EntityStudent           = "student"
	EntityParent            = "parent"
	EntityStudentParent     = "student_parent"
	EntityStudentAttendance = "student_attendance"
	EntityTeacherAttendance = "teacher_attendance"
	EntityExam              = "exam"
	EntityExamResult        = "exam_result"
	EntityFee               = "fee"
	EntityFeePayment        = "fee_payment"
	EntityAssignment        = "assignment"
	EntityAnnouncement      = "announcement"
	EntityTimetable         = "timetable"
	EntityEmployee          = "employee"
	EntityUser              = "user"
)

// Repository is the CRUD contract every entity exposes.
// T is the entity, N its creation input, U its partial update and F its list filter.
type Repository[T, N, U, F any] interface {
	Create(ctx context.Context, in N) (T, error)
	Get(ctx context.Context, id int64) (T, error)
	List(ctx context.Context, filter F, page core.PageRequest) (core.Page[T], error)
	Update(ctx context.Context, id int64, in U) (T, error)
	Delete(ctx context.Context, id int64) error
}

type (
	ClassRepository             = Repository[SchoolClass, NewSchoolClass, UpdateSchoolClass, ClassFilter]
	SectionRepository           = Repository[Section, NewSection, UpdateSection, SectionFilter]
	SubjectRepository           = Repository[Subject, NewSubject, UpdateSubject, SubjectFilter]
	ClassSubjectRepository      = Repository[ClassSubject, NewClassSubject, UpdateClassSubject, ClassSubjectFilter]
	TeacherRepository           = Repository[Teacher, NewTeacher, UpdateTeacher, TeacherFilter]
	TeacherSubjectRepository    = Repository[TeacherSubject, NewTeacherSubject, UpdateTeacherSubject, TeacherSubjectFilter]
	StudentRepository           = Repository[Student, NewStudent, UpdateStudent, StudentFilter]
	ParentRepository            = Repository[ParentModel, NewParent, UpdateParent, ParentFilter]
	StudentParentRepository     = Repository[StudentParent, NewStudentParent, UpdateStudentParent, StudentParentFilter]
	StudentAttendanceRepository = Repository[StudentAttendance, NewStudentAttendance, UpdateStudentAttendance, AttendanceFilter]
	TeacherAttendanceRepository = Repository[TeacherAttendance, NewTeacherAttendance, UpdateTeacherAttendance, AttendanceFilter]
	ExamRepository              = Repository[Exam, NewExam, UpdateExam, ExamFilter]
	ExamResultRepository        = Repository[ExamResult, NewExamResult, UpdateExamResult, ExamResultFilter]
	FeeRepository               = Repository[Fee, NewFee, UpdateFee, FeeFilter]
	FeePaymentRepository        = Repository[FeePayment, NewFeePayment, UpdateFeePayment, FeePaymentFilter]
	AssignmentRepository        = Repository[Assignment, NewAssignment, UpdateAssignment, AssignmentFilter]
	AnnouncementRepository      = Repository[Announcement, NewAnnouncement, UpdateAnnouncement, AnnouncementFilter]
	TimetableRepository         = Repository[Timetable, NewTimetable, UpdateTimetable, TimetableFilter]
	EmployeeRepository          = Repository[Employee, NewEmployee, UpdateEmployee, EmployeeFilter]
)

// Repositories groups every school repository built on one store.
type Repositories struct {
	Classes            ClassRepository
	Sections           SectionRepository
	Subjects           SubjectRepository
	ClassSubjects      ClassSubjectRepository
	Teachers           TeacherRepository
	TeacherSubjects    TeacherSubjectRepository
	Students           StudentRepository
	Parents            ParentRepository
	StudentParents     StudentParentRepository
	StudentAttendances StudentAttendanceRepository
	TeacherAttendances TeacherAttendanceRepository
	Exams              ExamRepository
	ExamResults        ExamResultRepository
	Fees               FeeRepository
	FeePayments        FeePaymentRepository
	Assignments        AssignmentRepository
	Announcements      AnnouncementRepository
	Timetables         TimetableRepository
	Employees          EmployeeRepository
	Queries            Queries
}

// Timestamps are set by the store; CreatedAt never changes after the insert.
type Timestamps struct {
	CreatedAt time.Time `db:"created_at" json:"created_at"` // UTC
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"` // UTC
}

// NewDate returns the given calendar day as a core.Date at midnight UTC.
func NewDate(year int, month time.Month, day int) core.Date {
	return core.Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// SameDay reports whether both dates fall on the same calendar day.
func SameDay(a, b core.Date) bool {
	ay, am, ad := time.Time(a).Date()
	by, bm, bd := time.Time(b).Date()
	return ay == by && am == bm && ad == bd
}

func cleanDate(d core.Date) core.Date {
	if time.Time(d).IsZero() {
		return d
	}
	return core.Date(core.TruncateDay(time.Time(d)))
}

func cleanDatePtr(d *core.Date) *core.Date {
	if d == nil {
		return nil
	}
	cd := cleanDate(*d)
	return &cd
}

func or[T any](v *T, def T) T {
	if v != nil {
		return *v
	}
	return def
}

func ptr[T any](v T) *T {
	return &v
}
