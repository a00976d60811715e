package school

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/user"
)

// Queries are cross-entity reads. A missing root entity is reported as a *core.NotFoundError;
// missing optional relations are nil and missing collections are empty.
type Queries interface {
	StudentProfile(ctx context.Context, studentID int64) (StudentProfile, error)
	StudentHistory(ctx context.Context, studentID int64, from, to core.Date) (StudentHistory, error)
	ClassOverview(ctx context.Context, classID int64) (ClassOverview, error)
	TeacherProfile(ctx context.Context, teacherID int64) (TeacherProfile, error)
}

// StudentGuardian is a parent as seen from one of their students.
type StudentGuardian struct {
	Parent           ParentModel `json:"parent"`
	Relationship     string      `json:"relationship"`
	IsPrimaryContact bool        `json:"is_primary_contact"`
}

type StudentProfile struct {
	Student        Student            `json:"student"`
	Class          *SchoolClass       `json:"class"`
	Section        *Section           `json:"section"`
	User           *user.User         `json:"user"`
	Parents        []StudentGuardian  `json:"parents"`
	LastAttendance *StudentAttendance `json:"last_attendance"`
	ExamResults    []ExamResult       `json:"exam_results"`
	FeePayments    []FeePayment       `json:"fee_payments"`
}

// PrimaryContact returns the guardian flagged as primary contact, if any.
func (p StudentProfile) PrimaryContact() *StudentGuardian {
	for i := range p.Parents {
		if p.Parents[i].IsPrimaryContact {
			return &p.Parents[i]
		}
	}
	return nil
}

// AttendanceSummary counts attendance records per status.
type AttendanceSummary map[StudentAttendanceStatus]int

// Total is the number of recorded days.
func (s AttendanceSummary) Total() int {
	var n int
	for _, c := range s {
		n += c
	}
	return n
}

// Attended is the number of days the student was in class.
func (s AttendanceSummary) Attended() int {
	var n int
	for status, c := range s {
		if status.Counts() {
			n += c
		}
	}
	return n
}

type StudentHistory struct {
	Student     Student             `json:"student"`
	From        core.Date           `json:"from"`
	To          core.Date           `json:"to"`
	Attendances []StudentAttendance `json:"attendances"`
	Summary     AttendanceSummary   `json:"summary"`
	FeePayments []FeePayment        `json:"fee_payments"`
	TotalPaid   decimal.Decimal     `json:"total_paid"` // paid and partial payments only
}

// SumSettled adds up the amounts of the payments whose status counts as paid.
func SumSettled(payments []FeePayment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p.Status.Settled() {
			total = total.Add(p.AmountPaid)
		}
	}
	return total
}

type ClassOverview struct {
	Class        SchoolClass `json:"class"`
	Sections     []Section   `json:"sections"`
	Subjects     []Subject   `json:"subjects"`
	Fees         []Fee       `json:"fees"`
	Exams        []Exam      `json:"exams"`
	StudentCount int         `json:"student_count"`
}

// TeachingAssignment is a subject taught by a teacher with its optional class and section scope.
type TeachingAssignment struct {
	TeacherSubject
	Subject Subject `json:"subject"`
}

type TeacherProfile struct {
	Teacher        Teacher              `json:"teacher"`
	User           *user.User           `json:"user"`
	Subjects       []TeachingAssignment `json:"subjects"`
	ClassSections  []Section            `json:"class_sections"` // sections where they are class teacher
	LastAttendance *TeacherAttendance   `json:"last_attendance"`
	Timetable      []Timetable          `json:"timetable"`
}
