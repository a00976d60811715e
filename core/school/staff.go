package school

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"gorm.io/datatypes"

	"github.com/trezcool/schooladmin/core"
)

type Teacher struct {
	ID            int64               `db:"id" json:"id"`
	UserID        null.Int64          `db:"user_id" json:"user_id"`
	EmployeeID    string              `db:"employee_id" json:"employee_id"`
	Firstname     string              `db:"firstname" json:"firstname"`
	Lastname      string              `db:"lastname" json:"lastname"`
	Email         null.String         `db:"email" json:"email"`
	Phone         null.String         `db:"phone" json:"phone"`
	Qualification null.String         `db:"qualification" json:"qualification"`
	Designation   null.String         `db:"designation" json:"designation"`
	Department    null.String         `db:"department" json:"department"`
	DateOfJoining *core.Date          `db:"date_of_joining" json:"date_of_joining"`
	Salary        decimal.NullDecimal `db:"salary" json:"salary"`
	Address       null.String         `db:"address" json:"address"`
	ProfileImage  null.String         `db:"profile_image" json:"profile_image"`
	Status        TeacherStatus       `db:"status" json:"status"`
	Timestamps
}

func (t Teacher) FullName() string {
	return strings.TrimSpace(t.Firstname + " " + t.Lastname)
}

type NewTeacher struct {
	UserID        null.Int64          `json:"user_id"`
	EmployeeID    string              `json:"employee_id" validate:"required,max=50"`
	Firstname     string              `json:"firstname" validate:"required,max=255"`
	Lastname      string              `json:"lastname" validate:"required,max=255"`
	Email         null.String         `json:"email" validate:"omitempty,email,max=255"`
	Phone         null.String         `json:"phone" validate:"omitempty,max=50"`
	Qualification null.String         `json:"qualification" validate:"omitempty,max=255"`
	Designation   null.String         `json:"designation" validate:"omitempty,max=255"`
	Department    null.String         `json:"department" validate:"omitempty,max=255"`
	DateOfJoining *core.Date          `json:"date_of_joining"`
	Salary        decimal.NullDecimal `json:"salary" validate:"omitempty,udecimal=10_2"`
	Address       null.String         `json:"address"`
	ProfileImage  null.String         `json:"profile_image" validate:"omitempty,max=255"` // stored upload path
	Status        TeacherStatus       `json:"status" validate:"required,enum"`            // defaults to active
}

func (in *NewTeacher) Clean() {
	in.EmployeeID = core.CleanString(in.EmployeeID)
	in.Firstname = core.CleanString(in.Firstname)
	in.Lastname = core.CleanString(in.Lastname)
	in.DateOfJoining = cleanDatePtr(in.DateOfJoining)
	if in.Status == "" {
		in.Status = TeacherActive
	}
}

type UpdateTeacher struct {
	UserID        core.Optional[null.Int64]          `json:"user_id"`
	EmployeeID    *string                            `json:"employee_id"`
	Firstname     *string                            `json:"firstname"`
	Lastname      *string                            `json:"lastname"`
	Email         core.Optional[null.String]         `json:"email"`
	Phone         core.Optional[null.String]         `json:"phone"`
	Qualification core.Optional[null.String]         `json:"qualification"`
	Designation   core.Optional[null.String]         `json:"designation"`
	Department    core.Optional[null.String]         `json:"department"`
	DateOfJoining core.Optional[*core.Date]          `json:"date_of_joining"`
	Salary        core.Optional[decimal.NullDecimal] `json:"salary"`
	Address       core.Optional[null.String]         `json:"address"`
	ProfileImage  core.Optional[null.String]         `json:"profile_image"`
	Status        *TeacherStatus                     `json:"status"`
}

func (u UpdateTeacher) Apply(t Teacher) NewTeacher {
	return NewTeacher{
		UserID:        u.UserID.Or(t.UserID),
		EmployeeID:    or(u.EmployeeID, t.EmployeeID),
		Firstname:     or(u.Firstname, t.Firstname),
		Lastname:      or(u.Lastname, t.Lastname),
		Email:         u.Email.Or(t.Email),
		Phone:         u.Phone.Or(t.Phone),
		Qualification: u.Qualification.Or(t.Qualification),
		Designation:   u.Designation.Or(t.Designation),
		Department:    u.Department.Or(t.Department),
		DateOfJoining: u.DateOfJoining.Or(t.DateOfJoining),
		Salary:        u.Salary.Or(t.Salary),
		Address:       u.Address.Or(t.Address),
		ProfileImage:  u.ProfileImage.Or(t.ProfileImage),
		Status:        or(u.Status, t.Status),
	}
}

type TeacherFilter struct {
	Search     string        `query:"search"` // firstname, lastname, employee_id or email
	Department string        `query:"department"`
	Status     TeacherStatus `query:"status"`
	Ordering   []core.DBOrdering
}

// TeacherSubject is the teacher_subject join entity: a subject taught by a teacher,
// optionally scoped to a class and a section.
type TeacherSubject struct {
	ID        int64      `db:"id" json:"id"`
	TeacherID int64      `db:"teacher_id" json:"teacher_id"`
	SubjectID int64      `db:"subject_id" json:"subject_id"`
	ClassID   null.Int64 `db:"class_id" json:"class_id"`
	SectionID null.Int64 `db:"section_id" json:"section_id"`
	Timestamps
}

type NewTeacherSubject struct {
	TeacherID int64      `json:"teacher_id" validate:"required"`
	SubjectID int64      `json:"subject_id" validate:"required"`
	ClassID   null.Int64 `json:"class_id"`
	SectionID null.Int64 `json:"section_id"`
}

type UpdateTeacherSubject struct {
	TeacherID *int64                    `json:"teacher_id"`
	SubjectID *int64                    `json:"subject_id"`
	ClassID   core.Optional[null.Int64] `json:"class_id"`
	SectionID core.Optional[null.Int64] `json:"section_id"`
}

func (u UpdateTeacherSubject) Apply(ts TeacherSubject) NewTeacherSubject {
	return NewTeacherSubject{
		TeacherID: or(u.TeacherID, ts.TeacherID),
		SubjectID: or(u.SubjectID, ts.SubjectID),
		ClassID:   u.ClassID.Or(ts.ClassID),
		SectionID: u.SectionID.Or(ts.SectionID),
	}
}

type TeacherSubjectFilter struct {
	TeacherID int64 `query:"teacher_id"`
	SubjectID int64 `query:"subject_id"`
	ClassID   int64 `query:"class_id"`
	Ordering  []core.DBOrdering
}

type TeacherAttendance struct {
	ID        int64                   `db:"id" json:"id"`
	TeacherID int64                   `db:"teacher_id" json:"teacher_id"`
	Date      core.Date               `db:"date" json:"date"`
	Status    TeacherAttendanceStatus `db:"status" json:"status"`
	CheckIn   *datatypes.Time         `db:"check_in" json:"check_in"`
	CheckOut  *datatypes.Time         `db:"check_out" json:"check_out"`
	Remarks   null.String             `db:"remarks" json:"remarks"`
	Timestamps
}

type NewTeacherAttendance struct {
	TeacherID int64                   `json:"teacher_id" validate:"required"`
	Date      core.Date               `json:"date" validate:"required"`
	Status    TeacherAttendanceStatus `json:"status" validate:"required,enum"` // defaults to present
	CheckIn   *datatypes.Time         `json:"check_in"`
	CheckOut  *datatypes.Time         `json:"check_out"`
	Remarks   null.String             `json:"remarks"`
}

func (in *NewTeacherAttendance) Clean() {
	in.Date = cleanDate(in.Date)
	if in.Status == "" {
		in.Status = TeacherPresent
	}
}

type UpdateTeacherAttendance struct {
	TeacherID *int64                         `json:"teacher_id"`
	Date      *core.Date                     `json:"date"`
	Status    *TeacherAttendanceStatus       `json:"status"`
	CheckIn   core.Optional[*datatypes.Time] `json:"check_in"`
	CheckOut  core.Optional[*datatypes.Time] `json:"check_out"`
	Remarks   core.Optional[null.String]     `json:"remarks"`
}

func (u UpdateTeacherAttendance) Apply(a TeacherAttendance) NewTeacherAttendance {
	return NewTeacherAttendance{
		TeacherID: or(u.TeacherID, a.TeacherID),
		Date:      or(u.Date, a.Date),
		Status:    or(u.Status, a.Status),
		CheckIn:   u.CheckIn.Or(a.CheckIn),
		CheckOut:  u.CheckOut.Or(a.CheckOut),
		Remarks:   u.Remarks.Or(a.Remarks),
	}
}

// AttendanceFilter filters both student and teacher attendances.
// OwnerID is the student id or the teacher id respectively.
type AttendanceFilter struct {
	OwnerID   int64      `query:"owner_id"`
	ClassID   int64      `query:"class_id"`   // student attendances only
	SectionID int64      `query:"section_id"` // student attendances only
	From      *core.Date `query:"-"`
	To        *core.Date `query:"-"`
	Status    string     `query:"status"`
	Ordering  []core.DBOrdering
}

// Timetable is a weekly recurring lesson slot.
type Timetable struct {
	ID         int64          `db:"id" json:"id"`
	ClassID    int64          `db:"class_id" json:"class_id"`
	SectionID  int64          `db:"section_id" json:"section_id"`
	SubjectID  int64          `db:"subject_id" json:"subject_id"`
	TeacherID  int64          `db:"teacher_id" json:"teacher_id"`
	DayOfWeek  DayOfWeek      `db:"day_of_week" json:"day_of_week"`
	StartTime  datatypes.Time `db:"start_time" json:"start_time"`
	EndTime    datatypes.Time `db:"end_time" json:"end_time"`
	RoomNumber null.String    `db:"room_number" json:"room_number"`
	IsActive   bool           `db:"is_active" json:"is_active"`
	Timestamps
}

type NewTimetable struct {
	ClassID    int64          `json:"class_id" validate:"required"`
	SectionID  int64          `json:"section_id" validate:"required"`
	SubjectID  int64          `json:"subject_id" validate:"required"`
	TeacherID  int64          `json:"teacher_id" validate:"required"`
	DayOfWeek  DayOfWeek      `json:"day_of_week" validate:"required,enum"`
	StartTime  datatypes.Time `json:"start_time"`
	EndTime    datatypes.Time `json:"end_time"`
	RoomNumber null.String    `json:"room_number" validate:"omitempty,max=50"`
	IsActive   *bool          `json:"is_active"` // defaults to true
}

func (in *NewTimetable) Clean() {
	in.DayOfWeek = DayOfWeek(core.CleanString(string(in.DayOfWeek), true /* lower */))
	if in.IsActive == nil {
		in.IsActive = ptr(true)
	}
}

type UpdateTimetable struct {
	ClassID    *int64                     `json:"class_id"`
	SectionID  *int64                     `json:"section_id"`
	SubjectID  *int64                     `json:"subject_id"`
	TeacherID  *int64                     `json:"teacher_id"`
	DayOfWeek  *DayOfWeek                 `json:"day_of_week"`
	StartTime  *datatypes.Time            `json:"start_time"`
	EndTime    *datatypes.Time            `json:"end_time"`
	RoomNumber core.Optional[null.String] `json:"room_number"`
	IsActive   *bool                      `json:"is_active"`
}

func (u UpdateTimetable) Apply(t Timetable) NewTimetable {
	return NewTimetable{
		ClassID:    or(u.ClassID, t.ClassID),
		SectionID:  or(u.SectionID, t.SectionID),
		SubjectID:  or(u.SubjectID, t.SubjectID),
		TeacherID:  or(u.TeacherID, t.TeacherID),
		DayOfWeek:  or(u.DayOfWeek, t.DayOfWeek),
		StartTime:  or(u.StartTime, t.StartTime),
		EndTime:    or(u.EndTime, t.EndTime),
		RoomNumber: u.RoomNumber.Or(t.RoomNumber),
		IsActive:   ptr(or(u.IsActive, t.IsActive)),
	}
}

type TimetableFilter struct {
	ClassID   int64     `query:"class_id"`
	SectionID int64     `query:"section_id"`
	TeacherID int64     `query:"teacher_id"`
	DayOfWeek DayOfWeek `query:"day_of_week"`
	Ordering  []core.DBOrdering
}

// Employee is a staff member as exchanged with spreadsheets.
type Employee struct {
	ID         int64           `db:"id" json:"id"`
	Name       string          `db:"name" json:"name"`
	Email      string          `db:"email" json:"email"`
	Phone      null.String     `db:"phone" json:"phone"`
	Salary     decimal.Decimal `db:"salary" json:"salary"`
	Department null.String     `db:"department" json:"department"`
	Timestamps
}

type NewEmployee struct {
	Name       string          `json:"name" validate:"required,max=255"`
	Email      string          `json:"email" validate:"required,email,max=255"`
	Phone      null.String     `json:"phone" validate:"omitempty,max=50"`
	Salary     decimal.Decimal `json:"salary" validate:"udecimal=10_2"`
	Department null.String     `json:"department" validate:"omitempty,max=255"`
}

func (in *NewEmployee) Clean() {
	in.Name = core.CleanString(in.Name)
	in.Email = core.CleanString(in.Email, true /* lower */)
}

type UpdateEmployee struct {
	Name       *string                    `json:"name"`
	Email      *string                    `json:"email"`
	Phone      core.Optional[null.String] `json:"phone"`
	Salary     *decimal.Decimal           `json:"salary"`
	Department core.Optional[null.String] `json:"department"`
}

func (u UpdateEmployee) Apply(e Employee) NewEmployee {
	return NewEmployee{
		Name:       or(u.Name, e.Name),
		Email:      or(u.Email, e.Email),
		Phone:      u.Phone.Or(e.Phone),
		Salary:     or(u.Salary, e.Salary),
		Department: u.Department.Or(e.Department),
	}
}

type EmployeeFilter struct {
	Search     string `query:"search"` // name or email
	Department string `query:"department"`
	Ordering   []core.DBOrdering
}
