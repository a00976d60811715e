package school

import "slices"

type (
	Gender                  string
	StudentStatus           string
	TeacherStatus           string
	StudentAttendanceStatus string
	TeacherAttendanceStatus string
	ExamStatus              string
	ExamResultStatus        string
	FeePaymentStatus        string
	AssignmentStatus        string
	TargetAudience          string
	Priority                string
	DayOfWeek               string
)

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"

	StudentActive      StudentStatus = "active"
	StudentInactive    StudentStatus = "inactive"
	StudentGraduated   StudentStatus = "graduated"
	StudentTransferred StudentStatus = "transferred"

	TeacherActive   TeacherStatus = "active"
	TeacherInactive TeacherStatus = "inactive"
	TeacherOnLeave  TeacherStatus = "on_leave"

	StudentPresent   StudentAttendanceStatus = "present"
	StudentAbsent    StudentAttendanceStatus = "absent"
	StudentLate      StudentAttendanceStatus = "late"
	StudentHalfDay   StudentAttendanceStatus = "half_day"
	StudentSickLeave StudentAttendanceStatus = "sick_leave"
	StudentExcused   StudentAttendanceStatus = "excused"

	TeacherPresent   TeacherAttendanceStatus = "present"
	TeacherAbsent    TeacherAttendanceStatus = "absent"
	TeacherLate      TeacherAttendanceStatus = "late"
	TeacherHalfDay   TeacherAttendanceStatus = "half_day"
	TeacherSickLeave TeacherAttendanceStatus = "sick_leave"
	TeacherLeave     TeacherAttendanceStatus = "on_leave"

	ExamScheduled ExamStatus = "scheduled"
	ExamOngoing   ExamStatus = "ongoing"
	ExamCompleted ExamStatus = "completed"
	ExamCancelled ExamStatus = "cancelled"

	ResultPass   ExamResultStatus = "pass"
	ResultFail   ExamResultStatus = "fail"
	ResultAbsent ExamResultStatus = "absent"

	PaymentPaid    FeePaymentStatus = "paid"
	PaymentPending FeePaymentStatus = "pending"
	PaymentPartial FeePaymentStatus = "partial"
	PaymentOverdue FeePaymentStatus = "overdue"

	AssignmentActive    AssignmentStatus = "active"
	AssignmentCompleted AssignmentStatus = "completed"
	AssignmentOverdue   AssignmentStatus = "overdue"
	AssignmentCancelled AssignmentStatus = "cancelled"

	AudienceAll           TargetAudience = "all"
	AudienceStudents      TargetAudience = "students"
	AudienceTeachers      TargetAudience = "teachers"
	AudienceParents       TargetAudience = "parents"
	AudienceSpecificClass TargetAudience = "specific_class"

	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"

	Monday    DayOfWeek = "monday"
	Tuesday   DayOfWeek = "tuesday"
	Wednesday DayOfWeek = "wednesday"
	Thursday  DayOfWeek = "thursday"
	Friday    DayOfWeek = "friday"
	Saturday  DayOfWeek = "saturday"
	Sunday    DayOfWeek = "sunday"
)

var (
	Genders                   = []Gender{GenderMale, GenderFemale, GenderOther}
	StudentStatuses           = []StudentStatus{StudentActive, StudentInactive, StudentGraduated, StudentTransferred}
	TeacherStatuses           = []TeacherStatus{TeacherActive, TeacherInactive, TeacherOnLeave}
	StudentAttendanceStatuses = []StudentAttendanceStatus{StudentPresent, StudentAbsent, StudentLate, StudentHalfDay, StudentSickLeave, StudentExcused}
	TeacherAttendanceStatuses = []TeacherAttendanceStatus{TeacherPresent, TeacherAbsent, TeacherLate, TeacherHalfDay, TeacherSickLeave, TeacherLeave}
	ExamStatuses              = []ExamStatus{ExamScheduled, ExamOngoing, ExamCompleted, ExamCancelled}
	ExamResultStatuses        = []ExamResultStatus{ResultPass, ResultFail, ResultAbsent}
	FeePaymentStatuses        = []FeePaymentStatus{PaymentPaid, PaymentPending, PaymentPartial, PaymentOverdue}
	AssignmentStatuses        = []AssignmentStatus{AssignmentActive, AssignmentCompleted, AssignmentOverdue, AssignmentCancelled}
	TargetAudiences           = []TargetAudience{AudienceAll, AudienceStudents, AudienceTeachers, AudienceParents, AudienceSpecificClass}
	Priorities                = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
	DaysOfWeek                = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
)

func values[E ~string](all []E) []string {
	vals := make([]string, len(all))
	for i, v := range all {
		vals[i] = string(v)
	}
	return vals
}

func (v Gender) IsValid() bool { return slices.Contains(Genders, v) }
func (v Gender) Values() []string { return values(Genders) }

func (v StudentStatus) IsValid() bool { return slices.Contains(StudentStatuses, v) }
func (v StudentStatus) Values() []string { return values(StudentStatuses) }

func (v TeacherStatus) IsValid() bool { return slices.Contains(TeacherStatuses, v) }
func (v TeacherStatus) Values() []string { return values(TeacherStatuses) }

func (v StudentAttendanceStatus) IsValid() bool { return slices.Contains(StudentAttendanceStatuses, v) }
func (v StudentAttendanceStatus) Values() []string { return values(StudentAttendanceStatuses) }

func (v TeacherAttendanceStatus) IsValid() bool { return slices.Contains(TeacherAttendanceStatuses, v) }
func (v TeacherAttendanceStatus) Values() []string { return values(TeacherAttendanceStatuses) }

func (v ExamStatus) IsValid() bool { return slices.Contains(ExamStatuses, v) }
func (v ExamStatus) Values() []string { return values(ExamStatuses) }

func (v ExamResultStatus) IsValid() bool { return slices.Contains(ExamResultStatuses, v) }
func (v ExamResultStatus) Values() []string { return values(ExamResultStatuses) }

func (v FeePaymentStatus) IsValid() bool { return slices.Contains(FeePaymentStatuses, v) }
func (v FeePaymentStatus) Values() []string { return values(FeePaymentStatuses) }

func (v AssignmentStatus) IsValid() bool { return slices.Contains(AssignmentStatuses, v) }
func (v AssignmentStatus) Values() []string { return values(AssignmentStatuses) }

func (v TargetAudience) IsValid() bool { return slices.Contains(TargetAudiences, v) }
func (v TargetAudience) Values() []string { return values(TargetAudiences) }

func (v Priority) IsValid() bool { return slices.Contains(Priorities, v) }
func (v Priority) Values() []string { return values(Priorities) }

func (v DayOfWeek) IsValid() bool { return slices.Contains(DaysOfWeek, v) }
func (v DayOfWeek) Values() []string { return values(DaysOfWeek) }

// Counts reports whether the attendance status counts as the student being in class.
func (v StudentAttendanceStatus) Counts() bool {
	switch v {
	case StudentPresent, StudentLate, StudentHalfDay:
		return true
	case StudentAbsent, StudentSickLeave, StudentExcused:
		return false
	}
	return false
}

// Settled reports whether the payment status contributes to the amount paid.
func (v FeePaymentStatus) Settled() bool {
	switch v {
	case PaymentPaid, PaymentPartial:
		return true
	case PaymentPending, PaymentOverdue:
		return false
	}
	return false
}

// Reaches reports whether an announcement for this audience is addressed to the given audience.
func (v TargetAudience) Reaches(audience TargetAudience) bool {
	switch v {
	case AudienceAll:
		return true
	case AudienceStudents, AudienceTeachers, AudienceParents, AudienceSpecificClass:
		return v == audience
	}
	return false
}

// Index is the position of the day in the week, starting on monday; -1 when invalid.
func (v DayOfWeek) Index() int { return slices.Index(DaysOfWeek, v) }
