package school_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"
	"gorm.io/datatypes"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/school"
)

func newValidator() *core.Validator {
	v := core.NewValidator()
	school.InitValidators(v)
	return v
}

func fieldErrors(t *testing.T, err error) []string {
	t.Helper()
	if err == nil {
		return nil
	}
	var vErr *core.ValidationError
	if !assert.ErrorAs(t, err, &vErr) {
		return nil
	}
	flds := make([]string, 0, len(vErr.Fields))
	for _, fe := range vErr.Fields {
		flds = append(flds, fe.Field)
	}
	return flds
}

func hm(h, m int) datatypes.Time {
	return datatypes.NewTime(h, m, 0, 0)
}

func TestInitValidators(t *testing.T) {
	v := newValidator()
	d1 := school.NewDate(2025, time.January, 10)
	d2 := school.NewDate(2025, time.January, 12)

	tests := []struct {
		name       string
		input      interface{ Clean() }
		wantFields []string
	}{
		{
			name:  "subject defaults",
			input: &school.NewSubject{Name: "Maths", Code: "MTH"},
		},
		{
			name:       "subject passing above total",
			input:      &school.NewSubject{Name: "Maths", Code: "MTH", TotalMarks: ptr(50), PassingMarks: ptr(60)},
			wantFields: []string{"passing_marks"},
		},
		{
			name:  "exam",
			input: &school.NewExam{Name: "Mid", ExamCode: "MID-1", ClassID: 1, SubjectID: 1, ExamDate: d1, StartTime: hm(9, 0), EndTime: hm(11, 0)},
		},
		{
			name:       "exam ends before it starts",
			input:      &school.NewExam{Name: "Mid", ExamCode: "MID-1", ClassID: 1, SubjectID: 1, ExamDate: d1, StartTime: hm(11, 0), EndTime: hm(9, 0)},
			wantFields: []string{"end_time"},
		},
		{
			name:       "exam bad status",
			input:      &school.NewExam{Name: "Mid", ExamCode: "MID-1", ClassID: 1, SubjectID: 1, ExamDate: d1, StartTime: hm(9, 0), EndTime: hm(11, 0), Status: "postponed"},
			wantFields: []string{"status"},
		},
		{
			name:       "timetable slot inverted",
			input:      &school.NewTimetable{ClassID: 1, SectionID: 1, SubjectID: 1, TeacherID: 1, DayOfWeek: "Monday", StartTime: hm(10, 0), EndTime: hm(10, 0)},
			wantFields: []string{"end_time"},
		},
		{
			name:       "teacher checks out before checking in",
			input:      &school.NewTeacherAttendance{TeacherID: 1, Date: d1, Status: school.TeacherPresent, CheckIn: ptr(hm(8, 0)), CheckOut: ptr(hm(7, 30))},
			wantFields: []string{"check_out"},
		},
		{
			name:  "teacher without check out",
			input: &school.NewTeacherAttendance{TeacherID: 1, Date: d1, Status: school.TeacherPresent, CheckIn: ptr(hm(8, 0))},
		},
		{
			name:       "assignment due before assigned",
			input:      &school.NewAssignment{Title: "Essay", ClassID: 1, SectionID: 1, SubjectID: 1, TeacherID: 1, AssignedDate: d2, DueDate: d1},
			wantFields: []string{"due_date"},
		},
		{
			name:  "assignment due the same day",
			input: &school.NewAssignment{Title: "Essay", ClassID: 1, SectionID: 1, SubjectID: 1, TeacherID: 1, AssignedDate: d1, DueDate: d1},
		},
		{
			name:       "class announcement without class",
			input:      &school.NewAnnouncement{Title: "Trip", Content: "Zoo", UserID: 1, TargetAudience: school.AudienceSpecificClass, PublishDate: d1},
			wantFields: []string{"class_id"},
		},
		{
			name:       "announcement expires before publish",
			input:      &school.NewAnnouncement{Title: "Trip", Content: "Zoo", UserID: 1, PublishDate: d2, ExpiryDate: &d1},
			wantFields: []string{"expiry_date"},
		},
		{
			name:       "announcement bad priority",
			input:      &school.NewAnnouncement{Title: "Trip", Content: "Zoo", UserID: 1, PublishDate: d1, Priority: "asap"},
			wantFields: []string{"priority"},
		},
		{
			name: "percentage above 100",
			input: &school.NewExamResult{ExamID: 1, StudentID: 1, ObtainedMarks: decimal.RequireFromString("80"),
				Percentage: decimal.NewNullDecimal(decimal.RequireFromString("100.50")), Status: school.ResultPass},
			wantFields: []string{"percentage"},
		},
		{
			name: "obtained marks with three decimals",
			input: &school.NewExamResult{ExamID: 1, StudentID: 1, ObtainedMarks: decimal.RequireFromString("80.125"),
				Status: school.ResultPass},
			wantFields: []string{"obtained_marks"},
		},
		{
			name:       "negative fee",
			input:      &school.NewFee{ClassID: 1, FeeType: "Tuition", Amount: decimal.RequireFromString("-5")},
			wantFields: []string{"amount"},
		},
		{
			name:       "bad student gender",
			input:      &school.NewStudent{AdmissionNumber: "A100", Name: "Ada", Gender: ptr(school.Gender("x"))},
			wantFields: []string{"gender"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.input.Clean()
			got := fieldErrors(t, v.Struct(tt.input))
			assert.ElementsMatch(t, tt.wantFields, got)
		})
	}
}

func TestClean_Defaults(t *testing.T) {
	subj := school.NewSubject{Name: "  Maths ", Code: "MTH"}
	subj.Clean()
	if subj.Name != "Maths" {
		t.Errorf("Name = %q, want %q", subj.Name, "Maths")
	}
	if *subj.TotalMarks != 100 || *subj.PassingMarks != 40 {
		t.Errorf("marks = %d/%d, want 40/100", *subj.PassingMarks, *subj.TotalMarks)
	}

	fee := school.NewFee{FeeType: "Tuition"}
	fee.Clean()
	if fee.Frequency != school.DefaultFeeFrequency {
		t.Errorf("Frequency = %q, want %q", fee.Frequency, school.DefaultFeeFrequency)
	}
	if !*fee.IsActive {
		t.Errorf("IsActive = false, want true")
	}

	ann := school.NewAnnouncement{}
	ann.Clean()
	if ann.TargetAudience != school.AudienceAll || ann.Priority != school.PriorityMedium {
		t.Errorf("defaults = %s/%s, want all/medium", ann.TargetAudience, ann.Priority)
	}

	asg := school.NewAssignment{}
	asg.Clean()
	if *asg.TotalMarks != 10 || asg.Status != school.AssignmentActive {
		t.Errorf("defaults = %d/%s, want 10/active", *asg.TotalMarks, asg.Status)
	}

	att := school.NewStudentAttendance{Date: core.Date(time.Date(2025, 1, 10, 15, 30, 0, 0, time.FixedZone("EAT", 3*3600)))}
	att.Clean()
	if want := school.NewDate(2025, time.January, 10); !time.Time(att.Date).Equal(time.Time(want)) {
		t.Errorf("Date = %v, want %v", time.Time(att.Date), time.Time(want))
	}
	if att.Status != school.StudentPresent {
		t.Errorf("Status = %q, want %q", att.Status, school.StudentPresent)
	}

	tAtt := school.NewTeacherAttendance{}
	tAtt.Clean()
	if tAtt.Status != school.TeacherPresent {
		t.Errorf("Status = %q, want %q", tAtt.Status, school.TeacherPresent)
	}

	res := school.NewExamResult{Grade: null.StringFrom(" A ")}
	res.Clean()
	if res.Status != school.ResultPass {
		t.Errorf("Status = %q, want %q", res.Status, school.ResultPass)
	}
}

func TestUpdate_Apply(t *testing.T) {
	cur := school.Student{
		ID:              7,
		AdmissionNumber: "A100",
		Name:            "Ada",
		ClassID:         null.Int64From(1),
		Email:           null.StringFrom("ada@school.test"),
		Status:          school.StudentActive,
	}

	t.Run("absent fields keep their value", func(t *testing.T) {
		got := school.UpdateStudent{Name: ptr("Ada L.")}.Apply(cur)
		if got.Name != "Ada L." {
			t.Errorf("Name = %q, want %q", got.Name, "Ada L.")
		}
		if got.AdmissionNumber != "A100" || got.ClassID != cur.ClassID || got.Email != cur.Email {
			t.Errorf("untouched fields changed: %+v", got)
		}
	})

	t.Run("null clears a nullable field", func(t *testing.T) {
		var upd school.UpdateStudent
		if err := core.DecodeStrictBytes([]byte(`{"email": null, "class_id": 2}`), &upd); err != nil {
			t.Fatalf("DecodeStrictBytes() error = %v", err)
		}
		got := upd.Apply(cur)
		if got.Email.Valid {
			t.Errorf("Email = %v, want null", got.Email)
		}
		if got.ClassID != null.Int64From(2) {
			t.Errorf("ClassID = %v, want 2", got.ClassID)
		}
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		var upd school.UpdateStudent
		err := core.DecodeStrictBytes([]byte(`{"nickname": "ada"}`), &upd)
		if !core.IsValidation(err) {
			t.Errorf("DecodeStrictBytes() error = %v, want ValidationError", err)
		}
	})
}

func TestAnnouncement_ActiveOn(t *testing.T) {
	exp := school.NewDate(2025, time.March, 31)
	ann := school.Announcement{PublishDate: school.NewDate(2025, time.March, 1), ExpiryDate: &exp, IsActive: true}

	tests := []struct {
		day  core.Date
		want bool
	}{
		{school.NewDate(2025, time.February, 28), false},
		{school.NewDate(2025, time.March, 1), true},
		{school.NewDate(2025, time.March, 31), true},
		{school.NewDate(2025, time.April, 1), false},
	}
	for _, tt := range tests {
		if got := ann.ActiveOn(tt.day); got != tt.want {
			t.Errorf("ActiveOn(%v) = %v, want %v", time.Time(tt.day).Format(time.DateOnly), got, tt.want)
		}
	}

	ann.IsActive = false
	if ann.ActiveOn(school.NewDate(2025, time.March, 10)) {
		t.Errorf("inactive announcement ActiveOn() = true, want false")
	}
}

func TestSumSettled(t *testing.T) {
	payments := []school.FeePayment{
		{AmountPaid: decimal.RequireFromString("0.1"), Status: school.PaymentPaid},
		{AmountPaid: decimal.RequireFromString("0.2"), Status: school.PaymentPartial},
		{AmountPaid: decimal.RequireFromString("5"), Status: school.PaymentPending},
		{AmountPaid: decimal.RequireFromString("7"), Status: school.PaymentOverdue},
	}
	if got, want := school.SumSettled(payments), decimal.RequireFromString("0.3"); !got.Equal(want) {
		t.Errorf("SumSettled() = %v, want %v", got, want)
	}
}

func TestAttendanceSummary(t *testing.T) {
	s := school.AttendanceSummary{
		school.StudentPresent:   3,
		school.StudentLate:      1,
		school.StudentAbsent:    2,
		school.StudentSickLeave: 1,
	}
	if got := s.Total(); got != 7 {
		t.Errorf("Total() = %d, want 7", got)
	}
	if got := s.Attended(); got != 4 {
		t.Errorf("Attended() = %d, want 4", got)
	}
}

func TestEnums(t *testing.T) {
	if !school.Monday.IsValid() || school.DayOfWeek("Funday").IsValid() {
		t.Errorf("DayOfWeek.IsValid() is wrong")
	}
	assert.Equal(t, []string{"pass", "fail", "absent"}, school.ResultPass.Values())
	if !school.AudienceAll.Reaches(school.AudienceParents) {
		t.Errorf("all.Reaches(parents) = false, want true")
	}
	if school.AudienceTeachers.Reaches(school.AudienceStudents) {
		t.Errorf("teachers.Reaches(students) = true, want false")
	}
}

func ptr[T any](v T) *T { return &v }
