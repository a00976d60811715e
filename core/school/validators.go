package school

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/trezcool/schooladmin/core"
)

var (
	lteTotalTag  = "ltetotal"
	lteTotalText = "{0} cannot exceed the total marks"

	afterStartTag  = "afterstart"
	afterStartText = "{0} must be after the start time"

	dateOrderTag  = "dateorder"
	dateOrderText = "{0} cannot be before the start date"

	classScopeTag  = "classscope"
	classScopeText = "{0} is required for class announcements"

	maxPercentTag  = "maxpercent"
	maxPercentText = "{0} cannot exceed 100"

	hundred = decimal.NewFromInt(100)
)

// InitValidators registers the cross-field rules of the school inputs on v.
func InitValidators(v *core.Validator) {
	v.RegisterStructValidation(
		schoolStructValidation,
		map[string]string{
			lteTotalTag:   lteTotalText,
			afterStartTag: afterStartText,
			dateOrderTag:  dateOrderText,
			classScopeTag: classScopeText,
			maxPercentTag: maxPercentText,
		},
		NewSubject{}, NewExam{}, NewExamResult{}, NewTimetable{},
		NewTeacherAttendance{}, NewAssignment{}, NewAnnouncement{},
	)
}

func schoolStructValidation(sl validator.StructLevel) {
	switch in := sl.Current().Interface().(type) {
	case NewSubject:
		validateMarks(in.PassingMarks, in.TotalMarks, sl)
	case NewExam:
		validateMarks(in.PassingMarks, in.TotalMarks, sl)
		if in.EndTime <= in.StartTime {
			sl.ReportError(in.EndTime, "end_time", "EndTime", afterStartTag, "")
		}
	case NewExamResult:
		if in.Percentage.Valid && in.Percentage.Decimal.GreaterThan(hundred) {
			sl.ReportError(in.Percentage, "percentage", "Percentage", maxPercentTag, "")
		}
	case NewTimetable:
		if in.EndTime <= in.StartTime {
			sl.ReportError(in.EndTime, "end_time", "EndTime", afterStartTag, "")
		}
	case NewTeacherAttendance:
		if in.CheckIn != nil && in.CheckOut != nil && *in.CheckOut <= *in.CheckIn {
			sl.ReportError(in.CheckOut, "check_out", "CheckOut", afterStartTag, "")
		}
	case NewAssignment:
		if before(in.DueDate, in.AssignedDate) {
			sl.ReportError(in.DueDate, "due_date", "DueDate", dateOrderTag, "")
		}
	case NewAnnouncement:
		if in.TargetAudience == AudienceSpecificClass && !in.ClassID.Valid {
			sl.ReportError(in.ClassID, "class_id", "ClassID", classScopeTag, "")
		}
		if in.ExpiryDate != nil && before(*in.ExpiryDate, in.PublishDate) {
			sl.ReportError(in.ExpiryDate, "expiry_date", "ExpiryDate", dateOrderTag, "")
		}
	}
}

func validateMarks(passing, total *int, sl validator.StructLevel) {
	if passing == nil || total == nil {
		return // reported by `required`
	}
	if *passing > *total {
		sl.ReportError(*passing, "passing_marks", "PassingMarks", lteTotalTag, "")
	}
}

func before(a, b core.Date) bool {
	return time.Time(a).Before(time.Time(b))
}
