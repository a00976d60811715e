package school

import (
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"gorm.io/datatypes"

	"github.com/trezcool/schooladmin/core"
)

type Exam struct {
	ID           int64          `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	ExamCode     string         `db:"exam_code" json:"exam_code"`
	ClassID      int64          `db:"class_id" json:"class_id"`
	SubjectID    int64          `db:"subject_id" json:"subject_id"`
	ExamDate     core.Date      `db:"exam_date" json:"exam_date"`
	StartTime    datatypes.Time `db:"start_time" json:"start_time"`
	EndTime      datatypes.Time `db:"end_time" json:"end_time"`
	TotalMarks   int            `db:"total_marks" json:"total_marks"`
	PassingMarks int            `db:"passing_marks" json:"passing_marks"`
	Instructions null.String    `db:"instructions" json:"instructions"`
	Status       ExamStatus     `db:"status" json:"status"`
	Timestamps
}

type NewExam struct {
	Name         string         `json:"name" validate:"required,max=255"`
	ExamCode     string         `json:"exam_code" validate:"required,max=50"`
	ClassID      int64          `json:"class_id" validate:"required"`
	SubjectID    int64          `json:"subject_id" validate:"required"`
	ExamDate     core.Date      `json:"exam_date" validate:"required"`
	StartTime    datatypes.Time `json:"start_time"`
	EndTime      datatypes.Time `json:"end_time"`
	TotalMarks   *int           `json:"total_marks" validate:"required,min=1"`   // defaults to 100
	PassingMarks *int           `json:"passing_marks" validate:"required,min=0"` // defaults to 40
	Instructions null.String    `json:"instructions"`
	Status       ExamStatus     `json:"status" validate:"required,enum"` // defaults to scheduled
}

func (in *NewExam) Clean() {
	in.Name = core.CleanString(in.Name)
	in.ExamCode = core.CleanString(in.ExamCode)
	in.ExamDate = cleanDate(in.ExamDate)
	if in.TotalMarks == nil {
		in.TotalMarks = ptr(100)
	}
	if in.PassingMarks == nil {
		in.PassingMarks = ptr(40)
	}
	if in.Status == "" {
		in.Status = ExamScheduled
	}
}

type UpdateExam struct {
	Name         *string                    `json:"name"`
	ExamCode     *string                    `json:"exam_code"`
	ClassID      *int64                     `json:"class_id"`
	SubjectID    *int64                     `json:"subject_id"`
	ExamDate     *core.Date                 `json:"exam_date"`
	StartTime    *datatypes.Time            `json:"start_time"`
	EndTime      *datatypes.Time            `json:"end_time"`
	TotalMarks   *int                       `json:"total_marks"`
	PassingMarks *int                       `json:"passing_marks"`
	Instructions core.Optional[null.String] `json:"instructions"`
	Status       *ExamStatus                `json:"status"`
}

func (u UpdateExam) Apply(e Exam) NewExam {
	return NewExam{
		Name:         or(u.Name, e.Name),
		ExamCode:     or(u.ExamCode, e.ExamCode),
		ClassID:      or(u.ClassID, e.ClassID),
		SubjectID:    or(u.SubjectID, e.SubjectID),
		ExamDate:     or(u.ExamDate, e.ExamDate),
		StartTime:    or(u.StartTime, e.StartTime),
		EndTime:      or(u.EndTime, e.EndTime),
		TotalMarks:   ptr(or(u.TotalMarks, e.TotalMarks)),
		PassingMarks: ptr(or(u.PassingMarks, e.PassingMarks)),
		Instructions: u.Instructions.Or(e.Instructions),
		Status:       or(u.Status, e.Status),
	}
}

type ExamFilter struct {
	ClassID   int64      `query:"class_id"`
	SubjectID int64      `query:"subject_id"`
	Status    ExamStatus `query:"status"`
	From      *core.Date `query:"-"`
	To        *core.Date `query:"-"`
	Ordering  []core.DBOrdering
}

// ExamResult is a student's result for an exam; a student has at most one result per exam.
type ExamResult struct {
	ID            int64               `db:"id" json:"id"`
	ExamID        int64               `db:"exam_id" json:"exam_id"`
	StudentID     int64               `db:"student_id" json:"student_id"`
	ObtainedMarks decimal.Decimal     `db:"obtained_marks" json:"obtained_marks"`
	Grade         null.String         `db:"grade" json:"grade"`
	Percentage    decimal.NullDecimal `db:"percentage" json:"percentage"`
	Remarks       null.String         `db:"remarks" json:"remarks"`
	Status        ExamResultStatus    `db:"status" json:"status"`
	Timestamps
}

type NewExamResult struct {
	ExamID        int64               `json:"exam_id" validate:"required"`
	StudentID     int64               `json:"student_id" validate:"required"`
	ObtainedMarks decimal.Decimal     `json:"obtained_marks" validate:"udecimal=5_2"`
	Grade         null.String         `json:"grade" validate:"omitempty,max=5"`
	Percentage    decimal.NullDecimal `json:"percentage" validate:"omitempty,udecimal=5_2"`
	Remarks       null.String         `json:"remarks"`
	Status        ExamResultStatus    `json:"status" validate:"required,enum"` // defaults to pass
}

func (in *NewExamResult) Clean() {
	in.Grade.String = core.CleanString(in.Grade.String, false)
	if in.Status == "" {
		in.Status = ResultPass
	}
}

type UpdateExamResult struct {
	ExamID        *int64                             `json:"exam_id"`
	StudentID     *int64                             `json:"student_id"`
	ObtainedMarks *decimal.Decimal                   `json:"obtained_marks"`
	Grade         core.Optional[null.String]         `json:"grade"`
	Percentage    core.Optional[decimal.NullDecimal] `json:"percentage"`
	Remarks       core.Optional[null.String]         `json:"remarks"`
	Status        *ExamResultStatus                  `json:"status"`
}

func (u UpdateExamResult) Apply(r ExamResult) NewExamResult {
	return NewExamResult{
		ExamID:        or(u.ExamID, r.ExamID),
		StudentID:     or(u.StudentID, r.StudentID),
		ObtainedMarks: or(u.ObtainedMarks, r.ObtainedMarks),
		Grade:         u.Grade.Or(r.Grade),
		Percentage:    u.Percentage.Or(r.Percentage),
		Remarks:       u.Remarks.Or(r.Remarks),
		Status:        or(u.Status, r.Status),
	}
}

type ExamResultFilter struct {
	ExamID    int64            `query:"exam_id"`
	StudentID int64            `query:"student_id"`
	Status    ExamResultStatus `query:"status"`
	Ordering  []core.DBOrdering
}
