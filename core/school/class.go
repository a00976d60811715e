package school

import (
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooladmin/core"
)

// SchoolClass is a grade, e.g. "Grade 5". It owns sections, fees, exams, timetables and assignments.
type SchoolClass struct {
	ID          int64       `db:"id" json:"id"`
	Name        string      `db:"name" json:"name"`
	NumericName null.Int    `db:"numeric_name" json:"numeric_name"`
	Description null.String `db:"description" json:"description"`
	IsActive    bool        `db:"is_active" json:"is_active"`
	Timestamps
}

type NewSchoolClass struct {
	Name        string      `json:"name" validate:"required,max=255"`
	NumericName null.Int    `json:"numeric_name" validate:"omitempty,min=0"`
	Description null.String `json:"description"`
	IsActive    *bool       `json:"is_active"` // defaults to true
}

func (in *NewSchoolClass) Clean() {
	in.Name = core.CleanString(in.Name)
	if in.IsActive == nil {
		in.IsActive = ptr(true)
	}
}

type UpdateSchoolClass struct {
	Name        *string                    `json:"name"`
	NumericName core.Optional[null.Int]    `json:"numeric_name"`
	Description core.Optional[null.String] `json:"description"`
	IsActive    *bool                      `json:"is_active"`
}

func (u UpdateSchoolClass) Apply(c SchoolClass) NewSchoolClass {
	return NewSchoolClass{
		Name:        or(u.Name, c.Name),
		NumericName: u.NumericName.Or(c.NumericName),
		Description: u.Description.Or(c.Description),
		IsActive:    ptr(or(u.IsActive, c.IsActive)),
	}
}

type ClassFilter struct {
	Search   string `query:"search"`
	IsActive *bool  `query:"is_active"`
	Ordering []core.DBOrdering
}

// Section divides a class, e.g. "Grade 5 A". Its name is unique within the class.
type Section struct {
	ID             int64       `db:"id" json:"id"`
	ClassID        int64       `db:"class_id" json:"class_id"`
	Name           string      `db:"name" json:"name"`
	Capacity       null.Int    `db:"capacity" json:"capacity"`
	ClassTeacherID null.Int64  `db:"class_teacher_id" json:"class_teacher_id"`
	Description    null.String `db:"description" json:"description"`
	IsActive       bool        `db:"is_active" json:"is_active"`
	Timestamps
}

type NewSection struct {
	ClassID        int64       `json:"class_id" validate:"required"`
	Name           string      `json:"name" validate:"required,max=255"`
	Capacity       null.Int    `json:"capacity" validate:"omitempty,min=1"`
	ClassTeacherID null.Int64  `json:"class_teacher_id"`
	Description    null.String `json:"description"`
	IsActive       *bool       `json:"is_active"` // defaults to true
}

func (in *NewSection) Clean() {
	in.Name = core.CleanString(in.Name)
	if in.IsActive == nil {
		in.IsActive = ptr(true)
	}
}

type UpdateSection struct {
	ClassID        *int64                     `json:"class_id"`
	Name           *string                    `json:"name"`
	Capacity       core.Optional[null.Int]    `json:"capacity"`
	ClassTeacherID core.Optional[null.Int64]  `json:"class_teacher_id"`
	Description    core.Optional[null.String] `json:"description"`
	IsActive       *bool                      `json:"is_active"`
}

func (u UpdateSection) Apply(s Section) NewSection {
	return NewSection{
		ClassID:        or(u.ClassID, s.ClassID),
		Name:           or(u.Name, s.Name),
		Capacity:       u.Capacity.Or(s.Capacity),
		ClassTeacherID: u.ClassTeacherID.Or(s.ClassTeacherID),
		Description:    u.Description.Or(s.Description),
		IsActive:       ptr(or(u.IsActive, s.IsActive)),
	}
}

type SectionFilter struct {
	ClassID        int64 `query:"class_id"`
	ClassTeacherID int64 `query:"class_teacher_id"`
	Ordering       []core.DBOrdering
}

type Subject struct {
	ID           int64       `db:"id" json:"id"`
	Name         string      `db:"name" json:"name"`
	Code         string      `db:"code" json:"code"`
	Description  null.String `db:"description" json:"description"`
	Type         null.String `db:"type" json:"type"`
	TotalMarks   int         `db:"total_marks" json:"total_marks"`
	PassingMarks int         `db:"passing_marks" json:"passing_marks"`
	IsActive     bool        `db:"is_active" json:"is_active"`
	Timestamps
}

type NewSubject struct {
	Name         string      `json:"name" validate:"required,max=255"`
	Code         string      `json:"code" validate:"required,max=50"`
	Description  null.String `json:"description"`
	Type         null.String `json:"type" validate:"omitempty,max=50"`
	TotalMarks   *int        `json:"total_marks" validate:"required,min=1"`   // defaults to 100
	PassingMarks *int        `json:"passing_marks" validate:"required,min=0"` // defaults to 40
	IsActive     *bool       `json:"is_active"`                               // defaults to true
}

func (in *NewSubject) Clean() {
	in.Name = core.CleanString(in.Name)
	in.Code = core.CleanString(in.Code)
	if in.TotalMarks == nil {
		in.TotalMarks = ptr(100)
	}
	if in.PassingMarks == nil {
		in.PassingMarks = ptr(40)
	}
	if in.IsActive == nil {
		in.IsActive = ptr(true)
	}
}

type UpdateSubject struct {
	Name         *string                    `json:"name"`
	Code         *string                    `json:"code"`
	Description  core.Optional[null.String] `json:"description"`
	Type         core.Optional[null.String] `json:"type"`
	TotalMarks   *int                       `json:"total_marks"`
	PassingMarks *int                       `json:"passing_marks"`
	IsActive     *bool                      `json:"is_active"`
}

func (u UpdateSubject) Apply(s Subject) NewSubject {
	return NewSubject{
		Name:         or(u.Name, s.Name),
		Code:         or(u.Code, s.Code),
		Description:  u.Description.Or(s.Description),
		Type:         u.Type.Or(s.Type),
		TotalMarks:   ptr(or(u.TotalMarks, s.TotalMarks)),
		PassingMarks: ptr(or(u.PassingMarks, s.PassingMarks)),
		IsActive:     ptr(or(u.IsActive, s.IsActive)),
	}
}

type SubjectFilter struct {
	Search   string `query:"search"`
	Type     string `query:"type"`
	IsActive *bool  `query:"is_active"`
	Ordering []core.DBOrdering
}

// ClassSubject is the class_subject join entity: a subject taught in a class.
type ClassSubject struct {
	ID        int64 `db:"id" json:"id"`
	ClassID   int64 `db:"class_id" json:"class_id"`
	SubjectID int64 `db:"subject_id" json:"subject_id"`
	Timestamps
}

type NewClassSubject struct {
	ClassID   int64 `json:"class_id" validate:"required"`
	SubjectID int64 `json:"subject_id" validate:"required"`
}

type UpdateClassSubject struct {
	ClassID   *int64 `json:"class_id"`
	SubjectID *int64 `json:"subject_id"`
}

func (u UpdateClassSubject) Apply(cs ClassSubject) NewClassSubject {
	return NewClassSubject{
		ClassID:   or(u.ClassID, cs.ClassID),
		SubjectID: or(u.SubjectID, cs.SubjectID),
	}
}

type ClassSubjectFilter struct {
	ClassID   int64 `query:"class_id"`
	SubjectID int64 `query:"subject_id"`
	Ordering  []core.DBOrdering
}
