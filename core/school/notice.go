package school

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooladmin/core"
)

// Assignment is homework given by a teacher to a section.
type Assignment struct {
	ID           int64            `db:"id" json:"id"`
	Title        string           `db:"title" json:"title"`
	Description  null.String      `db:"description" json:"description"`
	ClassID      int64            `db:"class_id" json:"class_id"`
	SectionID    int64            `db:"section_id" json:"section_id"`
	SubjectID    int64            `db:"subject_id" json:"subject_id"`
	TeacherID    int64            `db:"teacher_id" json:"teacher_id"`
	AssignedDate core.Date        `db:"assigned_date" json:"assigned_date"`
	DueDate      core.Date        `db:"due_date" json:"due_date"`
	TotalMarks   int              `db:"total_marks" json:"total_marks"`
	Attachment   null.String      `db:"attachment" json:"attachment"`
	Status       AssignmentStatus `db:"status" json:"status"`
	Timestamps
}

type NewAssignment struct {
	Title        string           `json:"title" validate:"required,max=255"`
	Description  null.String      `json:"description"`
	ClassID      int64            `json:"class_id" validate:"required"`
	SectionID    int64            `json:"section_id" validate:"required"`
	SubjectID    int64            `json:"subject_id" validate:"required"`
	TeacherID    int64            `json:"teacher_id" validate:"required"`
	AssignedDate core.Date        `json:"assigned_date" validate:"required"`
	DueDate      core.Date        `json:"due_date" validate:"required"`
	TotalMarks   *int             `json:"total_marks" validate:"required,min=1"`   // defaults to 10
	Attachment   null.String      `json:"attachment" validate:"omitempty,max=255"` // stored upload path
	Status       AssignmentStatus `json:"status" validate:"required,enum"`         // defaults to active
}

func (in *NewAssignment) Clean() {
	in.Title = core.CleanString(in.Title)
	in.AssignedDate = cleanDate(in.AssignedDate)
	in.DueDate = cleanDate(in.DueDate)
	if in.TotalMarks == nil {
		in.TotalMarks = ptr(10)
	}
	if in.Status == "" {
		in.Status = AssignmentActive
	}
}

type UpdateAssignment struct {
	Title        *string                    `json:"title"`
	Description  core.Optional[null.String] `json:"description"`
	ClassID      *int64                     `json:"class_id"`
	SectionID    *int64                     `json:"section_id"`
	SubjectID    *int64                     `json:"subject_id"`
	TeacherID    *int64                     `json:"teacher_id"`
	AssignedDate *core.Date                 `json:"assigned_date"`
	DueDate      *core.Date                 `json:"due_date"`
	TotalMarks   *int                       `json:"total_marks"`
	Attachment   core.Optional[null.String] `json:"attachment"`
	Status       *AssignmentStatus          `json:"status"`
}

func (u UpdateAssignment) Apply(a Assignment) NewAssignment {
	return NewAssignment{
		Title:        or(u.Title, a.Title),
		Description:  u.Description.Or(a.Description),
		ClassID:      or(u.ClassID, a.ClassID),
		SectionID:    or(u.SectionID, a.SectionID),
		SubjectID:    or(u.SubjectID, a.SubjectID),
		TeacherID:    or(u.TeacherID, a.TeacherID),
		AssignedDate: or(u.AssignedDate, a.AssignedDate),
		DueDate:      or(u.DueDate, a.DueDate),
		TotalMarks:   ptr(or(u.TotalMarks, a.TotalMarks)),
		Attachment:   u.Attachment.Or(a.Attachment),
		Status:       or(u.Status, a.Status),
	}
}

type AssignmentFilter struct {
	ClassID   int64            `query:"class_id"`
	SectionID int64            `query:"section_id"`
	SubjectID int64            `query:"subject_id"`
	TeacherID int64            `query:"teacher_id"`
	Status    AssignmentStatus `query:"status"`
	DueBefore *core.Date       `query:"-"`
	Ordering  []core.DBOrdering
}

// Announcement is a notice written by a user. A specific_class announcement is scoped to ClassID.
type Announcement struct {
	ID             int64          `db:"id" json:"id"`
	Title          string         `db:"title" json:"title"`
	Content        string         `db:"content" json:"content"`
	UserID         int64          `db:"user_id" json:"user_id"`
	TargetAudience TargetAudience `db:"target_audience" json:"target_audience"`
	ClassID        null.Int64     `db:"class_id" json:"class_id"`
	PublishDate    core.Date      `db:"publish_date" json:"publish_date"`
	ExpiryDate     *core.Date     `db:"expiry_date" json:"expiry_date"`
	Priority       Priority       `db:"priority" json:"priority"`
	IsActive       bool           `db:"is_active" json:"is_active"`
	Timestamps
}

// ActiveOn reports whether the announcement is published and not yet expired on the given day.
func (a Announcement) ActiveOn(day core.Date) bool {
	if !a.IsActive {
		return false
	}
	d := time.Time(cleanDate(day))
	if time.Time(cleanDate(a.PublishDate)).After(d) {
		return false
	}
	return a.ExpiryDate == nil || !time.Time(cleanDate(*a.ExpiryDate)).Before(d)
}

type NewAnnouncement struct {
	Title          string         `json:"title" validate:"required,max=255"`
	Content        string         `json:"content" validate:"required"`
	UserID         int64          `json:"user_id" validate:"required"`
	TargetAudience TargetAudience `json:"target_audience" validate:"required,enum"` // defaults to all
	ClassID        null.Int64     `json:"class_id"`
	PublishDate    core.Date      `json:"publish_date" validate:"required"`
	ExpiryDate     *core.Date     `json:"expiry_date"`
	Priority       Priority       `json:"priority" validate:"required,enum"` // defaults to medium
	IsActive       *bool          `json:"is_active"`                         // defaults to true
}

func (in *NewAnnouncement) Clean() {
	in.Title = core.CleanString(in.Title)
	in.PublishDate = cleanDate(in.PublishDate)
	in.ExpiryDate = cleanDatePtr(in.ExpiryDate)
	if in.TargetAudience == "" {
		in.TargetAudience = AudienceAll
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	if in.IsActive == nil {
		in.IsActive = ptr(true)
	}
}

type UpdateAnnouncement struct {
	Title          *string                   `json:"title"`
	Content        *string                   `json:"content"`
	UserID         *int64                    `json:"user_id"`
	TargetAudience *TargetAudience           `json:"target_audience"`
	ClassID        core.Optional[null.Int64] `json:"class_id"`
	PublishDate    *core.Date                `json:"publish_date"`
	ExpiryDate     core.Optional[*core.Date] `json:"expiry_date"`
	Priority       *Priority                 `json:"priority"`
	IsActive       *bool                     `json:"is_active"`
}

func (u UpdateAnnouncement) Apply(a Announcement) NewAnnouncement {
	return NewAnnouncement{
		Title:          or(u.Title, a.Title),
		Content:        or(u.Content, a.Content),
		UserID:         or(u.UserID, a.UserID),
		TargetAudience: or(u.TargetAudience, a.TargetAudience),
		ClassID:        u.ClassID.Or(a.ClassID),
		PublishDate:    or(u.PublishDate, a.PublishDate),
		ExpiryDate:     u.ExpiryDate.Or(a.ExpiryDate),
		Priority:       or(u.Priority, a.Priority),
		IsActive:       ptr(or(u.IsActive, a.IsActive)),
	}
}

// AnnouncementFilter matches announcements reaching Audience (including those addressed to all).
// ActiveOn keeps active announcements published and not expired on that day.
type AnnouncementFilter struct {
	Audience TargetAudience `query:"audience"`
	ClassID  int64          `query:"class_id"`
	Priority Priority       `query:"priority"`
	ActiveOn *core.Date     `query:"-"`
	Ordering []core.DBOrdering
}
