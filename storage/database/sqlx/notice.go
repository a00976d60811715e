package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/school"
)

type assignmentRepository struct {
	crud[school.Assignment, school.NewAssignment, school.UpdateAssignment]
}

var _ school.AssignmentRepository = (*assignmentRepository)(nil)

func NewAssignmentRepository(s *Store) *assignmentRepository {
	return &assignmentRepository{crud[school.Assignment, school.NewAssignment, school.UpdateAssignment]{
		Store:    s,
		table:    "assignments",
		entity:   school.EntityAssignment,
		sortable: []string{"due_date", "assigned_date", "title", "created_at"},
		row: func(in school.NewAssignment) map[string]interface{} {
			return map[string]interface{}{
				"title":         in.Title,
				"description":   in.Description,
				"class_id":      in.ClassID,
				"section_id":    in.SectionID,
				"subject_id":    in.SubjectID,
				"teacher_id":    in.TeacherID,
				"assigned_date": in.AssignedDate,
				"due_date":      in.DueDate,
				"total_marks":   int64(*in.TotalMarks),
				"attachment":    in.Attachment,
				"status":        string(in.Status),
			}
		},
		refs: func(in school.NewAssignment) []fkRef {
			return []fkRef{
				ref("class_id", school.EntityClass, "classes", in.ClassID),
				ref("section_id", school.EntitySection, "sections", in.SectionID),
				ref("subject_id", school.EntitySubject, "subjects", in.SubjectID),
				ref("teacher_id", school.EntityTeacher, "teachers", in.TeacherID),
			}
		},
		merge: school.UpdateAssignment.Apply,
	}}
}

func (repo *assignmentRepository) List(ctx context.Context, filter school.AssignmentFilter, page core.PageRequest) (core.Page[school.Assignment], error) {
	var conds []sq.Sqlizer
	if filter.ClassID != 0 {
		conds = append(conds, sq.Eq{"class_id": filter.ClassID})
	}
	if filter.SectionID != 0 {
		conds = append(conds, sq.Eq{"section_id": filter.SectionID})
	}
	if filter.SubjectID != 0 {
		conds = append(conds, sq.Eq{"subject_id": filter.SubjectID})
	}
	if filter.TeacherID != 0 {
		conds = append(conds, sq.Eq{"teacher_id": filter.TeacherID})
	}
	if filter.Status != "" {
		if !filter.Status.IsValid() {
			return core.Page[school.Assignment]{}, invalidFilter("status", filter.Status)
		}
		conds = append(conds, sq.Eq{"status": string(filter.Status)})
	}
	if filter.DueBefore != nil {
		conds = append(conds, sq.LtOrEq{"due_date": day(*filter.DueBefore)})
	}
	return repo.list(ctx, conds, filter.Ordering, page)
}

type announcementRepository struct {
	crud[school.Announcement, school.NewAnnouncement, school.UpdateAnnouncement]
}

var _ school.AnnouncementRepository = (*announcementRepository)(nil)

func NewAnnouncementRepository(s *Store) *announcementRepository {
	return &announcementRepository{crud[school.Announcement, school.NewAnnouncement, school.UpdateAnnouncement]{
		Store:    s,
		table:    "announcements",
		entity:   school.EntityAnnouncement,
		sortable: []string{"publish_date", "expiry_date", "priority", "title", "created_at"},
		row: func(in school.NewAnnouncement) map[string]interface{} {
			return map[string]interface{}{
				"title":           in.Title,
				"content":         in.Content,
				"user_id":         in.UserID,
				"target_audience": string(in.TargetAudience),
				"class_id":        in.ClassID,
				"publish_date":    in.PublishDate,
				"expiry_date":     in.ExpiryDate,
				"priority":        string(in.Priority),
				"is_active":       *in.IsActive,
			}
		},
		refs: func(in school.NewAnnouncement) []fkRef {
			return []fkRef{
				ref("user_id", school.EntityUser, "users", in.UserID),
				nullRef("class_id", school.EntityClass, "classes", in.ClassID),
			}
		},
		merge: school.UpdateAnnouncement.Apply,
	}}
}

// List matches announcements addressed to everyone as well as to the requested audience.
// A class filter also matches school-wide announcements.
func (repo *announcementRepository) List(ctx context.Context, filter school.AnnouncementFilter, page core.PageRequest) (core.Page[school.Announcement], error) {
	var conds []sq.Sqlizer
	if filter.Audience != "" {
		if !filter.Audience.IsValid() {
			return core.Page[school.Announcement]{}, invalidFilter("audience", filter.Audience)
		}
		conds = append(conds, sq.Eq{"target_audience": []string{string(filter.Audience), string(school.AudienceAll)}})
	}
	if filter.ClassID != 0 {
		conds = append(conds, sq.Or{
			sq.Eq{"class_id": filter.ClassID},
			sq.Eq{"class_id": nil},
		})
	}
	if filter.Priority != "" {
		if !filter.Priority.IsValid() {
			return core.Page[school.Announcement]{}, invalidFilter("priority", filter.Priority)
		}
		conds = append(conds, sq.Eq{"priority": string(filter.Priority)})
	}
	if filter.ActiveOn != nil {
		d := day(*filter.ActiveOn)
		conds = append(conds,
			sq.Eq{"is_active": true},
			sq.LtOrEq{"publish_date": d},
			sq.Or{sq.Eq{"expiry_date": nil}, sq.GtOrEq{"expiry_date": d}},
		)
	}
	return repo.list(ctx, conds, filter.Ordering, page)
}
