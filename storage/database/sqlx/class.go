package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/school"
)

type classRepository struct {
	crud[school.SchoolClass, school.NewSchoolClass, school.UpdateSchoolClass]
}

var _ school.ClassRepository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(s *Store) *classRepository {
	return &classRepository{crud[school.SchoolClass, school.NewSchoolClass, school.UpdateSchoolClass]{
		Store:    s,
		table:    "classes",
		entity:   school.EntityClass,
		sortable: []string{"name", "numeric_name", "created_at"},
		row: func(in school.NewSchoolClass) map[string]interface{} {
			return map[string]interface{}{
				"name":         in.Name,
				"numeric_name": in.NumericName,
				"description":  in.Description,
				"is_active":    *in.IsActive,
			}
		},
		merge: school.UpdateSchoolClass.Apply,
	}}
}

func (repo *classRepository) List(ctx context.Context, filter school.ClassFilter, page core.PageRequest) (core.Page[school.SchoolClass], error) {
	var conds []sq.Sqlizer
	if filter.Search != "" {
		conds = append(conds, repo.search(filter.Search, "name", "description"))
	}
	if filter.IsActive != nil {
		conds = append(conds, sq.Eq{"is_active": *filter.IsActive})
	}
	return repo.list(ctx, conds, filter.Ordering, page)
}

type sectionRepository struct {
	crud[school.Section, school.NewSection, school.UpdateSection]
}

var _ school.SectionRepository = (*sectionRepository)(nil)

func NewSectionRepository(s *Store) *sectionRepository {
	return &sectionRepository{crud[school.Section, school.NewSection, school.UpdateSection]{
		Store:    s,
		table:    "sections",
		entity:   school.EntitySection,
		sortable: []string{"name", "class_id", "created_at"},
		row: func(in school.NewSection) map[string]interface{} {
			return map[string]interface{}{
				"class_id":         in.ClassID,
				"name":             in.Name,
				"capacity":         in.Capacity,
				"class_teacher_id": in.ClassTeacherID,
				"description":      in.Description,
				"is_active":        *in.IsActive,
			}
		},
		refs: func(in school.NewSection) []fkRef {
			return []fkRef{
				ref("class_id", school.EntityClass, "classes", in.ClassID),
				nullRef("class_teacher_id", school.EntityTeacher, "teachers", in.ClassTeacherID),
			}
		},
		merge: school.UpdateSection.Apply,
	}}
}

func (repo *sectionRepository) List(ctx context.Context, filter school.SectionFilter, page core.PageRequest) (core.Page[school.Section], error) {
	var conds []sq.Sqlizer
	if filter.ClassID != 0 {
		conds = append(conds, sq.Eq{"class_id": filter.ClassID})
	}
	if filter.ClassTeacherID != 0 {
		conds = append(conds, sq.Eq{"class_teacher_id": filter.ClassTeacherID})
	}
	return repo.list(ctx, conds, filter.Ordering, page)
}

type subjectRepository struct {
	crud[school.Subject, school.NewSubject, school.UpdateSubject]
}

var _ school.SubjectRepository = (*subjectRepository)(nil)

func NewSubjectRepository(s *Store) *subjectRepository {
	return &subjectRepository{crud[school.Subject, school.NewSubject, school.UpdateSubject]{
		Store:    s,
		table:    "subjects",
		entity:   school.EntitySubject,
		sortable: []string{"name", "code", "created_at"},
		row: func(in school.NewSubject) map[string]interface{} {
			return map[string]interface{}{
				"name":          in.Name,
				"code":          in.Code,
				"description":   in.Description,
				"type":          in.Type,
				"total_marks":   int64(*in.TotalMarks),
				"passing_marks": int64(*in.PassingMarks),
				"is_active":     *in.IsActive,
			}
		},
		merge: school.UpdateSubject.Apply,
	}}
}

func (repo *subjectRepository) List(ctx context.Context, filter school.SubjectFilter, page core.PageRequest) (core.Page[school.Subject], error) {
	var conds []sq.Sqlizer
	if filter.Search != "" {
		conds = append(conds, repo.search(filter.Search, "name", "code"))
	}
	if filter.Type != "" {
		conds = append(conds, sq.Eq{"type": filter.Type})
	}
	if filter.IsActive != nil {
		conds = append(conds, sq.Eq{"is_active": *filter.IsActive})
	}
	return repo.list(ctx, conds, filter.Ordering, page)
}

type classSubjectRepository struct {
	crud[school.ClassSubject, school.NewClassSubject, school.UpdateClassSubject]
}

var _ school.ClassSubjectRepository = (*classSubjectRepository)(nil)

func NewClassSubjectRepository(s *Store) *classSubjectRepository {
	return &classSubjectRepository{crud[school.ClassSubject, school.NewClassSubject, school.UpdateClassSubject]{
		Store:    s,
		table:    "class_subject",
		entity:   school.EntityClassSubject,
		sortable: []string{"class_id", "subject_id", "created_at"},
		row: func(in school.NewClassSubject) map[string]interface{} {
			return map[string]interface{}{
				"class_id":   in.ClassID,
				"subject_id": in.SubjectID,
			}
		},
		refs: func(in school.NewClassSubject) []fkRef {
			return []fkRef{
				ref("class_id", school.EntityClass, "classes", in.ClassID),
				ref("subject_id", school.EntitySubject, "subjects", in.SubjectID),
			}
		},
		merge: school.UpdateClassSubject.Apply,
	}}
}

func (repo *classSubjectRepository) List(ctx context.Context, filter school.ClassSubjectFilter, page core.PageRequest) (core.Page[school.ClassSubject], error) {
	var conds []sq.Sqlizer
	if filter.ClassID != 0 {
		conds = append(conds, sq.Eq{"class_id": filter.ClassID})
	}
	if filter.SubjectID != 0 {
		conds = append(conds, sq.Eq{"subject_id": filter.SubjectID})
	}
	return repo.list(ctx, conds, filter.Ordering, page)
}
