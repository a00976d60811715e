package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/school"
)

type studentRepository struct {
	crud[school.Student, school.NewStudent, school.UpdateStudent]
}

var _ school.StudentRepository = (*studentRepository)(nil)

func NewStudentRepository(s *Store) *studentRepository {
	return &studentRepository{crud[school.Student, school.NewStudent, school.UpdateStudent]{
		Store:    s,
		table:    "students",
		entity:   school.EntityStudent,
		sortable: []string{"name", "admission_number", "roll_number", "admission_date", "created_at"},
		row: func(in school.NewStudent) map[string]interface{} {
			return map[string]interface{}{
				"user_id":          in.UserID,
				"class_id":         in.ClassID,
				"section_id":       in.SectionID,
				"admission_number": in.AdmissionNumber,
				"roll_number":      in.RollNumber,
				"name":             in.Name,
				"date_of_birth":    in.DateOfBirth,
				"gender":           null.StringFromPtr((*string)(in.Gender)),
				"blood_group":      in.BloodGroup,
				"email":            in.Email,
				"phone":            in.Phone,
				"address":          in.Address,
				"profile_image":    in.ProfileImage,
				"admission_date":   in.AdmissionDate,
				"status":           string(in.Status),
			}
		},
		refs: func(in school.NewStudent) []fkRef {
			return []fkRef{
				nullRef("user_id", school.EntityUser, "users", in.UserID),
				nullRef("class_id", school.EntityClass, "classes", in.ClassID),
				nullRef("section_id", school.EntitySection, "sections", in.SectionID),
			}
		},
		merge: school.UpdateStudent.Apply,
	}}
}

func (repo *studentRepository) List(ctx context.Context, filter school.StudentFilter, page core.PageRequest) (core.Page[school.Student], error) {
	var conds []sq.Sqlizer
	if filter.Search != "" {
		conds = append(conds, repo.search(filter.Search, "name", "admission_number", "email"))
	}
	if filter.ClassID != 0 {
		conds = append(conds, sq.Eq{"class_id": filter.ClassID})
	}
	if filter.SectionID != 0 {
		conds = append(conds, sq.Eq{"section_id": filter.SectionID})
	}
	if filter.Status != "" {
		if !filter.Status.IsValid() {
			return core.Page[school.Student]{}, invalidFilter("status", filter.Status)
		}
		conds = append(conds, sq.Eq{"status": string(filter.Status)})
	}
	return repo.list(ctx, conds, filter.Ordering, page)
}

type parentRepository struct {
	crud[school.ParentModel, school.NewParent, school.UpdateParent]
}

var _ school.ParentRepository = (*parentRepository)(nil)

func NewParentRepository(s *Store) *parentRepository {
	return &parentRepository{crud[school.ParentModel, school.NewParent, school.UpdateParent]{
		Store:    s,
		table:    "parents",
		entity:   school.EntityParent,
		sortable: []string{"father_name", "mother_name", "created_at"},
		row: func(in school.NewParent) map[string]interface{} {
			return map[string]interface{}{
				"user_id":           in.UserID,
				"father_name":       in.FatherName,
				"father_phone":      in.FatherPhone,
				"father_email":      in.FatherEmail,
				"father_occupation": in.FatherOccupation,
				"mother_name":       in.MotherName,
				"mother_phone":      in.MotherPhone,
				"mother_email":      in.MotherEmail,
				"mother_occupation": in.MotherOccupation,
				"address":           in.Address,
				"emergency_contact": in.EmergencyContact,
			}
		},
		refs: func(in school.NewParent) []fkRef {
			return []fkRef{nullRef("user_id", school.EntityUser, "users", in.UserID)}
		},
		merge: school.UpdateParent.Apply,
	}}
}

func (repo *parentRepository) List(ctx context.Context, filter school.ParentFilter, page core.PageRequest) (core.Page[school.ParentModel], error) {
	var conds []sq.Sqlizer
	if filter.Search != "" {
		conds = append(conds, repo.search(filter.Search,
			"father_name", "father_phone", "father_email", "mother_name", "mother_phone", "mother_email"))
	}
	return repo.list(ctx, conds, filter.Ordering, page)
}

type studentParentRepository struct {
	crud[school.StudentParent, school.NewStudentParent, school.UpdateStudentParent]
}

var _ school.StudentParentRepository = (*studentParentRepository)(nil)

func NewStudentParentRepository(s *Store) *studentParentRepository {
	return &studentParentRepository{crud[school.StudentParent, school.NewStudentParent, school.UpdateStudentParent]{
		Store:    s,
		table:    "student_parent",
		entity:   school.EntityStudentParent,
		sortable: []string{"student_id", "parent_id", "created_at"},
		row: func(in school.NewStudentParent) map[string]interface{} {
			return map[string]interface{}{
				"student_id":         in.StudentID,
				"parent_id":          in.ParentID,
				"relationship":       in.Relationship,
				"is_primary_contact": in.IsPrimaryContact,
			}
		},
		refs: func(in school.NewStudentParent) []fkRef {
			return []fkRef{
				ref("student_id", school.EntityStudent, "students", in.StudentID),
				ref("parent_id", school.EntityParent, "parents", in.ParentID),
			}
		},
		merge: school.UpdateStudentParent.Apply,
	}}
}

func (repo *studentParentRepository) List(ctx context.Context, filter school.StudentParentFilter, page core.PageRequest) (core.Page[school.StudentParent], error) {
	var conds []sq.Sqlizer
	if filter.StudentID != 0 {
		conds = append(conds, sq.Eq{"student_id": filter.StudentID})
	}
	if filter.ParentID != 0 {
		conds = append(conds, sq.Eq{"parent_id": filter.ParentID})
	}
	if filter.IsPrimaryContact != nil {
		conds = append(conds, sq.Eq{"is_primary_contact": *filter.IsPrimaryContact})
	}
	return repo.list(ctx, conds, filter.Ordering, page)
}

type studentAttendanceRepository struct {
	crud[school.StudentAttendance, school.NewStudentAttendance, school.UpdateStudentAttendance]
}

var _ school.StudentAttendanceRepository = (*studentAttendanceRepository)(nil)

func NewStudentAttendanceRepository(s *Store) *studentAttendanceRepository {
	return &studentAttendanceRepository{crud[school.StudentAttendance, school.NewStudentAttendance, school.UpdateStudentAttendance]{
		Store:    s,
		table:    "student_attendances",
		entity:   school.EntityStudentAttendance,
		sortable: []string{"date", "student_id", "status", "created_at"},
		row: func(in school.NewStudentAttendance) map[string]interface{} {
			return map[string]interface{}{
				"student_id": in.StudentID,
				"class_id":   in.ClassID,
				"section_id": in.SectionID,
				"date":       in.Date,
				"status":     string(in.Status),
				"remarks":    in.Remarks,
			}
		},
		refs: func(in school.NewStudentAttendance) []fkRef {
			return []fkRef{
				ref("student_id", school.EntityStudent, "students", in.StudentID),
				ref("class_id", school.EntityClass, "classes", in.ClassID),
				ref("section_id", school.EntitySection, "sections", in.SectionID),
			}
		},
		merge: school.UpdateStudentAttendance.Apply,
	}}
}

func (repo *studentAttendanceRepository) List(ctx context.Context, filter school.AttendanceFilter, page core.PageRequest) (core.Page[school.StudentAttendance], error) {
	conds := dateRange("date", filter.From, filter.To)
	if filter.OwnerID != 0 {
		conds = append(conds, sq.Eq{"student_id": filter.OwnerID})
	}
	if filter.ClassID != 0 {
		conds = append(conds, sq.Eq{"class_id": filter.ClassID})
	}
	if filter.SectionID != 0 {
		conds = append(conds, sq.Eq{"section_id": filter.SectionID})
	}
	if filter.Status != "" {
		if !school.StudentAttendanceStatus(filter.Status).IsValid() {
			return core.Page[school.StudentAttendance]{}, invalidFilter("status", school.StudentAttendanceStatus(filter.Status))
		}
		conds = append(conds, sq.Eq{"status": filter.Status})
	}
	return repo.list(ctx, conds, filter.Ordering, page)
}
