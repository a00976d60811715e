package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/school"
)

type examRepository struct {
	crud[school.Exam, school.NewExam, school.UpdateExam]
}

var _ school.ExamRepository = (*examRepository)(nil)

func NewExamRepository(s *Store) *examRepository {
	return &examRepository{crud[school.Exam, school.NewExam, school.UpdateExam]{
		Store:    s,
		table:    "exams",
		entity:   school.EntityExam,
		sortable: []string{"exam_date", "start_time", "name", "exam_code", "created_at"},
		row: func(in school.NewExam) map[string]interface{} {
			return map[string]interface{}{
				"name":          in.Name,
				"exam_code":     in.ExamCode,
				"class_id":      in.ClassID,
				"subject_id":    in.SubjectID,
				"exam_date":     in.ExamDate,
				"start_time":    in.StartTime,
				"end_time":      in.EndTime,
				"total_marks":   int64(*in.TotalMarks),
				"passing_marks": int64(*in.PassingMarks),
				"instructions":  in.Instructions,
				"status":        string(in.Status),
			}
		},
		refs: func(in school.NewExam) []fkRef {
			return []fkRef{
				ref("class_id", school.EntityClass, "classes", in.ClassID),
				ref("subject_id", school.EntitySubject, "subjects", in.SubjectID),
			}
		},
		merge: school.UpdateExam.Apply,
	}}
}

func (repo *examRepository) List(ctx context.Context, filter school.ExamFilter, page core.PageRequest) (core.Page[school.Exam], error) {
	conds := dateRange("exam_date", filter.From, filter.To)
	if filter.ClassID != 0 {
		conds = append(conds, sq.Eq{"class_id": filter.ClassID})
	}
	if filter.SubjectID != 0 {
		conds = append(conds, sq.Eq{"subject_id": filter.SubjectID})
	}
	if filter.Status != "" {
		if !filter.Status.IsValid() {
			return core.Page[school.Exam]{}, invalidFilter("status", filter.Status)
		}
		conds = append(conds, sq.Eq{"status": string(filter.Status)})
	}
	return repo.list(ctx, conds, filter.Ordering, page)
}

type examResultRepository struct {
	crud[school.ExamResult, school.NewExamResult, school.UpdateExamResult]
}

var _ school.ExamResultRepository = (*examResultRepository)(nil)

func NewExamResultRepository(s *Store) *examResultRepository {
	return &examResultRepository{crud[school.ExamResult, school.NewExamResult, school.UpdateExamResult]{
		Store:    s,
		table:    "exam_results",
		entity:   school.EntityExamResult,
		sortable: []string{"obtained_marks", "percentage", "created_at"},
		row: func(in school.NewExamResult) map[string]interface{} {
			return map[string]interface{}{
				"exam_id":        in.ExamID,
				"student_id":     in.StudentID,
				"obtained_marks": in.ObtainedMarks,
				"grade":          in.Grade,
				"percentage":     in.Percentage,
				"remarks":        in.Remarks,
				"status":         string(in.Status),
			}
		},
		refs: func(in school.NewExamResult) []fkRef {
			return []fkRef{
				ref("exam_id", school.EntityExam, "exams", in.ExamID),
				ref("student_id", school.EntityStudent, "students", in.StudentID),
			}
		},
		merge: school.UpdateExamResult.Apply,
	}}
}

func (repo *examResultRepository) List(ctx context.Context, filter school.ExamResultFilter, page core.PageRequest) (core.Page[school.ExamResult], error) {
	var conds []sq.Sqlizer
	if filter.ExamID != 0 {
		conds = append(conds, sq.Eq{"exam_id": filter.ExamID})
	}
	if filter.StudentID != 0 {
		conds = append(conds, sq.Eq{"student_id": filter.StudentID})
	}
	if filter.Status != "" {
		if !filter.Status.IsValid() {
			return core.Page[school.ExamResult]{}, invalidFilter("status", filter.Status)
		}
		conds = append(conds, sq.Eq{"status": string(filter.Status)})
	}
	return repo.list(ctx, conds, filter.Ordering, page)
}
