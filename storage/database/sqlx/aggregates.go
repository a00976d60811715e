package sqlxrepos

import (
	"cmp"
	"context"
	"database/sql"
	"slices"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/school"
	"github.com/trezcool/schooladmin/core/user"
)

type queries struct {
	*Store
}

var _ school.Queries = (*queries)(nil)

func NewQueries(s *Store) *queries {
	return &queries{Store: s}
}

// one loads the first row matched by qb, nil when there is none.
func one[T any](ctx context.Context, exec core.DBExecutor, qb sq.SelectBuilder) (*T, error) {
	q, args, err := qb.Limit(1).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building select query")
	}
	var item T
	if err = exec.GetContext(ctx, &item, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// byID loads a related row, nil when the reference is NULL or dangling.
func byID[T any](ctx context.Context, qs *queries, table string, id int64, valid bool) (*T, error) {
	if !valid {
		return nil, nil
	}
	item, err := one[T](ctx, qs.db, qs.sb.Select("*").From(table).Where(sq.Eq{"id": id}))
	return item, errors.Wrapf(err, "loading %s", table)
}

// root loads the entity a query is about.
func root[T any](ctx context.Context, qs *queries, table, entity string, id int64) (T, error) {
	item, err := byID[T](ctx, qs, table, id, true)
	if err != nil {
		var zero T
		return zero, err
	}
	if item == nil {
		var zero T
		return zero, core.NewNotFoundError(entity, id)
	}
	return *item, nil
}

func (qs *queries) StudentProfile(ctx context.Context, studentID int64) (school.StudentProfile, error) {
	var (
		p   school.StudentProfile
		err error
	)
	if p.Student, err = root[school.Student](ctx, qs, "students", school.EntityStudent, studentID); err != nil {
		return p, err
	}
	st := p.Student
	if p.Class, err = byID[school.SchoolClass](ctx, qs, "classes", st.ClassID.Int64, st.ClassID.Valid); err != nil {
		return p, err
	}
	if p.Section, err = byID[school.Section](ctx, qs, "sections", st.SectionID.Int64, st.SectionID.Valid); err != nil {
		return p, err
	}
	if p.User, err = byID[user.User](ctx, qs, usersTable, st.UserID.Int64, st.UserID.Valid); err != nil {
		return p, err
	}
	if p.Parents, err = qs.guardians(ctx, studentID); err != nil {
		return p, err
	}

	p.LastAttendance, err = one[school.StudentAttendance](ctx, qs.db, qs.sb.
		Select("*").From("student_attendances").
		Where(sq.Eq{"student_id": studentID}).
		OrderBy("date DESC"))
	if err != nil {
		return p, errors.Wrap(err, "loading last attendance")
	}

	p.ExamResults, err = selectAll[school.ExamResult](ctx, qs.db, qs.sb.
		Select("*").From("exam_results").
		Where(sq.Eq{"student_id": studentID}).
		OrderBy("id"))
	if err != nil {
		return p, errors.Wrap(err, "loading exam results")
	}

	p.FeePayments, err = selectAll[school.FeePayment](ctx, qs.db, qs.sb.
		Select("*").From("fee_payments").
		Where(sq.Eq{"student_id": studentID}).
		OrderBy("payment_date DESC", "id DESC"))
	return p, errors.Wrap(err, "loading fee payments")
}

type guardianRow struct {
	school.ParentModel
	Relationship     sql.NullString `db:"relationship"`
	IsPrimaryContact bool           `db:"is_primary_contact"`
}

func (qs *queries) guardians(ctx context.Context, studentID int64) ([]school.StudentGuardian, error) {
	rows, err := selectAll[guardianRow](ctx, qs.db, qs.sb.
		Select("p.*", "sp.relationship", "sp.is_primary_contact").
		From("parents p").
		Join("student_parent sp ON sp.parent_id = p.id").
		Where(sq.Eq{"sp.student_id": studentID}).
		OrderBy("sp.is_primary_contact DESC", "p.id"))
	if err != nil {
		return nil, errors.Wrap(err, "loading parents")
	}
	guardians := make([]school.StudentGuardian, 0, len(rows))
	for _, r := range rows {
		guardians = append(guardians, school.StudentGuardian{
			Parent:           r.ParentModel,
			Relationship:     r.Relationship.String,
			IsPrimaryContact: r.IsPrimaryContact,
		})
	}
	return guardians, nil
}

func (qs *queries) StudentHistory(ctx context.Context, studentID int64, from, to core.Date) (school.StudentHistory, error) {
	h := school.StudentHistory{From: day(from), To: day(to), Summary: school.AttendanceSummary{}}
	var err error
	if h.Student, err = root[school.Student](ctx, qs, "students", school.EntityStudent, studentID); err != nil {
		return h, err
	}

	atts := qs.sb.Select("*").From("student_attendances").Where(sq.Eq{"student_id": studentID})
	for _, cond := range dateRange("date", &h.From, &h.To) {
		atts = atts.Where(cond)
	}
	if h.Attendances, err = selectAll[school.StudentAttendance](ctx, qs.db, atts.OrderBy("date")); err != nil {
		return h, errors.Wrap(err, "loading attendances")
	}
	for _, a := range h.Attendances {
		h.Summary[a.Status]++
	}

	payments := qs.sb.Select("*").From("fee_payments").Where(sq.Eq{"student_id": studentID})
	for _, cond := range dateRange("payment_date", &h.From, &h.To) {
		payments = payments.Where(cond)
	}
	if h.FeePayments, err = selectAll[school.FeePayment](ctx, qs.db, payments.OrderBy("payment_date", "id")); err != nil {
		return h, errors.Wrap(err, "loading fee payments")
	}
	h.TotalPaid = school.SumSettled(h.FeePayments)
	return h, nil
}

func (qs *queries) ClassOverview(ctx context.Context, classID int64) (school.ClassOverview, error) {
	var (
		o   school.ClassOverview
		err error
	)
	if o.Class, err = root[school.SchoolClass](ctx, qs, "classes", school.EntityClass, classID); err != nil {
		return o, err
	}
	byClass := sq.Eq{"class_id": classID}

	if o.Sections, err = selectAll[school.Section](ctx, qs.db, qs.sb.Select("*").From("sections").Where(byClass).OrderBy("name")); err != nil {
		return o, errors.Wrap(err, "loading sections")
	}
	o.Subjects, err = selectAll[school.Subject](ctx, qs.db, qs.sb.
		Select("s.*").From("subjects s").
		Join("class_subject cs ON cs.subject_id = s.id").
		Where(sq.Eq{"cs.class_id": classID}).
		OrderBy("s.name"))
	if err != nil {
		return o, errors.Wrap(err, "loading subjects")
	}
	if o.Fees, err = selectAll[school.Fee](ctx, qs.db, qs.sb.Select("*").From("fees").Where(byClass).OrderBy("fee_type")); err != nil {
		return o, errors.Wrap(err, "loading fees")
	}
	if o.Exams, err = selectAll[school.Exam](ctx, qs.db, qs.sb.Select("*").From("exams").Where(byClass).OrderBy("exam_date", "start_time")); err != nil {
		return o, errors.Wrap(err, "loading exams")
	}

	q, args, err := qs.sb.Select("COUNT(*)").From("students").Where(byClass).ToSql()
	if err != nil {
		return o, errors.Wrap(err, "building student count")
	}
	err = qs.db.GetContext(ctx, &o.StudentCount, q, args...)
	return o, errors.Wrap(err, "counting students")
}

func (qs *queries) TeacherProfile(ctx context.Context, teacherID int64) (school.TeacherProfile, error) {
	var (
		p   school.TeacherProfile
		err error
	)
	if p.Teacher, err = root[school.Teacher](ctx, qs, "teachers", school.EntityTeacher, teacherID); err != nil {
		return p, err
	}
	if p.User, err = byID[user.User](ctx, qs, usersTable, p.Teacher.UserID.Int64, p.Teacher.UserID.Valid); err != nil {
		return p, err
	}
	byTeacher := sq.Eq{"teacher_id": teacherID}

	links, err := selectAll[school.TeacherSubject](ctx, qs.db, qs.sb.Select("*").From("teacher_subject").Where(byTeacher).OrderBy("id"))
	if err != nil {
		return p, errors.Wrap(err, "loading subject assignments")
	}
	subjects, err := qs.subjectsByID(ctx, links)
	if err != nil {
		return p, err
	}
	p.Subjects = make([]school.TeachingAssignment, 0, len(links))
	for _, link := range links {
		p.Subjects = append(p.Subjects, school.TeachingAssignment{TeacherSubject: link, Subject: subjects[link.SubjectID]})
	}

	p.ClassSections, err = selectAll[school.Section](ctx, qs.db, qs.sb.
		Select("*").From("sections").
		Where(sq.Eq{"class_teacher_id": teacherID}).
		OrderBy("class_id", "name"))
	if err != nil {
		return p, errors.Wrap(err, "loading class sections")
	}

	p.LastAttendance, err = one[school.TeacherAttendance](ctx, qs.db, qs.sb.
		Select("*").From("teacher_attendances").
		Where(byTeacher).
		OrderBy("date DESC"))
	if err != nil {
		return p, errors.Wrap(err, "loading last attendance")
	}

	p.Timetable, err = selectAll[school.Timetable](ctx, qs.db, qs.sb.Select("*").From("timetables").Where(byTeacher))
	if err != nil {
		return p, errors.Wrap(err, "loading timetable")
	}
	slices.SortStableFunc(p.Timetable, func(a, b school.Timetable) int {
		if c := cmp.Compare(a.DayOfWeek.Index(), b.DayOfWeek.Index()); c != 0 {
			return c
		}
		return cmp.Compare(a.StartTime, b.StartTime)
	})
	return p, nil
}

func (qs *queries) subjectsByID(ctx context.Context, links []school.TeacherSubject) (map[int64]school.Subject, error) {
	byID := make(map[int64]school.Subject, len(links))
	if len(links) == 0 {
		return byID, nil
	}
	ids := make([]int64, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.SubjectID)
	}
	subjects, err := selectAll[school.Subject](ctx, qs.db, qs.sb.Select("*").From("subjects").Where(sq.Eq{"id": ids}))
	if err != nil {
		return nil, errors.Wrap(err, "loading subjects")
	}
	for _, s := range subjects {
		byID[s.ID] = s
	}
	return byID, nil
}
