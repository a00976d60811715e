package sqlxrepos_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"gorm.io/datatypes"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/school"
	"github.com/trezcool/schooladmin/core/user"
	sqlxrepos "github.com/trezcool/schooladmin/storage/database/sqlx"
	testutil "github.com/trezcool/schooladmin/tests"
)

func setup(t *testing.T, pageSize ...int) (*sqlxrepos.Store, school.Repositories) {
	t.Helper()
	store := testutil.NewStore(t, pageSize...)
	return store, sqlxrepos.NewRepositories(store)
}

func count(t *testing.T, store *sqlxrepos.Store, query string, args ...interface{}) int {
	t.Helper()
	var n int
	require.NoError(t, store.DB().Get(&n, store.DB().Rebind(query), args...))
	return n
}

func TestSectionRepository_DuplicateName(t *testing.T) {
	_, repos := setup(t)
	ctx := context.Background()
	grade5 := testutil.CreateClass(t, repos, "Grade 5")
	grade6 := testutil.CreateClass(t, repos, "Grade 6")
	testutil.CreateSection(t, repos, grade5.ID, "A")

	_, err := repos.Sections.Create(ctx, school.NewSection{ClassID: grade5.ID, Name: "A"})
	require.Error(t, err)
	assert.True(t, core.IsUniquenessConflict(err), "err = %v, want uniqueness conflict", err)

	var uErr *core.UniquenessConflictError
	require.ErrorAs(t, err, &uErr)
	assert.Equal(t, school.EntitySection, uErr.Entity)
	assert.ElementsMatch(t, []string{"class_id", "name"}, uErr.Fields)

	// the same name is fine in another class
	_, err = repos.Sections.Create(ctx, school.NewSection{ClassID: grade6.ID, Name: "A"})
	assert.NoError(t, err)
}

func TestCreate_MissingReference(t *testing.T) {
	_, repos := setup(t)
	ctx := context.Background()

	_, err := repos.Sections.Create(ctx, school.NewSection{ClassID: 404, Name: "A"})
	var riErr *core.ReferentialIntegrityError
	require.ErrorAs(t, err, &riErr)
	assert.Equal(t, school.EntitySection, riErr.Entity)
	assert.Equal(t, "class_id", riErr.Field)
	assert.Equal(t, school.EntityClass, riErr.RefEntity)
	assert.Equal(t, int64(404), riErr.RefID)
}

func TestClassRepository_DeleteCascades(t *testing.T) {
	store, repos := setup(t)
	ctx := context.Background()
	admin := testutil.CreateUser(t, sqlxrepos.NewUserRepository(store), "Admin", "admin@school.test", "", user.RoleAdmin)

	cls := testutil.CreateClass(t, repos, "Grade 5")
	other := testutil.CreateClass(t, repos, "Grade 6")
	sec := testutil.CreateSection(t, repos, cls.ID, "A")
	otherSec := testutil.CreateSection(t, repos, other.ID, "A")
	sub := testutil.CreateSubject(t, repos, "Maths")
	tch := testutil.CreateTeacher(t, repos, "Ada", "Lovelace")
	st := testutil.CreateStudent(t, repos, "Jane", cls.ID, sec.ID)
	otherSt := testutil.CreateStudent(t, repos, "John", other.ID, otherSec.ID)
	testutil.CreateFee(t, repos, cls.ID, "150.00")
	testutil.CreateExam(t, repos, cls.ID, sub.ID)

	_, err := repos.ClassSubjects.Create(ctx, school.NewClassSubject{ClassID: cls.ID, SubjectID: sub.ID})
	require.NoError(t, err)
	_, err = repos.Timetables.Create(ctx, school.NewTimetable{
		ClassID: cls.ID, SectionID: sec.ID, SubjectID: sub.ID, TeacherID: tch.ID,
		DayOfWeek: school.Monday, StartTime: datatypes.NewTime(8, 0, 0, 0), EndTime: datatypes.NewTime(9, 0, 0, 0),
	})
	require.NoError(t, err)
	_, err = repos.Assignments.Create(ctx, school.NewAssignment{
		Title: "Fractions", ClassID: cls.ID, SectionID: sec.ID, SubjectID: sub.ID, TeacherID: tch.ID,
		AssignedDate: school.NewDate(2025, 1, 6), DueDate: school.NewDate(2025, 1, 13),
	})
	require.NoError(t, err)
	scoped, err := repos.Announcements.Create(ctx, school.NewAnnouncement{
		Title: "Trip", Content: "Zoo on friday", UserID: admin.ID,
		TargetAudience: school.AudienceSpecificClass, ClassID: null.Int64From(cls.ID),
		PublishDate: school.NewDate(2025, 1, 6),
	})
	require.NoError(t, err)
	global, err := repos.Announcements.Create(ctx, school.NewAnnouncement{
		Title: "Holiday", Content: "School closed", UserID: admin.ID, PublishDate: school.NewDate(2025, 1, 6),
	})
	require.NoError(t, err)

	require.NoError(t, repos.Classes.Delete(ctx, cls.ID))

	for _, table := range []string{"sections", "fees", "exams", "timetables", "assignments", "announcements", "class_subject", "teacher_subject"} {
		if n := count(t, store, "SELECT COUNT(*) FROM "+table+" WHERE class_id = ?", cls.ID); n != 0 {
			t.Errorf("%s rows of deleted class = %v, want 0", table, n)
		}
	}

	// students are detached, not deleted
	got, err := repos.Students.Get(ctx, st.ID)
	require.NoError(t, err)
	assert.False(t, got.ClassID.Valid, "class_id = %v, want NULL", got.ClassID)
	assert.False(t, got.SectionID.Valid, "section_id = %v, want NULL", got.SectionID)

	// nothing else is touched
	_, err = repos.Students.Get(ctx, otherSt.ID)
	assert.NoError(t, err)
	_, err = repos.Sections.Get(ctx, otherSec.ID)
	assert.NoError(t, err)
	_, err = repos.Subjects.Get(ctx, sub.ID)
	assert.NoError(t, err)
	_, err = repos.Announcements.Get(ctx, global.ID)
	assert.NoError(t, err)
	_, err = repos.Announcements.Get(ctx, scoped.ID)
	assert.True(t, core.IsNotFound(err), "err = %v, want not found", err)

	if n := count(t, store, `SELECT COUNT(*) FROM students s
		WHERE s.class_id IS NOT NULL AND NOT EXISTS (SELECT 1 FROM classes c WHERE c.id = s.class_id)`); n != 0 {
		t.Errorf("students with a dangling class_id = %v, want 0", n)
	}
}

func TestTeacherRepository_DeleteDetachesSections(t *testing.T) {
	_, repos := setup(t)
	ctx := context.Background()
	cls := testutil.CreateClass(t, repos, "Grade 5")
	tch := testutil.CreateTeacher(t, repos, "Ada", "Lovelace")
	sec, err := repos.Sections.Create(ctx, school.NewSection{ClassID: cls.ID, Name: "A", ClassTeacherID: null.Int64From(tch.ID)})
	require.NoError(t, err)
	require.Equal(t, null.Int64From(tch.ID), sec.ClassTeacherID)

	require.NoError(t, repos.Teachers.Delete(ctx, tch.ID))

	got, err := repos.Sections.Get(ctx, sec.ID)
	require.NoError(t, err)
	assert.False(t, got.ClassTeacherID.Valid, "class_teacher_id = %v, want NULL", got.ClassTeacherID)

	// and the other way around, deleting a section leaves its teacher alone
	tch = testutil.CreateTeacher(t, repos, "Alan", "Turing")
	sec, err = repos.Sections.Update(ctx, sec.ID, school.UpdateSection{ClassTeacherID: core.Set(null.Int64From(tch.ID))})
	require.NoError(t, err)
	require.NoError(t, repos.Sections.Delete(ctx, sec.ID))
	_, err = repos.Teachers.Get(ctx, tch.ID)
	assert.NoError(t, err)
}

func TestSubjectRepository_Validation(t *testing.T) {
	_, repos := setup(t)
	_, err := repos.Subjects.Create(context.Background(), school.NewSubject{
		Name: "Maths", Code: "MTH", TotalMarks: ptr(50), PassingMarks: ptr(60),
	})
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Fields, 1)
	assert.Equal(t, "passing_marks", vErr.Fields[0].Field)
}

func TestClassRepository_List(t *testing.T) {
	_, repos := setup(t)
	ctx := context.Background()
	g5 := testutil.CreateClass(t, repos, "Grade 5")
	g6 := testutil.CreateClass(t, repos, "Grade 6")
	arts, err := repos.Classes.Create(ctx, school.NewSchoolClass{Name: "Arts club", IsActive: ptr(false)})
	require.NoError(t, err)

	tests := []struct {
		name    string
		filter  school.ClassFilter
		wantIDs []int64
	}{
		{"all, newest first", school.ClassFilter{}, []int64{arts.ID, g6.ID, g5.ID}},
		{"search ignores case", school.ClassFilter{Search: "grade"}, []int64{g6.ID, g5.ID}},
		{"inactive", school.ClassFilter{IsActive: ptr(false)}, []int64{arts.ID}},
		{"by name", school.ClassFilter{Ordering: core.ParseOrdering("name")}, []int64{arts.ID, g5.ID, g6.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repos.Classes.List(ctx, tt.filter, core.PageRequest{})
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, ids(page.Items, func(c school.SchoolClass) int64 { return c.ID }))
			assert.Equal(t, len(tt.wantIDs), page.Total)
		})
	}

	_, err = repos.Classes.List(ctx, school.ClassFilter{Ordering: core.ParseOrdering("password")}, core.PageRequest{})
	assert.True(t, core.IsValidation(err), "err = %v, want validation error", err)
}

func ids[T any](items []T, id func(T) int64) []int64 {
	out := make([]int64, 0, len(items))
	for _, item := range items {
		out = append(out, id(item))
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}
