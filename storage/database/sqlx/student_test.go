package sqlxrepos_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/school"
	testutil "github.com/trezcool/schooladmin/tests"
)

func TestStudentRepository_RoundTrip(t *testing.T) {
	_, repos := setup(t)
	ctx := context.Background()
	cls := testutil.CreateClass(t, repos, "Grade 5")
	sec := testutil.CreateSection(t, repos, cls.ID, "A")
	dob := school.NewDate(2014, time.May, 17)
	gender := school.GenderFemale

	in := school.NewStudent{
		ClassID:         null.Int64From(cls.ID),
		SectionID:       null.Int64From(sec.ID),
		AdmissionNumber: " ADM-001 ",
		RollNumber:      null.StringFrom("12"),
		Name:            "Jane Doe",
		DateOfBirth:     &dob,
		Gender:          &gender,
		BloodGroup:      null.StringFrom("O+"),
		Email:           null.StringFrom("jane@school.test"),
		ProfileImage:    null.StringFrom("uploads/students/jane.png"),
	}
	created, err := repos.Students.Create(ctx, in)
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.Equal(t, "ADM-001", created.AdmissionNumber)
	assert.Equal(t, school.StudentActive, created.Status)
	require.NotNil(t, created.Gender)
	assert.Equal(t, school.GenderFemale, *created.Gender)
	require.NotNil(t, created.DateOfBirth)
	assert.True(t, school.SameDay(dob, *created.DateOfBirth), "date_of_birth = %v, want %v", created.DateOfBirth, dob)
	assert.Nil(t, created.AdmissionDate)
	assert.False(t, created.Phone.Valid)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repos.Students.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestStudentRepository_Update(t *testing.T) {
	_, repos := setup(t)
	ctx := context.Background()
	cls := testutil.CreateClass(t, repos, "Grade 5")
	st := testutil.CreateStudent(t, repos, "Jane", cls.ID, 0)

	t.Run("unknown id", func(t *testing.T) {
		_, err := repos.Students.Update(ctx, st.ID+100, school.UpdateStudent{Name: ptr("Ghost")})
		var nfErr *core.NotFoundError
		require.ErrorAs(t, err, &nfErr)
		assert.Equal(t, school.EntityStudent, nfErr.Entity)
		assert.Equal(t, st.ID+100, nfErr.ID)

		got, err := repos.Students.Get(ctx, st.ID)
		require.NoError(t, err)
		assert.Equal(t, st, got)
	})

	t.Run("partial", func(t *testing.T) {
		var upd school.UpdateStudent
		require.NoError(t, core.DecodeStrictBytes([]byte(`{"name": "Jane Doe", "class_id": null, "status": "graduated"}`), &upd))
		got, err := repos.Students.Update(ctx, st.ID, upd)
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", got.Name)
		assert.False(t, got.ClassID.Valid)
		assert.Equal(t, school.StudentGraduated, got.Status)
		assert.Equal(t, st.AdmissionNumber, got.AdmissionNumber)
		assert.True(t, got.CreatedAt.Equal(st.CreatedAt), "created_at = %v, want %v", got.CreatedAt, st.CreatedAt)
		assert.False(t, got.UpdatedAt.Before(st.UpdatedAt))
	})

	t.Run("invalid status", func(t *testing.T) {
		status := school.StudentStatus("expelled")
		_, err := repos.Students.Update(ctx, st.ID, school.UpdateStudent{Status: &status})
		assert.True(t, core.IsValidation(err), "err = %v, want validation error", err)
	})
}

func TestStudentRepository_Uniqueness(t *testing.T) {
	_, repos := setup(t)
	ctx := context.Background()
	st := testutil.CreateStudent(t, repos, "Jane", 0, 0)

	_, err := repos.Students.Create(ctx, school.NewStudent{AdmissionNumber: st.AdmissionNumber, Name: "Other"})
	var uErr *core.UniquenessConflictError
	require.ErrorAs(t, err, &uErr)
	assert.Equal(t, []string{"admission_number"}, uErr.Fields)
}

func TestStudentRepository_Pagination(t *testing.T) {
	_, repos := setup(t, 3)
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		testutil.CreateStudent(t, repos, "Student", 0, 0)
	}

	var seen []int64
	for i, wantLen := range []int{3, 3, 1} {
		page, err := repos.Students.List(ctx, school.StudentFilter{}, core.PageRequest{Page: i + 1})
		require.NoError(t, err)
		if len(page.Items) != wantLen {
			t.Errorf("page %d: len(items) = %v, want %v", i+1, len(page.Items), wantLen)
		}
		assert.Equal(t, 7, page.Total)
		assert.Equal(t, 3, page.TotalPages())
		assert.Equal(t, 3, page.PageSize)
		for _, st := range page.Items {
			seen = append(seen, st.ID)
		}
	}
	require.Len(t, seen, 7)
	for i := 1; i < len(seen); i++ {
		if seen[i] >= seen[i-1] {
			t.Errorf("ids not in descending order: %v", seen)
			break
		}
	}

	page, err := repos.Students.List(ctx, school.StudentFilter{}, core.PageRequest{Page: 4})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 7, page.Total)
}

func TestStudentRepository_List(t *testing.T) {
	_, repos := setup(t)
	ctx := context.Background()
	cls := testutil.CreateClass(t, repos, "Grade 5")
	secA := testutil.CreateSection(t, repos, cls.ID, "A")
	secB := testutil.CreateSection(t, repos, cls.ID, "B")
	jane := testutil.CreateStudent(t, repos, "Jane Doe", cls.ID, secA.ID)
	john := testutil.CreateStudent(t, repos, "John Smith", cls.ID, secB.ID)
	lone := testutil.CreateStudent(t, repos, "Lone Ranger", 0, 0)

	tests := []struct {
		name    string
		filter  school.StudentFilter
		wantIDs []int64
		wantErr bool
	}{
		{name: "all", wantIDs: []int64{lone.ID, john.ID, jane.ID}},
		{name: "class", filter: school.StudentFilter{ClassID: cls.ID}, wantIDs: []int64{john.ID, jane.ID}},
		{name: "section", filter: school.StudentFilter{SectionID: secA.ID}, wantIDs: []int64{jane.ID}},
		{name: "search", filter: school.StudentFilter{Search: "SMITH"}, wantIDs: []int64{john.ID}},
		{name: "search admission number", filter: school.StudentFilter{Search: lone.AdmissionNumber}, wantIDs: []int64{lone.ID}},
		{name: "status", filter: school.StudentFilter{Status: school.StudentGraduated}, wantIDs: []int64{}},
		{name: "bad status", filter: school.StudentFilter{Status: "expelled"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repos.Students.List(ctx, tt.filter, core.PageRequest{})
			if tt.wantErr {
				assert.True(t, core.IsValidation(err), "err = %v, want validation error", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, ids(page.Items, func(s school.Student) int64 { return s.ID }))
		})
	}
}

func TestStudentAttendanceRepository(t *testing.T) {
	_, repos := setup(t)
	ctx := context.Background()
	cls := testutil.CreateClass(t, repos, "Grade 5")
	sec := testutil.CreateSection(t, repos, cls.ID, "A")
	st := testutil.CreateStudent(t, repos, "Jane", cls.ID, sec.ID)

	record := func(day int, status school.StudentAttendanceStatus) (school.StudentAttendance, error) {
		return repos.StudentAttendances.Create(ctx, school.NewStudentAttendance{
			StudentID: st.ID, ClassID: cls.ID, SectionID: sec.ID,
			Date:   school.NewDate(2025, time.January, day),
			Status: status,
		})
	}

	first, err := record(10, school.StudentPresent)
	require.NoError(t, err)
	assert.True(t, school.SameDay(school.NewDate(2025, time.January, 10), first.Date))

	t.Run("duplicate day", func(t *testing.T) {
		_, err := record(10, school.StudentAbsent)
		var uErr *core.UniquenessConflictError
		require.ErrorAs(t, err, &uErr)
		assert.ElementsMatch(t, []string{"student_id", "date"}, uErr.Fields)
	})

	t.Run("out of enumeration", func(t *testing.T) {
		_, err := record(11, "vacation")
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Len(t, vErr.Fields, 1)
		assert.Equal(t, "status", vErr.Fields[0].Field)
	})

	_, err = record(11, school.StudentLate)
	require.NoError(t, err)
	_, err = record(14, school.StudentAbsent)
	require.NoError(t, err)

	from, to := school.NewDate(2025, time.January, 11), school.NewDate(2025, time.January, 31)
	tests := []struct {
		name    string
		filter  school.AttendanceFilter
		wantLen int
	}{
		{"student", school.AttendanceFilter{OwnerID: st.ID}, 3},
		{"range", school.AttendanceFilter{From: &from, To: &to}, 2},
		{"from only", school.AttendanceFilter{From: &to}, 0},
		{"status", school.AttendanceFilter{Status: string(school.StudentAbsent)}, 1},
		{"section", school.AttendanceFilter{SectionID: sec.ID}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repos.StudentAttendances.List(ctx, tt.filter, core.PageRequest{})
			require.NoError(t, err)
			assert.Len(t, page.Items, tt.wantLen)
		})
	}

	t.Run("default status", func(t *testing.T) {
		att, err := record(20, "")
		require.NoError(t, err)
		assert.Equal(t, school.StudentPresent, att.Status)
	})
}

func TestParents(t *testing.T) {
	_, repos := setup(t)
	ctx := context.Background()
	st := testutil.CreateStudent(t, repos, "Jane", 0, 0)
	parent, err := repos.Parents.Create(ctx, school.NewParent{
		FatherName:  null.StringFrom("John Doe"),
		MotherPhone: null.StringFrom("+243 800 000 000"),
	})
	require.NoError(t, err)

	link := school.NewStudentParent{StudentID: st.ID, ParentID: parent.ID, Relationship: null.StringFrom("father"), IsPrimaryContact: true}
	created, err := repos.StudentParents.Create(ctx, link)
	require.NoError(t, err)
	assert.True(t, created.IsPrimaryContact)

	_, err = repos.StudentParents.Create(ctx, link)
	assert.True(t, core.IsUniquenessConflict(err), "err = %v, want uniqueness conflict", err)

	page, err := repos.Parents.List(ctx, school.ParentFilter{Search: "800 000"}, core.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, []int64{parent.ID}, ids(page.Items, func(p school.ParentModel) int64 { return p.ID }))

	// deleting the student drops the link but keeps the parent
	require.NoError(t, repos.Students.Delete(ctx, st.ID))
	_, err = repos.StudentParents.Get(ctx, created.ID)
	assert.True(t, core.IsNotFound(err), "err = %v, want not found", err)
	_, err = repos.Parents.Get(ctx, parent.ID)
	assert.NoError(t, err)
}
