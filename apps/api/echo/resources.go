package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/school"
)

// resourceApi serves the CRUD endpoints of one school entity.
// Reads are open to any authenticated user; writes require an admin.
type resourceApi[T, N, U, F any] struct {
	entity     string
	repo       school.Repository[T, N, U, F]
	bindFilter func(queryBinder, *F)
}

func registerResource[T, N, U, F any](
	g *echo.Group,
	path, entity string,
	repo school.Repository[T, N, U, F],
	bindFilter func(queryBinder, *F),
) {
	api := resourceApi[T, N, U, F]{entity: entity, repo: repo, bindFilter: bindFilter}

	rg := g.Group(path)
	rg.GET("", api.list)
	rg.POST("", api.create, adminMiddleware)
	rg.GET("/:id", api.retrieve)
	rg.PATCH("/:id", api.update, adminMiddleware)
	rg.DELETE("/:id", api.destroy, adminMiddleware)
}

func (api resourceApi[T, N, U, F]) list(ctx echo.Context) error {
	var (
		filter F
		page   core.PageRequest
	)
	b := newQueryBinder(ctx)
	b.page(&page)
	api.bindFilter(b, &filter)
	if err := b.bindErr(); err != nil {
		return err
	}

	res, err := api.repo.List(ctx.Request().Context(), filter, page)
	if err != nil {
		return errors.Wrapf(err, "listing %ss", api.entity)
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api resourceApi[T, N, U, F]) create(ctx echo.Context) error {
	var data N
	if err := bindJSON(ctx, &data); err != nil {
		return err
	}

	obj, err := api.repo.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrapf(err, "creating %s", api.entity)
	}
	return ctx.JSON(http.StatusCreated, obj)
}

func (api resourceApi[T, N, U, F]) retrieve(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}

	obj, err := api.repo.Get(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrapf(err, "getting %s", api.entity)
	}
	return ctx.JSON(http.StatusOK, obj)
}

func (api resourceApi[T, N, U, F]) update(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	var data U
	if err = bindJSON(ctx, &data); err != nil {
		return err
	}

	obj, err := api.repo.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrapf(err, "updating %s", api.entity)
	}
	return ctx.JSON(http.StatusOK, obj)
}

func (api resourceApi[T, N, U, F]) destroy(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}

	if err = api.repo.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrapf(err, "deleting %s", api.entity)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func registerSchoolAPI(g *echo.Group, repos school.Repositories) {
	registerResource(g, "/classes", school.EntityClass, repos.Classes, bindClassFilter)
	registerResource(g, "/sections", school.EntitySection, repos.Sections, bindSectionFilter)
	registerResource(g, "/subjects", school.EntitySubject, repos.Subjects, bindSubjectFilter)
	registerResource(g, "/class-subjects", school.EntityClassSubject, repos.ClassSubjects, bindClassSubjectFilter)
	registerResource(g, "/teachers", school.EntityTeacher, repos.Teachers, bindTeacherFilter)
	registerResource(g, "/teacher-subjects", school.EntityTeacherSubject, repos.TeacherSubjects, bindTeacherSubjectFilter)
	registerResource(g, "/students", school.EntityStudent, repos.Students, bindStudentFilter)
	registerResource(g, "/parents", school.EntityParent, repos.Parents, bindParentFilter)
	registerResource(g, "/student-parents", school.EntityStudentParent, repos.StudentParents, bindStudentParentFilter)
	registerResource(g, "/student-attendances", school.EntityStudentAttendance, repos.StudentAttendances, bindAttendanceFilter)
	registerResource(g, "/teacher-attendances", school.EntityTeacherAttendance, repos.TeacherAttendances, bindAttendanceFilter)
	registerResource(g, "/exams", school.EntityExam, repos.Exams, bindExamFilter)
	registerResource(g, "/exam-results", school.EntityExamResult, repos.ExamResults, bindExamResultFilter)
	registerResource(g, "/fees", school.EntityFee, repos.Fees, bindFeeFilter)
	registerResource(g, "/fee-payments", school.EntityFeePayment, repos.FeePayments, bindFeePaymentFilter)
	registerResource(g, "/assignments", school.EntityAssignment, repos.Assignments, bindAssignmentFilter)
	registerResource(g, "/announcements", school.EntityAnnouncement, repos.Announcements, bindAnnouncementFilter)
	registerResource(g, "/timetables", school.EntityTimetable, repos.Timetables, bindTimetableFilter)
	registerResource(g, "/employees", school.EntityEmployee, repos.Employees, bindEmployeeFilter)

	api := queriesApi{queries: repos.Queries}
	g.GET("/students/:id/profile", api.studentProfile)
	g.GET("/students/:id/history", api.studentHistory)
	g.GET("/classes/:id/overview", api.classOverview)
	g.GET("/teachers/:id/profile", api.teacherProfile)
}

type queriesApi struct {
	queries school.Queries
}

func (api queriesApi) studentProfile(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	profile, err := api.queries.StudentProfile(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying student profile")
	}
	return ctx.JSON(http.StatusOK, profile)
}

// studentHistory requires both bounds of the range: ?from=YYYY-MM-DD&to=YYYY-MM-DD
func (api queriesApi) studentHistory(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	var from, to *core.Date
	b := newQueryBinder(ctx)
	b.date("from", &from).date("to", &to)
	if err = b.bindErr(); err != nil {
		return err
	}
	var flds []core.FieldError
	if from == nil {
		flds = append(flds, core.FieldError{Field: "from", Error: "this field is required"})
	}
	if to == nil {
		flds = append(flds, core.FieldError{Field: "to", Error: "this field is required"})
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}

	history, err := api.queries.StudentHistory(ctx.Request().Context(), id, *from, *to)
	if err != nil {
		return errors.Wrap(err, "querying student history")
	}
	return ctx.JSON(http.StatusOK, history)
}

func (api queriesApi) classOverview(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	overview, err := api.queries.ClassOverview(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying class overview")
	}
	return ctx.JSON(http.StatusOK, overview)
}

func (api queriesApi) teacherProfile(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	profile, err := api.queries.TeacherProfile(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying teacher profile")
	}
	return ctx.JSON(http.StatusOK, profile)
}
