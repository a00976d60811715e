package sqlxrepos

import "github.com/trezcool/schooladmin/core/school"

// NewRepositories builds every school repository on the given store.
func NewRepositories(s *Store) school.Repositories {
	return school.Repositories{
		Classes:            NewClassRepository(s),
		Sections:           NewSectionRepository(s),
		Subjects:           NewSubjectRepository(s),
		ClassSubjects:      NewClassSubjectRepository(s),
		Teachers:           NewTeacherRepository(s),
		TeacherSubjects:    NewTeacherSubjectRepository(s),
		Students:           NewStudentRepository(s),
		Parents:            NewParentRepository(s),
		StudentParents:     NewStudentParentRepository(s),
		StudentAttendances: NewStudentAttendanceRepository(s),
		TeacherAttendances: NewTeacherAttendanceRepository(s),
		Exams:              NewExamRepository(s),
		ExamResults:        NewExamResultRepository(s),
		Fees:               NewFeeRepository(s),
		FeePayments:        NewFeePaymentRepository(s),
		Assignments:        NewAssignmentRepository(s),
		Announcements:      NewAnnouncementRepository(s),
		Timetables:         NewTimetableRepository(s),
		Employees:          NewEmployeeRepository(s),
		Queries:            NewQueries(s),
	}
}
