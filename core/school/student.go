package school

import (
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooladmin/core"
)

type Student struct {
	ID              int64         `db:"id" json:"id"`
	UserID          null.Int64    `db:"user_id" json:"user_id"`
	ClassID         null.Int64    `db:"class_id" json:"class_id"`
	SectionID       null.Int64    `db:"section_id" json:"section_id"`
	AdmissionNumber string        `db:"admission_number" json:"admission_number"`
	RollNumber      null.String   `db:"roll_number" json:"roll_number"`
	Name            string        `db:"name" json:"name"`
	DateOfBirth     *core.Date    `db:"date_of_birth" json:"date_of_birth"`
	Gender          *Gender       `db:"gender" json:"gender"`
	BloodGroup      null.String   `db:"blood_group" json:"blood_group"`
	Email           null.String   `db:"email" json:"email"`
	Phone           null.String   `db:"phone" json:"phone"`
	Address         null.String   `db:"address" json:"address"`
	ProfileImage    null.String   `db:"profile_image" json:"profile_image"`
	AdmissionDate   *core.Date    `db:"admission_date" json:"admission_date"`
	Status          StudentStatus `db:"status" json:"status"`
	Timestamps
}

type NewStudent struct {
	UserID          null.Int64    `json:"user_id"`
	ClassID         null.Int64    `json:"class_id"`
	SectionID       null.Int64    `json:"section_id"`
	AdmissionNumber string        `json:"admission_number" validate:"required,max=50"`
	RollNumber      null.String   `json:"roll_number" validate:"omitempty,max=50"`
	Name            string        `json:"name" validate:"required,max=255"`
	DateOfBirth     *core.Date    `json:"date_of_birth"`
	Gender          *Gender       `json:"gender" validate:"omitempty,enum"`
	BloodGroup      null.String   `json:"blood_group" validate:"omitempty,max=5"`
	Email           null.String   `json:"email" validate:"omitempty,email,max=255"`
	Phone           null.String   `json:"phone" validate:"omitempty,max=50"`
	Address         null.String   `json:"address"`
	ProfileImage    null.String   `json:"profile_image" validate:"omitempty,max=255"` // stored upload path
	AdmissionDate   *core.Date    `json:"admission_date"`
	Status          StudentStatus `json:"status" validate:"required,enum"` // defaults to active
}

func (in *NewStudent) Clean() {
	in.AdmissionNumber = core.CleanString(in.AdmissionNumber)
	in.Name = core.CleanString(in.Name)
	in.DateOfBirth = cleanDatePtr(in.DateOfBirth)
	in.AdmissionDate = cleanDatePtr(in.AdmissionDate)
	if in.Status == "" {
		in.Status = StudentActive
	}
}

type UpdateStudent struct {
	UserID          core.Optional[null.Int64]  `json:"user_id"`
	ClassID         core.Optional[null.Int64]  `json:"class_id"`
	SectionID       core.Optional[null.Int64]  `json:"section_id"`
	AdmissionNumber *string                    `json:"admission_number"`
	RollNumber      core.Optional[null.String] `json:"roll_number"`
	Name            *string                    `json:"name"`
	DateOfBirth     core.Optional[*core.Date]  `json:"date_of_birth"`
	Gender          core.Optional[*Gender]     `json:"gender"`
	BloodGroup      core.Optional[null.String] `json:"blood_group"`
	Email           core.Optional[null.String] `json:"email"`
	Phone           core.Optional[null.String] `json:"phone"`
	Address         core.Optional[null.String] `json:"address"`
	ProfileImage    core.Optional[null.String] `json:"profile_image"`
	AdmissionDate   core.Optional[*core.Date]  `json:"admission_date"`
	Status          *StudentStatus             `json:"status"`
}

func (u UpdateStudent) Apply(s Student) NewStudent {
	return NewStudent{
		UserID:          u.UserID.Or(s.UserID),
		ClassID:         u.ClassID.Or(s.ClassID),
		SectionID:       u.SectionID.Or(s.SectionID),
		AdmissionNumber: or(u.AdmissionNumber, s.AdmissionNumber),
		RollNumber:      u.RollNumber.Or(s.RollNumber),
		Name:            or(u.Name, s.Name),
		DateOfBirth:     u.DateOfBirth.Or(s.DateOfBirth),
		Gender:          u.Gender.Or(s.Gender),
		BloodGroup:      u.BloodGroup.Or(s.BloodGroup),
		Email:           u.Email.Or(s.Email),
		Phone:           u.Phone.Or(s.Phone),
		Address:         u.Address.Or(s.Address),
		ProfileImage:    u.ProfileImage.Or(s.ProfileImage),
		AdmissionDate:   u.AdmissionDate.Or(s.AdmissionDate),
		Status:          or(u.Status, s.Status),
	}
}

type StudentFilter struct {
	Search    string        `query:"search"` // name, admission_number or email
	ClassID   int64         `query:"class_id"`
	SectionID int64         `query:"section_id"`
	Status    StudentStatus `query:"status"`
	Ordering  []core.DBOrdering
}

// ParentModel holds the guardians' contact details; a parent may be linked to many students.
type ParentModel struct {
	ID               int64       `db:"id" json:"id"`
	UserID           null.Int64  `db:"user_id" json:"user_id"`
	FatherName       null.String `db:"father_name" json:"father_name"`
	FatherPhone      null.String `db:"father_phone" json:"father_phone"`
	FatherEmail      null.String `db:"father_email" json:"father_email"`
	FatherOccupation null.String `db:"father_occupation" json:"father_occupation"`
	MotherName       null.String `db:"mother_name" json:"mother_name"`
	MotherPhone      null.String `db:"mother_phone" json:"mother_phone"`
	MotherEmail      null.String `db:"mother_email" json:"mother_email"`
	MotherOccupation null.String `db:"mother_occupation" json:"mother_occupation"`
	Address          null.String `db:"address" json:"address"`
	EmergencyContact null.String `db:"emergency_contact" json:"emergency_contact"`
	Timestamps
}

type NewParent struct {
	UserID           null.Int64  `json:"user_id"`
	FatherName       null.String `json:"father_name" validate:"omitempty,max=255"`
	FatherPhone      null.String `json:"father_phone" validate:"omitempty,max=50"`
	FatherEmail      null.String `json:"father_email" validate:"omitempty,email,max=255"`
	FatherOccupation null.String `json:"father_occupation" validate:"omitempty,max=255"`
	MotherName       null.String `json:"mother_name" validate:"omitempty,max=255"`
	MotherPhone      null.String `json:"mother_phone" validate:"omitempty,max=50"`
	MotherEmail      null.String `json:"mother_email" validate:"omitempty,email,max=255"`
	MotherOccupation null.String `json:"mother_occupation" validate:"omitempty,max=255"`
	Address          null.String `json:"address"`
	EmergencyContact null.String `json:"emergency_contact" validate:"omitempty,max=50"`
}

type UpdateParent struct {
	UserID           core.Optional[null.Int64]  `json:"user_id"`
	FatherName       core.Optional[null.String] `json:"father_name"`
	FatherPhone      core.Optional[null.String] `json:"father_phone"`
	FatherEmail      core.Optional[null.String] `json:"father_email"`
	FatherOccupation core.Optional[null.String] `json:"father_occupation"`
	MotherName       core.Optional[null.String] `json:"mother_name"`
	MotherPhone      core.Optional[null.String] `json:"mother_phone"`
	MotherEmail      core.Optional[null.String] `json:"mother_email"`
	MotherOccupation core.Optional[null.String] `json:"mother_occupation"`
	Address          core.Optional[null.String] `json:"address"`
	EmergencyContact core.Optional[null.String] `json:"emergency_contact"`
}

func (u UpdateParent) Apply(p ParentModel) NewParent {
	return NewParent{
		UserID:           u.UserID.Or(p.UserID),
		FatherName:       u.FatherName.Or(p.FatherName),
		FatherPhone:      u.FatherPhone.Or(p.FatherPhone),
		FatherEmail:      u.FatherEmail.Or(p.FatherEmail),
		FatherOccupation: u.FatherOccupation.Or(p.FatherOccupation),
		MotherName:       u.MotherName.Or(p.MotherName),
		MotherPhone:      u.MotherPhone.Or(p.MotherPhone),
		MotherEmail:      u.MotherEmail.Or(p.MotherEmail),
		MotherOccupation: u.MotherOccupation.Or(p.MotherOccupation),
		Address:          u.Address.Or(p.Address),
		EmergencyContact: u.EmergencyContact.Or(p.EmergencyContact),
	}
}

type ParentFilter struct {
	Search   string `query:"search"` // father or mother name, phone or email
	Ordering []core.DBOrdering
}

// StudentParent is the student_parent join entity; Relationship and IsPrimaryContact describe the link.
type StudentParent struct {
	ID               int64       `db:"id" json:"id"`
	StudentID        int64       `db:"student_id" json:"student_id"`
	ParentID         int64       `db:"parent_id" json:"parent_id"`
	Relationship     null.String `db:"relationship" json:"relationship"`
	IsPrimaryContact bool        `db:"is_primary_contact" json:"is_primary_contact"`
	Timestamps
}

type NewStudentParent struct {
	StudentID        int64       `json:"student_id" validate:"required"`
	ParentID         int64       `json:"parent_id" validate:"required"`
	Relationship     null.String `json:"relationship" validate:"omitempty,max=50"`
	IsPrimaryContact bool        `json:"is_primary_contact"`
}

type UpdateStudentParent struct {
	StudentID        *int64                     `json:"student_id"`
	ParentID         *int64                     `json:"parent_id"`
	Relationship     core.Optional[null.String] `json:"relationship"`
	IsPrimaryContact *bool                      `json:"is_primary_contact"`
}

func (u UpdateStudentParent) Apply(sp StudentParent) NewStudentParent {
	return NewStudentParent{
		StudentID:        or(u.StudentID, sp.StudentID),
		ParentID:         or(u.ParentID, sp.ParentID),
		Relationship:     u.Relationship.Or(sp.Relationship),
		IsPrimaryContact: or(u.IsPrimaryContact, sp.IsPrimaryContact),
	}
}

type StudentParentFilter struct {
	StudentID        int64 `query:"student_id"`
	ParentID         int64 `query:"parent_id"`
	IsPrimaryContact *bool `query:"is_primary_contact"`
	Ordering         []core.DBOrdering
}

// StudentAttendance records a student's attendance; there is at most one record per student per day.
type StudentAttendance struct {
	ID        int64                   `db:"id" json:"id"`
	StudentID int64                   `db:"student_id" json:"student_id"`
	ClassID   int64                   `db:"class_id" json:"class_id"`
	SectionID int64                   `db:"section_id" json:"section_id"`
	Date      core.Date               `db:"date" json:"date"`
	Status    StudentAttendanceStatus `db:"status" json:"status"`
	Remarks   null.String             `db:"remarks" json:"remarks"`
	Timestamps
}

type NewStudentAttendance struct {
	StudentID int64                   `json:"student_id" validate:"required"`
	ClassID   int64                   `json:"class_id" validate:"required"`
	SectionID int64                   `json:"section_id" validate:"required"`
	Date      core.Date               `json:"date" validate:"required"`
	Status    StudentAttendanceStatus `json:"status" validate:"required,enum"` // defaults to present
	Remarks   null.String             `json:"remarks"`
}

func (in *NewStudentAttendance) Clean() {
	in.Date = cleanDate(in.Date)
	if in.Status == "" {
		in.Status = StudentPresent
	}
}

type UpdateStudentAttendance struct {
	StudentID *int64                     `json:"student_id"`
	ClassID   *int64                     `json:"class_id"`
	SectionID *int64                     `json:"section_id"`
	Date      *core.Date                 `json:"date"`
	Status    *StudentAttendanceStatus   `json:"status"`
	Remarks   core.Optional[null.String] `json:"remarks"`
}

func (u UpdateStudentAttendance) Apply(a StudentAttendance) NewStudentAttendance {
	return NewStudentAttendance{
		StudentID: or(u.StudentID, a.StudentID),
		ClassID:   or(u.ClassID, a.ClassID),
		SectionID: or(u.SectionID, a.SectionID),
		Date:      or(u.Date, a.Date),
		Status:    or(u.Status, a.Status),
		Remarks:   u.Remarks.Or(a.Remarks),
	}
}
