package user

import (
	"time"

	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/schooladmin/core"
)

// EntityUser names users in errors.
const EntityUser = "user"

// Role is the closed set of user roles.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
	RoleParent  Role = "parent"
)

var AllRoles = []Role{RoleAdmin, RoleTeacher, RoleStudent, RoleParent}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent, RoleParent:
		return true
	}
	return false
}

func (r Role) Values() []string {
	vals := make([]string, len(AllRoles))
	for i, role := range AllRoles {
		vals[i] = string(role)
	}
	return vals
}

// Name is the human readable role name.
func (r Role) Name() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleTeacher:
		return "Teacher"
	case RoleStudent:
		return "Student"
	case RoleParent:
		return "Parent"
	}
	return ""
}

type User struct {
	ID           int64       `db:"id" json:"id"`
	Name         string      `db:"name" json:"name"`
	Email        string      `db:"email" json:"email"`
	PasswordHash string      `db:"password" json:"-"`
	Role         Role        `db:"role" json:"role"`
	Phone        null.String `db:"phone" json:"phone"`
	Address      null.String `db:"address" json:"address"`
	ProfileImage null.String `db:"profile_image" json:"profile_image"`
	IsActive     bool        `db:"is_active" json:"is_active"`
	LastLogin    null.Time   `db:"last_login" json:"last_login"` // UTC
	CreatedAt    time.Time   `db:"created_at" json:"created_at"` // UTC
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(pwd))
}

func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u *User) IsStudent() bool { return u.Role == RoleStudent }
func (u *User) IsParent() bool  { return u.Role == RoleParent }

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name            string      `json:"name" validate:"required,max=255"`
	Email           string      `json:"email" validate:"required,email,max=255"`
	Password        string      `json:"password" validate:"required"`
	PasswordConfirm string      `json:"password_confirm" validate:"required,eqfield=Password"`
	Role            Role        `json:"role" validate:"omitempty,enum"`
	Phone           null.String `json:"phone" validate:"omitempty,max=50"`
	Address         null.String `json:"address"`
	ProfileImage    null.String `json:"profile_image" validate:"omitempty,max=255"`
}

func (nu *NewUser) Clean() {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	if nu.Role == "" {
		nu.Role = RoleStudent
	}
}

func (nu *NewUser) Validate(v *core.Validator) error {
	nu.Clean()
	return v.Struct(nu)
}

// UpdateUser defines what information may be provided to modify an existing User.
// Nil / unset fields are left untouched.
type UpdateUser struct {
	Name            *string                    `json:"name" validate:"omitnil,required,max=255"`
	Email           *string                    `json:"email" validate:"omitnil,required,email,max=255"`
	Role            *Role                      `json:"role" validate:"omitnil,enum"`
	Phone           core.Optional[null.String] `json:"phone"`
	Address         core.Optional[null.String] `json:"address"`
	ProfileImage    core.Optional[null.String] `json:"profile_image"`
	IsActive        *bool                      `json:"is_active"`
	Password        string                     `json:"password" validate:"omitempty"`
	PasswordConfirm string                     `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

func (uu *UpdateUser) Clean() {
	if uu.Name != nil {
		name := core.CleanString(*uu.Name)
		uu.Name = &name
	}
	if uu.Email != nil {
		email := core.CleanString(*uu.Email, true /* lower */)
		uu.Email = &email
	}
}

// Validate checks the update against origUsr, whose attributes the password must not resemble.
func (uu *UpdateUser) Validate(origUsr User, v *core.Validator) error {
	uu.Clean()
	if err := v.Struct(uu); err != nil {
		return err
	}
	if uu.Password != "" {
		pc := PasswordChange{
			Password:        uu.Password,
			PasswordConfirm: uu.PasswordConfirm,
			Name:            *orDefault(uu.Name, origUsr.Name),
			Email:           *orDefault(uu.Email, origUsr.Email),
		}
		return v.Struct(pc)
	}
	return nil
}

// Apply returns a copy of usr with the update applied. The password is handled by the Service.
func (uu UpdateUser) Apply(usr User) User {
	usr.Name = *orDefault(uu.Name, usr.Name)
	usr.Email = *orDefault(uu.Email, usr.Email)
	if uu.Role != nil {
		usr.Role = *uu.Role
	}
	usr.Phone = uu.Phone.Or(usr.Phone)
	usr.Address = uu.Address.Or(usr.Address)
	usr.ProfileImage = uu.ProfileImage.Or(usr.ProfileImage)
	if uu.IsActive != nil {
		usr.IsActive = *uu.IsActive
	}
	return usr
}

// PasswordChange is validated against the password policy.
// Name & Email are the user attributes the password must not resemble.
type PasswordChange struct {
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	Name            string `json:"-"`
	Email           string `json:"-"`
}

type QueryFilter struct {
	Search   string `query:"search"`
	Role     Role   `query:"role"`
	IsActive *bool  `query:"is_active"`
	Ordering []core.DBOrdering
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Role == "" && qf.IsActive == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

func orDefault(v *string, def string) *string {
	if v != nil {
		return v
	}
	return &def
}
