package user

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/schooladmin/core"
)

var (
	// errors
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrAccountDeactivated   = errors.New("account deactivated")
)

type Repository interface {
	CreateUser(ctx context.Context, usr User) (User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	// ListUsers applies AND operation on available QueryFilter fields.
	// QueryFilter.Search does a case-insensitive match on one of User.Name or User.Email.
	ListUsers(ctx context.Context, filter QueryFilter, page core.PageRequest) (core.Page[User], error)
	// UpdateUser writes every mutable column of usr; ID & CreatedAt are never written.
	UpdateUser(ctx context.Context, usr User) (User, error)
	SetLastLogin(ctx context.Context, id int64, at time.Time) error
	DeleteUser(ctx context.Context, id int64) error
}

type Service struct {
	repo     Repository
	validate *core.Validator
}

func NewService(repo Repository, validate *core.Validator) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	if err := nu.Validate(svc.validate); err != nil {
		return User{}, err
	}
	usr := User{
		Name:         nu.Name,
		Email:        nu.Email,
		Role:         nu.Role,
		Phone:        nu.Phone,
		Address:      nu.Address,
		ProfileImage: nu.ProfileImage,
		IsActive:     true,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *Service) Get(ctx context.Context, id int64) (User, error) {
	return svc.repo.GetUser(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) List(ctx context.Context, filter QueryFilter, page core.PageRequest) (core.Page[User], error) {
	filter.Clean()
	if filter.Role != "" && !filter.Role.IsValid() {
		return core.Page[User]{}, core.NewValidationError(nil, core.FieldError{Field: "role", Error: "invalid role"})
	}
	return svc.repo.ListUsers(ctx, filter, page)
}

func (svc *Service) Update(ctx context.Context, id int64, uu UpdateUser) (User, error) {
	usr, err := svc.repo.GetUser(ctx, id)
	if err != nil {
		return User{}, err
	}
	if err = uu.Validate(usr, svc.validate); err != nil {
		return User{}, err
	}
	usr = uu.Apply(usr)
	if uu.Password != "" {
		if err = usr.SetPassword(uu.Password); err != nil {
			return User{}, errors.Wrap(err, "hashing password")
		}
	}
	return svc.repo.UpdateUser(ctx, usr)
}

// ResetPassword sets a new password on the user with the given email, enforcing the password policy.
func (svc *Service) ResetPassword(ctx context.Context, email, pwd string) (User, error) {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	pc := PasswordChange{Password: pwd, PasswordConfirm: pwd, Name: usr.Name, Email: usr.Email}
	if err = svc.validate.Struct(pc); err != nil {
		return User{}, err
	}
	if err = usr.SetPassword(pwd); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *Service) Delete(ctx context.Context, id int64) error {
	return svc.repo.DeleteUser(ctx, id)
}

// Authenticate checks the credentials of an active user and records the login.
func (svc *Service) Authenticate(ctx context.Context, email, pwd string) (User, error) {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		if core.IsNotFound(err) {
			return User{}, ErrAuthenticationFailed
		}
		return User{}, errors.Wrap(err, "finding user by email")
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, ErrAuthenticationFailed
	}
	if !usr.IsActive {
		return User{}, ErrAccountDeactivated
	}
	now := time.Now().UTC()
	if err = svc.repo.SetLastLogin(ctx, usr.ID, now); err != nil {
		return User{}, errors.Wrap(err, "setting lastLogin")
	}
	usr.LastLogin.SetValid(now)
	return usr, nil
}
