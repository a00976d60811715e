package main

import (
	"context"
	"fmt"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/user"
)

// addUser updates or creates an active user.
func (cli *commandLine) addUser(ctx context.Context, name, email, pwd string, isAdmin bool) error {
	role := user.RoleStudent
	if isAdmin {
		role = user.RoleAdmin
	}

	usr, err := cli.usrSvc.GetByEmail(ctx, email)
	switch {
	case core.IsNotFound(err):
		usr, err = cli.usrSvc.Create(ctx, user.NewUser{
			Name:            name,
			Email:           email,
			Password:        pwd,
			PasswordConfirm: pwd,
			Role:            role,
		})
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cli.out, "created %s %q (id %d)\n", usr.Role.Name(), usr.Email, usr.ID)
		return nil
	case err != nil:
		return err
	}

	active := true
	uu := user.UpdateUser{
		Name:            &name,
		IsActive:        &active,
		Password:        pwd,
		PasswordConfirm: pwd,
	}
	if isAdmin {
		uu.Role = &role
	}
	if usr, err = cli.usrSvc.Update(ctx, usr.ID, uu); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "updated %s %q (id %d)\n", usr.Role.Name(), usr.Email, usr.ID)
	return nil
}
