package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/trezcool/schooladmin/core/school"
	"github.com/trezcool/schooladmin/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db        *sqlx.DB
	out       io.Writer
	usrSvc    *user.Service
	employees school.EmployeeRepository
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprintln(cli.out, "Usage:")
	_, _ = fmt.Fprintln(cli.out, "  migrate COMMAND [VERSION]                      - up, up-by-one, up-to, down, down-to, redo, reset, status, version")
	_, _ = fmt.Fprintln(cli.out, "  adduser -email EMAIL -name NAME [-admin]       - create or update a user, the password is prompted")
	_, _ = fmt.Fprintln(cli.out, "  resetpassword -email EMAIL                     - reset a user's password, the password is prompted")
	_, _ = fmt.Fprintln(cli.out, "  export-employees -out FILE [-format csv|xlsx]  - export every employee")
	_, _ = fmt.Fprintln(cli.out, "  import-employees -in FILE [-format csv|xlsx]   - import employees")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

// parse parses the subcommand flags; -h is reported as errHelp.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errHelp
		}
		return err
	}
	return nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(ctx, args[2:])

	case "adduser":
		cmd := cli.newFlagSet("adduser")
		email := cmd.String("email", "", "The user's email. The password will be prompted next.")
		name := cmd.String("name", "", "The user's full name.")
		isAdmin := cmd.Bool("admin", false, "Give the user the admin role.")
		if err := parse(cmd, args[2:]); err != nil {
			return err
		}
		if *email == "" || *name == "" {
			cmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(cmd)
		if err != nil {
			return err
		}
		return cli.addUser(ctx, *name, *email, pwd, *isAdmin)

	case "resetpassword":
		cmd := cli.newFlagSet("resetpassword")
		email := cmd.String("email", "", "The user's email. The password will be prompted next.")
		if err := parse(cmd, args[2:]); err != nil {
			return err
		}
		if *email == "" {
			cmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(cmd)
		if err != nil {
			return err
		}
		return cli.resetPassword(ctx, *email, pwd)

	case "export-employees":
		cmd := cli.newFlagSet("export-employees")
		path := cmd.String("out", "", "The file to write.")
		format := cmd.String("format", "", "csv or xlsx, defaults to the file extension.")
		if err := parse(cmd, args[2:]); err != nil {
			return err
		}
		if *path == "" {
			cmd.Usage()
			return errHelp
		}
		return cli.exportEmployees(ctx, *path, *format)

	case "import-employees":
		cmd := cli.newFlagSet("import-employees")
		path := cmd.String("in", "", "The file to read.")
		format := cmd.String("format", "", "csv or xlsx, defaults to the file extension.")
		if err := parse(cmd, args[2:]); err != nil {
			return err
		}
		if *path == "" {
			cmd.Usage()
			return errHelp
		}
		return cli.importEmployees(ctx, *path, *format)

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword(cmd *flag.FlagSet) (string, error) {
	_, _ = fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	_, _ = fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		cmd.Usage()
		return "", errHelp
	}
	return string(pwd), nil
}
