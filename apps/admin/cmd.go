package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/trezcool/deptportal/core"
	"github.com/trezcool/deptportal/core/portal"
	"github.com/trezcool/deptportal/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp         = errors.New("help provided")
	errUserNotFound = errors.New("user not found")
	errNoDatabase   = errors.New("migrations only apply to the postgres and sqlite storage engines")
)

type commandLine struct {
	store  core.Storage
	db     *sqlx.DB // nil unless the storage engine is a SQL database
	usrSvc *user.Service
	portal *portal.Portal
	out    io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  seed - install the default content and demo accounts where missing")
	fmt.Fprintln(cli.out, "  adduser -username USERNAME -name NAME -role student|staff|lecturer [-email EMAIL] [-department DEPT] [-id ID] - register a user")
	fmt.Fprintln(cli.out, "  resetpassword -username USERNAME - reset user's password")
	fmt.Fprintln(cli.out, "  list - list registered users")
	fmt.Fprintln(cli.out, "  dump KEY - print the raw value stored under KEY")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, down, status, ...) on the SQL storage")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserCmd.SetOutput(cli.out)
	addUserUname := addUserCmd.String("username", "", "The user's username. The password will be prompted next.")
	addUserName := addUserCmd.String("name", "", "The user's full name.")
	addUserRole := addUserCmd.String("role", "", "One of student, staff, lecturer.")
	addUserEmail := addUserCmd.String("email", "", "The user's email address.")
	addUserDept := addUserCmd.String("department", "", "The user's department.")
	addUserID := addUserCmd.String("id", "", "The student ID (students) or staff ID (staff and lecturers).")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordCmd.SetOutput(cli.out)
	resetPasswordUname := resetPasswordCmd.String("username", "", "The user's username. The password will be prompted next.")

	switch args[1] {
	case "seed":
		return cli.seed()

	case "adduser":
		if err := parseFlags(addUserCmd, args[2:]); err != nil {
			return err
		}
		if *addUserUname == "" || *addUserName == "" || *addUserRole == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addUserCmd.Usage()
			return errHelp
		}
		nu := user.NewUser{
			Username:   *addUserUname,
			Password:   pwd,
			Email:      *addUserEmail,
			Role:       user.Role(*addUserRole),
			Name:       *addUserName,
			Department: *addUserDept,
		}
		if nu.Role == user.RoleStudent {
			nu.StudentID = *addUserID
		} else {
			nu.StaffID = *addUserID
		}
		return cli.addUser(nu)

	case "resetpassword":
		if err := parseFlags(resetPasswordCmd, args[2:]); err != nil {
			return err
		}
		if *resetPasswordUname == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordUname, pwd)

	case "list":
		return cli.listUsers()

	case "dump":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.dump(args[2])

	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	default:
		cli.printUsage()
		return errHelp
	}
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	return nil
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}
