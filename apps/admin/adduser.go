package main

import (
	"context"
	"fmt"

	"github.com/trezcool/deptportal/core/user"
)

// addUser registers nu. The new user is not logged in.
func (cli *commandLine) addUser(nu user.NewUser) error {
	usr, err := cli.usrSvc.Register(context.Background(), nu)
	if err != nil {
		return err
	}
	if usr == nil {
		return user.ErrUsernameExists
	}
	fmt.Fprintf(cli.out, "user %q registered with id %s\n", usr.Username, usr.ID)
	return nil
}
