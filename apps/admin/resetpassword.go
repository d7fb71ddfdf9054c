package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) resetPassword(uname, pwd string) error {
	found, err := cli.usrSvc.SetPassword(context.Background(), uname, pwd)
	if err != nil {
		return err
	}
	if !found {
		return errUserNotFound
	}
	fmt.Fprintf(cli.out, "password of %q updated\n", uname)
	return nil
}
