package main

import (
	"context"
	"fmt"
)

// seed installs the demo accounts and the default portal content where nothing is stored yet.
func (cli *commandLine) seed() error {
	ctx := context.Background()
	if err := cli.usrSvc.Initialize(ctx); err != nil {
		return err
	}
	if err := cli.portal.Initialize(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "storage seeded")
	return nil
}
