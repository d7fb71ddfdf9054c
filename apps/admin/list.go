package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"
)

func (cli *commandLine) listUsers() error {
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tROLE\tNAME\tEMAIL")
	for _, usr := range cli.usrSvc.Users(context.Background()) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", usr.ID, usr.Username, usr.Role, usr.Name, usr.Email)
	}
	return w.Flush()
}

// dump prints the value stored under key, indented when it is JSON.
func (cli *commandLine) dump(key string) error {
	raw, ok, err := cli.store.Get(context.Background(), key)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%q: no value stored", key)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(raw), "", "  "); err != nil {
		fmt.Fprintln(cli.out, raw)
		return nil
	}
	fmt.Fprintln(cli.out, buf.String())
	return nil
}
