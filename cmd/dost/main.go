/*
Package main is the entry point for the dost chat relay.

Usage:

	dost [command]

Available Commands:

	serve       Run the HTTP chat relay (default)
	migrate     Apply SQLite schema migrations and exit
	history     Print the most recent conversation turns
*/
package main

import (
	"context"
	"fmt"
	"os"

	_ "time/tzdata"

	"github.com/dost-app/dost/internal/cli"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	root := cli.NewRootCmd(fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date))
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
