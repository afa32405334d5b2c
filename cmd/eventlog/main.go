// Command eventlog serves and inspects an append-only SQLite event log.
package main

import (
	"os"

	"github.com/roach88/eventlog/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
