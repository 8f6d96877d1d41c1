package main

import (
	"os"

	"fdo-conformance-client/commands"
)

func main() {
	os.Exit(commands.Run(os.Args[1:], os.Stdout, os.Stderr))
}
