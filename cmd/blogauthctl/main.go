// Package main is the admin CLI for blogauth accounts.
package main

import (
	"os"
)

func main() {
	cmd := NewRootCmd(openIdentity)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
