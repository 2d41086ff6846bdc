// Package main provides the entry point for the cmdshelf CLI.
package main

import (
	"fmt"
	"os"

	"github.com/cmdshelf/cmdshelf/cmd/cmdshelf/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
