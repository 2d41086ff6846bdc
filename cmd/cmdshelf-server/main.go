// Package main provides a standalone entry point for the cmdshelf server,
// equivalent to 'cmdshelf serve'.
package main

import (
	"fmt"
	"os"

	"github.com/cmdshelf/cmdshelf/cmd/cmdshelf/commands"
)

func main() {
	if err := commands.ExecuteServe(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
