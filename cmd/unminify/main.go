// Command unminify rewrites minified JavaScript into readable source.
package main

import (
	"fmt"
	"os"

	"github.com/DeusData/unminify/cmd/unminify/commands"
)

var version = "dev"

func main() {
	if err := commands.NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
