package main

import (
	"fmt"
	"os"

	"fdring/cmd/fdring/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
