package main

import (
	"context"
	"os"

	"budget/internal/commands"
)

func main() {
	if err := commands.Execute(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}
