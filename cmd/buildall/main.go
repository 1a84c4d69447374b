// Package main is the entry point for the buildall CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/buildall/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
