// Package main provides bkar, a single-invocation archiver for fixed-size
// block-addressed archives.
package main

import (
	"os"

	"github.com/blockarchiver/bkar/internal/cli"
)

func main() {
	exitCode := cli.Run(os.Stdin, os.Stdout, os.Stderr, os.Args, os.Environ())

	os.Exit(exitCode)
}
