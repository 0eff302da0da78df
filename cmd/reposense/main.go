// Package main is the reposense command line tool. It runs the same graph,
// contract and impact analyses as the API server against local files.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
