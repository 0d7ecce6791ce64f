// Package main provides the siteclusters operator CLI.
package main

import (
	"os"

	"siteclusters.io/server/cmd/siteclusters/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
