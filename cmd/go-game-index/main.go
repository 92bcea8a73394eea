// Package main provides the entry point for the go-game-index CLI.
package main

import (
	"os"

	"github.com/natedelduca/go-game-index/cmd/go-game-index/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
