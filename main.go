package main

import (
	"os"

	"github.com/CTroy2003/mcpf-lacam3/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
