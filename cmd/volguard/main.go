package main

import (
	"os"

	"github.com/shritish20/Volguard-4/cmd/volguard/commands"
)

// main is the entry point for the VolGuard CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
