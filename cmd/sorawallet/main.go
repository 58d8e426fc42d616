package main

import (
	"os"

	"sorawallet/cmd/sorawallet/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
