package main

import (
	"os"

	"github.com/fantasywire/fantasy-go/cmd/fantasy/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
