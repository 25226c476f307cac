package main

import (
	"os"

	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
