package main

import (
	"os"

	"github.com/nexustools/datameq-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
