package main

import (
	"os"

	"github.com/SscSPs/bizbooks/cmd/bizbooksctl/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
