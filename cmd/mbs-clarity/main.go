package main

import (
	"os"

	"github.com/mbsclarity/mbs-clarity/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
