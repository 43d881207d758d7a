package main

import (
	"os"

	"github.com/yanqian/portal-assistant/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
