package main

import (
	"os"

	"github.com/sipdex/sipdex/internal/adapters/driving/cli"
)

// version is set at build time: -ldflags "-X main.version=v1.2.3".
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
