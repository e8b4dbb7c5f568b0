package main

import (
	"context"
	"os"

	"github.com/bjaus/anyconv/internal/cli"
	"github.com/charmbracelet/fang"
)

// version is set via -ldflags.
var version = "dev"

func main() {
	if err := fang.Execute(
		context.Background(),
		cli.New(),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(cli.ExitCode)
	}
}
