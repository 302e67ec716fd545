package main

import (
	"os"

	"github.com/surfacectl/surfacectl/internal/cli"
	"github.com/surfacectl/surfacectl/internal/errkind"
)

func main() {
	err := cli.Execute()
	if code := errkind.ExitCode(err); code != 0 {
		os.Exit(code)
	}
}
