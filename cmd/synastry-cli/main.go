package main

import (
	"os"

	"github.com/okian/synastry/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
