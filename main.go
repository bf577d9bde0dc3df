package main

import (
	"os"

	"vmrotate/src/cli"
)

func main() {
	os.Exit(cli.Execute())
}
