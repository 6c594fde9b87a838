// # cmd/layerscope/main.go
package main

import (
	"os"

	"layerscope/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
