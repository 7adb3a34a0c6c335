// Figstyle - Figma styles to design-token code
package main

import (
	"os"

	"github.com/HartBrook/figstyle/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
