// Command borehole manages borehole logs and their legends.
package main

import (
	"os"

	"github.com/custodia-labs/borehole-cli/internal/adapters/driving/cli"
)

func main() {
	cli.SetBootstrap(bootstrap)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
