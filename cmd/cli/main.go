// Command fleet-cost is the CLI entrypoint.
package main

import (
	"os"

	"fleet-cost/cmd/cli/cmd"
	"fleet-cost/internal/logging"
)

func main() {
	defer logging.Sync()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
