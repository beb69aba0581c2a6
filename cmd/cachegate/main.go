// Command cachegate runs the authenticating read/write-through caching
// gateway in front of S3 or Azure Blob storage.
package main

import (
	"fmt"
	"os"

	"github.com/ditsuke/cachegate/cmd/cachegate/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
