package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/redmark-labs/redmark-cli/internal/adapters/driving/cli"
)

func main() {
	// API keys may live in a local .env during development. A missing
	// file is fine; most installs configure keys via the environment
	// or the settings file.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
