package main

import (
	"github.com/joho/godotenv"

	"github.com/parchment-labs/docask-cli/internal/adapters/driving/cli"
)

func main() {
	// A missing .env is fine; environment variables still apply.
	_ = godotenv.Load()

	cli.Execute()
}
