package main

import (
	"os"

	"github.com/joho/godotenv"

	"docintel/internal/cli"
)

func main() {
	// API keys may live in a local .env file.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
