package main

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"

	"agent-supervisor/internal/cli"
)

func main() {
	// API keys usually live in .env; running without one is fine.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	cli.Execute()
}
