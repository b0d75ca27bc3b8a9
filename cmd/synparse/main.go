package main

import (
	"github.com/joho/godotenv"

	"synparse/pkg/cli"
)

func main() {
	// Optional .env for SYNPARSE_* overrides; ignore absence.
	_ = godotenv.Load(".env")
	cli.Execute()
}
