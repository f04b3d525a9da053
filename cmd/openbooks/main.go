package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/openbooks-dev/openbooks/internal/commands"
)

func main() {
	// Optional .env for local overrides (OPENBOOKS_DB etc.); absence is fine.
	_ = godotenv.Load()

	rootCmd := commands.NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
