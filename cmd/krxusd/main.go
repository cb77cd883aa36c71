package main

import (
	"os"

	"github.com/wonny/krxusd/cmd/krxusd/commands"
)

// main is the entry point for the krxusd CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/krxusd [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
