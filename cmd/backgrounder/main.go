// Package main provides the entry point for the Backgrounder service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "backgrounder",
	Short: "Backgrounder aggregation service",
	Long:  "Backgrounder runs concurrent background checks on a person across LinkedIn, GitHub, web search, news, and social platforms, then produces an AI-written report.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
