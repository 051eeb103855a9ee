// Package main provides the entry point for the job portal HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "job_portal",
	Short: "Job Portal recommendation API server",
	Long:  "Job Portal ranks job postings against seeker profiles with hybrid lexical and semantic scoring, exposing recommendations and search via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
