package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-portal/internal/db"
	"github.com/jonathan/job-portal/internal/observability"
	"github.com/jonathan/job-portal/internal/schemas"
	"github.com/jonathan/job-portal/internal/types"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load job postings into the catalog",
	Long:  "Validates a job document JSON file against the schema and inserts its postings into the database. The running server picks them up on the next reindex.",
	RunE:  runSeed,
}

var (
	seedFile    string
	seedVerbose bool
)

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "Path to job document JSON file (required)")
	seedCmd.Flags().BoolVarP(&seedVerbose, "verbose", "v", false, "Print a catalog summary after seeding")

	if err := seedCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}

	rootCmd.AddCommand(seedCmd)
}

func runSeed(_ *cobra.Command, _ []string) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	content, err := os.ReadFile(seedFile)
	if err != nil {
		return fmt.Errorf("failed to read job document %s: %w", seedFile, err)
	}

	if err := schemas.ValidateJobDocument(string(content)); err != nil {
		return fmt.Errorf("job document validation failed: %w", err)
	}

	var doc types.JobDocument
	if err := json.Unmarshal(content, &doc); err != nil {
		return fmt.Errorf("failed to unmarshal job document: %w", err)
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	now := time.Now().UTC()
	for i := range doc.Jobs {
		doc.Jobs[i].ApplyDefaults(now)
		if err := database.CreateJob(ctx, &doc.Jobs[i]); err != nil {
			return fmt.Errorf("failed to insert job %q: %w", doc.Jobs[i].Title, err)
		}
	}

	fmt.Printf("Seeded %d job postings\n", len(doc.Jobs))

	if seedVerbose {
		observability.NewPrinter(os.Stdout).PrintCatalogSummary(doc.Jobs)
	}

	return nil
}
