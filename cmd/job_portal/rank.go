package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-portal/internal/config"
	"github.com/jonathan/job-portal/internal/embedding"
	"github.com/jonathan/job-portal/internal/engine"
	"github.com/jonathan/job-portal/internal/lexical"
	"github.com/jonathan/job-portal/internal/observability"
	"github.com/jonathan/job-portal/internal/ranking"
	"github.com/jonathan/job-portal/internal/schemas"
	"github.com/jonathan/job-portal/internal/types"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank a catalog file against a profile without a database",
	Long:  "Builds an in-memory index from a job document JSON file and ranks it against the given skills, titles and free text. Useful for tuning weights offline.",
	RunE:  runRank,
}

var (
	rankCatalog string
	rankSkills  string
	rankTitles  string
	rankQuery   string
	rankOutput  string
	rankVerbose bool
)

func init() {
	rankCmd.Flags().StringVarP(&rankCatalog, "catalog", "c", "", "Path to job document JSON file (required)")
	rankCmd.Flags().StringVar(&rankSkills, "skills", "", "Comma-separated seeker skills")
	rankCmd.Flags().StringVar(&rankTitles, "titles", "", "Comma-separated target titles")
	rankCmd.Flags().StringVarP(&rankQuery, "query", "q", "", "Free text blended into the profile signal")
	rankCmd.Flags().StringVarP(&rankOutput, "out", "o", "", "Path to write ranked results JSON (default: stdout summary only)")
	rankCmd.Flags().BoolVarP(&rankVerbose, "verbose", "v", false, "Print index stats and ranked results")

	if err := rankCmd.MarkFlagRequired("catalog"); err != nil {
		panic(fmt.Sprintf("failed to mark catalog flag as required: %v", err))
	}

	rootCmd.AddCommand(rankCmd)
}

func runRank(_ *cobra.Command, _ []string) error {
	content, err := os.ReadFile(rankCatalog)
	if err != nil {
		return fmt.Errorf("failed to read job document %s: %w", rankCatalog, err)
	}

	if err := schemas.ValidateJobDocument(string(content)); err != nil {
		return fmt.Errorf("job document validation failed: %w", err)
	}

	var doc types.JobDocument
	if err := json.Unmarshal(content, &doc); err != nil {
		return fmt.Errorf("failed to unmarshal job document: %w", err)
	}

	engineConfig, err := config.NewEngineConfig()
	if err != nil {
		return fmt.Errorf("failed to create engine config: %w", err)
	}

	ctx := context.Background()
	eng := engine.New(embedding.NewLocal(engineConfig.EmbedDimensions), engine.Options{
		Weights: ranking.Weights{
			Lexical: engineConfig.LexicalWeight,
			Vector:  engineConfig.VectorWeight,
		},
		BM25:            lexical.Params{K1: engineConfig.BM25K1, B: engineConfig.BM25B},
		VectorFloor:     engineConfig.VectorFloor,
		MaxExplanations: engineConfig.MaxExplanations,
		RecommendLimit:  engineConfig.RecommendLimit,
	})

	now := time.Now().UTC()
	for i := range doc.Jobs {
		doc.Jobs[i].ApplyDefaults(now)
	}
	if err := eng.Reindex(ctx, doc.Jobs); err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}

	profile := &types.SeekerProfile{
		Skills: splitList(rankSkills),
		Titles: splitList(rankTitles),
	}

	resp, err := eng.Recommend(ctx, profile, rankQuery)
	if err != nil {
		return fmt.Errorf("ranking failed: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	if rankVerbose {
		printer.PrintIndexStats(eng.Stats())
	}
	printer.PrintScoredResults(resp.Results, resp.Degraded)

	if rankOutput != "" {
		jsonOutput, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal ranked results to JSON: %w", err)
		}
		if err := os.WriteFile(rankOutput, jsonOutput, 0644); err != nil {
			return fmt.Errorf("failed to write ranked results to %s: %w", rankOutput, err)
		}
	}

	return nil
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
