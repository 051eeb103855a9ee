package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-portal/internal/config"
	"github.com/jonathan/job-portal/internal/server"
	"github.com/jonathan/job-portal/internal/server/middleware"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Generate a JWT for API access",
	Long:  "Generates a signed JWT for the given user ID and role, using JWT_SECRET from the environment. Intended for local development and testing.",
	RunE:  runToken,
}

var (
	tokenUserID string
	tokenRole   string
)

func init() {
	tokenCmd.Flags().StringVarP(&tokenUserID, "user", "u", "", "User ID (default: random UUID)")
	tokenCmd.Flags().StringVarP(&tokenRole, "role", "r", middleware.RoleSeeker, "Role: seeker or employer")

	rootCmd.AddCommand(tokenCmd)
}

func runToken(_ *cobra.Command, _ []string) error {
	if tokenRole != middleware.RoleSeeker && tokenRole != middleware.RoleEmployer {
		return fmt.Errorf("invalid role %q: must be %q or %q", tokenRole, middleware.RoleSeeker, middleware.RoleEmployer)
	}

	userID := uuid.New()
	if tokenUserID != "" {
		parsed, err := uuid.Parse(tokenUserID)
		if err != nil {
			return fmt.Errorf("invalid user ID %q: %w", tokenUserID, err)
		}
		userID = parsed
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return fmt.Errorf("failed to create JWT config: %w", err)
	}

	token, err := server.NewJWTService(jwtConfig).GenerateToken(userID, tokenRole)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	fmt.Printf("user:  %s\nrole:  %s\ntoken: %s\n", userID, tokenRole, token)
	return nil
}
