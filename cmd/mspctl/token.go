package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pardismasoud-hue/pishgam/internal/auth"
	"github.com/pardismasoud-hue/pishgam/internal/config"
	"github.com/pardismasoud-hue/pishgam/internal/domain"
)

var (
	tokenUserID     string
	tokenRole       string
	tokenTTLMinutes int
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an access token for a user",
	Long: `Mint an HS256 access token signed with AUTH_JWT_SECRET.

Examples:
  mspctl token --user 9b2f... --role COMPANY
  mspctl token --user 9b2f... --role admin --ttl 5`,
	Args: cobra.NoArgs,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUserID, "user", "", "user id placed in the token subject (required)")
	tokenCmd.Flags().StringVar(&tokenRole, "role", "", "ADMIN, EXPERT or COMPANY (required)")
	tokenCmd.Flags().IntVar(&tokenTTLMinutes, "ttl", 0, "lifetime in minutes; defaults to AUTH_ACCESS_TOKEN_TTL_MINUTES")
	_ = tokenCmd.MarkFlagRequired("user")
	_ = tokenCmd.MarkFlagRequired("role")
}

func runToken(cmd *cobra.Command, args []string) error {
	if _, err := uuid.Parse(tokenUserID); err != nil {
		return fmt.Errorf("--user must be a uuid: %w", err)
	}
	role := domain.Role(strings.ToUpper(strings.TrimSpace(tokenRole)))
	if !role.Valid() {
		return fmt.Errorf("unknown role %q", tokenRole)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	ttl := cfg.Auth.AccessTokenTTLMinutes
	if tokenTTLMinutes > 0 {
		ttl = tokenTTLMinutes
	}

	token, expires, err := auth.NewTokenManager(cfg.Auth.JWTSecret, ttl).GenerateToken(tokenUserID, role)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expires.Format(time.RFC3339))
	return nil
}
