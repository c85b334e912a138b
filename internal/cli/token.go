package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"quiz-platform/internal/config"
	transport "quiz-platform/internal/transport/http"
)

// NewTokenCmd mints an admin bearer token signed with admin.jwt_secret.
func NewTokenCmd(configPath *string) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an admin token for create/toggle/reward endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			auth := transport.NewAdminAuth(cfg.Admin.JWTSecret)
			if auth == nil {
				return fmt.Errorf("admin.jwt_secret not configured")
			}
			token, err := auth.IssueToken(subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "admin", "token subject, e.g. the admin address")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
