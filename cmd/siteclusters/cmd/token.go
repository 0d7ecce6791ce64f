package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"siteclusters.io/server/pkg/token"
)

var tokenSecret string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Generate an admin token",
	Long: `Generate a new admin token and the HMAC-SHA256 hash the server stores.

The plaintext token is printed exactly once; only its hash is configured on
the server (via SITECLUSTERS_ADMIN_TOKEN_HASH), so a lost token cannot be
recovered and must be regenerated.`,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSecret, "secret",
		getEnv("SITECLUSTERS_HMAC_SECRET", ""),
		"HMAC secret shared with the server (required, min 32 bytes)")

	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	if tokenSecret == "" {
		return fmt.Errorf("HMAC secret is required (set SITECLUSTERS_HMAC_SECRET or use --secret)")
	}
	if len(tokenSecret) < 32 {
		return fmt.Errorf("HMAC secret must be at least 32 bytes (got %d)", len(tokenSecret))
	}

	adminToken, err := token.Generate()
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	fmt.Println("Admin token (store it now, it is not shown again):")
	fmt.Printf("  %s\n\n", adminToken)
	fmt.Println("Server configuration:")
	fmt.Printf("  SITECLUSTERS_ADMIN_TOKEN_HASH=%s\n", token.Hash(adminToken, tokenSecret))

	return nil
}
