package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arnavshah/lineup-rotator-go/pkg/auth"
	"github.com/arnavshah/lineup-rotator-go/pkg/config"
)

func newKeygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen <userID>",
		Short: "Print an API key signed with API_MASTER_SECRET",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			userID := args[0]
			if strings.Contains(userID, ".") {
				return fmt.Errorf("user id %q must not contain '.'", userID)
			}
			key := auth.New(cfg.JWTSecret, cfg.APIMasterSecret).GenerateHMACKey(userID)
			fmt.Fprintf(cmd.OutOrStdout(), "Generated Key for %s:\n%s\n", userID, key)
			return nil
		},
	}
}
