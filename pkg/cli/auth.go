package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/dayline/pkg/auth"
)

func newAuthCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google Calendar, replacing any cached token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, configDir, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if err := auth.ResetToken(configDir); err != nil {
				return err
			}
			if _, err := auth.GetClient(cmd.Context(), configDir, auth.Scopes); err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}
			log.Printf("Authentication successful! Token saved in %s", configDir)
			return nil
		},
	}
}
