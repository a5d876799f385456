package cmd

import (
	"github.com/spf13/cobra"

	"github.com/aesconnect/cli/pkg/output"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the backend health",
	RunE: func(cmd *cobra.Command, args []string) error {
		health, err := app.Client.Health(cmd.Context())
		if err != nil {
			return err
		}

		return output.PrintRecord("AESConnect", map[string]interface{}{
			"api":      health.Message,
			"database": health.Database,
		})
	},
}
