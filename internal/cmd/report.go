package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aesconnect/cli/pkg/api"
	"github.com/aesconnect/cli/pkg/output"
)

var reportReason string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report a post or a user to moderation",
}

var reportPostCmd = &cobra.Command{
	Use:   "post <post-id>",
	Short: "Report a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parsePostID(args[0])
		if err != nil {
			return err
		}

		resp, err := app.Client.Report(cmd.Context(), api.ReportRequest{
			ReportedPostID: id,
			Reason:         reportReason,
		})
		if err != nil {
			return err
		}

		output.PrintSuccess("Signalement #%d envoyé", resp.ReportID)
		return nil
	},
}

var reportUserCmd = &cobra.Command{
	Use:   "user <user-id>",
	Short: "Report a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil || id <= 0 {
			return fmt.Errorf("identifiant d'utilisateur invalide: %s", args[0])
		}

		resp, err := app.Client.Report(cmd.Context(), api.ReportRequest{
			ReportedUserID: id,
			Reason:         reportReason,
		})
		if err != nil {
			return err
		}

		output.PrintSuccess("Signalement #%d envoyé", resp.ReportID)
		return nil
	},
}

func init() {
	reportCmd.PersistentFlags().StringVarP(&reportReason, "reason", "r", "", "Reason for the report")
	reportCmd.MarkPersistentFlagRequired("reason")

	reportCmd.AddCommand(reportPostCmd)
	reportCmd.AddCommand(reportUserCmd)
}
