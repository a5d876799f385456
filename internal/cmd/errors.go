package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aesconnect/cli/pkg/output"
)

var errorsCmd = &cobra.Command{
	Use:   "errors",
	Short: "Show the rolling error log of this invocation",
	Long: `Show the errors recorded during this invocation. The log keeps the
last hundred entries; older ones are dropped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries := app.Client.ErrorLog().Entries()
		if len(entries) == 0 {
			output.PrintInfo("Aucune erreur enregistrée")
			return nil
		}

		if output.GetFormat() == output.FormatJSON {
			return output.Print("", entries)
		}
		for _, e := range entries {
			fmt.Printf("%s [%s] %s\n", e.Timestamp.Format("15:04:05"), e.Context, e.Message)
		}
		return nil
	},
}

var errorsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the error log",
	RunE: func(cmd *cobra.Command, args []string) error {
		app.Client.ErrorLog().Clear()
		output.PrintSuccess("Journal des erreurs vidé")
		return nil
	},
}

func init() {
	errorsCmd.AddCommand(errorsClearCmd)
}
