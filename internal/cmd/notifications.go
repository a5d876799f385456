package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/aesconnect/cli/pkg/api"
	"github.com/aesconnect/cli/pkg/config"
	"github.com/aesconnect/cli/pkg/output"
)

var watchInterval time.Duration

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notif"},
	Short:   "Notification commands",
}

var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		notifs, err := app.Notifications.Load(cmd.Context())
		if err != nil {
			return err
		}

		if len(notifs) == 0 {
			output.PrintInfo("Aucune notification")
			return nil
		}

		if output.GetFormat() == output.FormatJSON {
			return output.Print("", notifs)
		}

		for _, n := range notifs {
			printNotification(n)
		}
		fmt.Printf("\n%d non lue(s)\n", app.Notifications.UnreadCount())
		return nil
	},
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read <notification-id>",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("identifiant de notification invalide: %s", args[0])
		}

		if err := app.Notifications.MarkRead(cmd.Context(), id); err != nil {
			return err
		}

		output.PrintSuccess("Notification #%d marquée comme lue", id)
		return nil
	},
}

var notificationsReadAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every notification as read",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.Notifications.MarkAllRead(cmd.Context()); err != nil {
			return err
		}

		output.PrintSuccess("Toutes les notifications sont marquées comme lues")
		return nil
	},
}

var notificationsDeleteCmd = &cobra.Command{
	Use:   "delete <notification-id>",
	Short: "Delete a notification",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("identifiant de notification invalide: %s", args[0])
		}

		if err := app.Notifications.Delete(cmd.Context(), id); err != nil {
			return err
		}

		output.PrintSuccess("Notification #%d supprimée", id)
		return nil
	},
}

var notificationsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll for new notifications until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		interval := watchInterval
		if interval == 0 {
			interval = config.GetDuration("notifications.poll_seconds", time.Second)
		}

		output.PrintInfo("Surveillance des notifications (Ctrl+C pour quitter)")

		// Long-running command: sweep expired cache entries in the background.
		app.Cache.StartSweeper(cmd.Context(), config.GetDuration("cache.sweep_minutes", time.Minute))

		return app.Notifications.Watch(cmd.Context(), interval, func(fresh []api.Notification, unread int) {
			for _, n := range fresh {
				printNotification(n)
			}
		})
	},
}

func printNotification(n api.Notification) {
	mark := "•"
	if n.IsRead {
		mark = " "
	}
	fmt.Printf("%s #%d [%s] %s · %s\n", mark, n.ID, n.Type, n.Message, n.CreatedAt.Format("02/01/2006 15:04"))
}

func init() {
	notificationsWatchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "Poll interval (default from config)")

	notificationsCmd.AddCommand(notificationsListCmd)
	notificationsCmd.AddCommand(notificationsReadCmd)
	notificationsCmd.AddCommand(notificationsReadAllCmd)
	notificationsCmd.AddCommand(notificationsDeleteCmd)
	notificationsCmd.AddCommand(notificationsWatchCmd)
}
