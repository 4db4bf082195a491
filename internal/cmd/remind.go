package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Send payment reminders for overdue unpaid orders",
	Long:  `Meant to run from cron. Exits non-zero only when the unpaid orders cannot be loaded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		run, err := a.reminders.SendOverdueReminders(cmd.Context(), time.Now())
		if err != nil {
			return err
		}
		a.logger.Info("reminder run finished", zap.Int("sent", run.Sent), zap.Int("failed", run.Failed))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(remindCmd)
}
