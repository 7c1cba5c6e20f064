package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/curaious/finca/internal/config"
	"github.com/curaious/finca/internal/services"
	"github.com/curaious/finca/internal/telemetry"
	"github.com/spf13/cobra"
)

var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Task reminder jobs",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(cmd.Help())
	},
}

var remindersSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Close elapsed tasks and send today's reminders",
	Long:  "Intended to run once a day from a scheduler such as cron.\nPending tasks dated before today are marked done; tasks dated today notify their owner and collaborator according to the reminder flags.",
	Run: func(cmd *cobra.Command, args []string) {
		conf := config.ReadConfig()

		shutdownTelemetry := telemetry.NewProvider(conf.OTEL_EXPORTER_OTLP_ENDPOINT)
		defer shutdownTelemetry()

		timeout, err := cmd.Flags().GetDuration("timeout")
		if err != nil {
			fmt.Println("Unable to read flag `timeout`", err)
			os.Exit(1)
		}

		svc := services.NewServices(conf)
		defer svc.Close()

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		res, err := svc.Reminder.SendReminders(ctx)
		if err != nil {
			fmt.Println("Unable to send reminders", err)
			os.Exit(1)
		}

		fmt.Printf("closed=%d reminded=%d failed=%d\n", res.Closed, res.Reminded, res.Failed)
	},
}

// Register the "reminders" command
func init() {
	remindersSendCmd.Flags().DurationP("timeout", "t", 5*time.Minute, "Maximum duration of the sweep")
	remindersCmd.AddCommand(remindersSendCmd)

	rootCmd.AddCommand(remindersCmd)
}
