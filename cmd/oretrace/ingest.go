package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cuemby/oretrace/pkg/alert"
	"github.com/cuemby/oretrace/pkg/config"
	"github.com/cuemby/oretrace/pkg/events"
	"github.com/cuemby/oretrace/pkg/ingest"
	"github.com/cuemby/oretrace/pkg/log"
	"github.com/cuemby/oretrace/pkg/notify"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest DIR",
	Short: "Convert, validate and store a batch of records",
	Long: `Ingest reads trucking.json, bunker.json and assay.json from DIR,
converts them into shipments, bunker loads and lab samples, routes the
validation alerts to every configured notifier and stores the batch.

Lab samples already in the store are skipped, so a batch can be ingested
more than once.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		noNotify, _ := cmd.Flags().GetBool("no-notify")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		in, err := ingest.LoadInput(args[0])
		if err != nil {
			return fmt.Errorf("failed to read input: %v", err)
		}

		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		broker := events.NewBroker()
		broker.Start()
		defer broker.Stop()
		sub := broker.Subscribe()
		defer broker.Unsubscribe(sub)
		go logEvents(sub)

		pipeline := ingest.New(store, cfg)
		pipeline.Events = broker
		if !noNotify {
			if err := addNotifiers(pipeline.Router, cfg.Notify, broker); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		result, err := pipeline.Run(ctx, in)
		if err != nil {
			return fmt.Errorf("ingest failed: %v", err)
		}

		if asJSON {
			return printJSON(result)
		}

		fmt.Println("✓ Ingest complete")
		fmt.Printf("  Shipments:    %d (%.0f kg)\n", result.Shipments, result.Trucking.TotalTonnageKg)
		fmt.Printf("  Bunker loads: %d\n", result.BunkerLoads)
		fmt.Printf("  Lab samples:  %d (%d new, %d already stored)\n", result.Samples, result.SamplesAdded, result.SamplesSkipped)
		fmt.Printf("  Alerts:       %d\n", result.Alerts.TotalAlerts)
		fmt.Printf("  Link rate:    %.1f%%\n", result.Report.LinkRate*100)
		return nil
	},
}

func init() {
	ingestCmd.Flags().Bool("json", false, "Print the full result as JSON")
	ingestCmd.Flags().Bool("no-notify", false, "Validate and store without sending notifications")
}

// addNotifiers attaches the log file notifier plus every transport whose
// credentials are configured
func addNotifiers(router *alert.Router, cfg config.Notify, broker *events.Broker) error {
	logNotifier, err := notify.NewLogNotifier(cfg.AlertLogPath)
	if err != nil {
		return fmt.Errorf("failed to open alert log: %v", err)
	}
	router.AddNotifier(logNotifier)

	telegram := notify.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID)
	if telegram.Enabled() {
		router.AddNotifier(telegram)
	}

	email := notify.NewEmailNotifier(cfg)
	if email.Enabled() {
		router.AddNotifier(email)
	}

	if broker != nil {
		router.AddNotifier(notify.NewEventNotifier(broker))
	}

	logger := log.WithComponent("alert")
	logger.Debug().
		Strs("notifiers", router.Notifiers()).
		Msg("Notifiers configured")
	return nil
}

func logEvents(sub events.Subscriber) {
	logger := log.WithComponent("events")
	for event := range sub {
		logger.Debug().
			Str("event_id", event.ID).
			Str("type", string(event.Type)).
			Interface("metadata", event.Metadata).
			Msg(event.Message)
	}
}
