package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cuemby/oretrace/pkg/alert"
	"github.com/cuemby/oretrace/pkg/ingest"
	"github.com/cuemby/oretrace/pkg/linker"
	"github.com/cuemby/oretrace/pkg/normalize"
	"github.com/cuemby/oretrace/pkg/notify"
	"github.com/cuemby/oretrace/pkg/types"
	"github.com/cuemby/oretrace/pkg/validate"
	"github.com/spf13/cobra"
)

var traceCmd = &cobra.Command{
	Use:   "trace [SAMPLE_CODE]",
	Short: "Link stored lab samples to bunker loads and shipments",
	Long: `Trace builds the traceability report over every stored lab sample.
With a sample code, only that sample's trace is printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tolerance, _ := cmd.Flags().GetInt("date-tolerance")
		asJSON, _ := cmd.Flags().GetBool("json")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		samples, err := store.ListLabSamples()
		if err != nil {
			return err
		}
		loads, err := store.ListBunkerLoads()
		if err != nil {
			return err
		}
		shipments, err := store.ListShipments()
		if err != nil {
			return err
		}

		l := linker.New(cfg.Facilities, linker.WithDateTolerance(tolerance))

		if len(args) == 1 {
			var traces []types.Trace
			for _, s := range samples {
				if s.SampleCode == args[0] {
					traces = append(traces, l.Trace(s, loads, shipments))
				}
			}
			if len(traces) == 0 {
				return fmt.Errorf("sample not found: %s", args[0])
			}
			return printJSON(traces)
		}

		report := l.Report(samples, loads, shipments)
		ingest.RecordReport(report)
		if asJSON {
			return printJSON(report)
		}

		fmt.Printf("Samples: %d  Linked: %d  Unlinked: %d  Link rate: %.1f%%\n\n",
			report.Total, report.Linked, report.Unlinked, report.LinkRate*100)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "SAMPLE\tSHEET\tFACILITY\tBUNKER DATE\tSHIPMENTS\tCOMPLETE")
		for _, t := range report.LinkedTraces {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%v\n",
				t.Sample.SampleCode,
				t.Sample.SheetName,
				t.BunkerLoad.FacilityCode,
				t.BunkerLoad.Date,
				len(t.Shipments),
				t.Complete,
			)
		}
		return w.Flush()
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate stored lab samples and shipments",
	Long: `Validate runs the validation rules over every stored lab sample and
shipment using the configured thresholds and prints the alerts. With
--send the alerts are also routed to the configured notifiers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		send, _ := cmd.Flags().GetBool("send")
		asJSON, _ := cmd.Flags().GetBool("json")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		samples, err := store.ListLabSamples()
		if err != nil {
			return err
		}
		shipments, err := store.ListShipments()
		if err != nil {
			return err
		}

		engine := validate.NewEngine(cfg.Thresholds, normalize.NewDriverRegistry(cfg.Drivers))
		router := alert.NewRouter(engine)

		var alerts []validate.Alert
		if send {
			if err := addNotifiers(router, cfg.Notify, nil); err != nil {
				return err
			}
			alerts = router.ProcessAndSend(context.Background(), shipments, samples).Alerts
		} else {
			alerts = router.Collect(shipments, samples)
		}

		if asJSON {
			return printJSON(alerts)
		}
		printAlerts(alerts)
		return nil
	},
}

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "List recorded alerts",
	Long: `Alerts lists the alerts stored by previous ingests, newest last.
With --from-log the JSON-lines alert log is read instead of the store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		fromLog, _ := cmd.Flags().GetBool("from-log")
		level, _ := cmd.Flags().GetString("level")

		if fromLog {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logNotifier, err := notify.NewLogNotifier(cfg.Notify.AlertLogPath)
			if err != nil {
				return err
			}
			entries, err := logNotifier.ReadAlerts(limit)
			if err != nil {
				return err
			}
			return printJSON(entries)
		}

		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		stored, err := store.ListAlerts()
		if err != nil {
			return err
		}

		var alerts []validate.Alert
		for _, a := range stored {
			if level == "" || string(a.Alert.Level) == level {
				alerts = append(alerts, a.Alert)
			}
		}
		if limit > 0 && len(alerts) > limit {
			alerts = alerts[len(alerts)-limit:]
		}
		printAlerts(alerts)
		return nil
	},
}

func init() {
	traceCmd.Flags().Int("date-tolerance", linker.DefaultDateToleranceDays, "Date tolerance in days recorded with the linker")
	traceCmd.Flags().Bool("json", false, "Print the full report as JSON")

	validateCmd.Flags().Bool("send", false, "Route alerts to the configured notifiers")
	validateCmd.Flags().Bool("json", false, "Print alerts as JSON")

	alertsCmd.Flags().Int("limit", 50, "Maximum number of alerts to show (0 for all)")
	alertsCmd.Flags().Bool("from-log", false, "Read the alert log file instead of the store")
	alertsCmd.Flags().String("level", "", "Only show alerts of this level (critical, warning, info)")
}

func printAlerts(alerts []validate.Alert) {
	if len(alerts) == 0 {
		fmt.Println("No alerts")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "LEVEL\tRULE\tMESSAGE")
	for _, a := range alerts {
		fmt.Fprintf(w, "%s\t%s\t%s\n", a.Level, a.Rule, a.Message)
	}
	w.Flush()
}
