package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cuemby/oretrace/pkg/report"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Compute grade and daily operations reports from the store",
}

var reportGradeCmd = &cobra.Command{
	Use:   "grade FACILITY",
	Short: "Grade statistics and outliers for one facility",
	Long: `Grade summarizes the stored lab samples of a facility per sample type
(K, L, T, CR, RC) and lists detected values more than two standard
deviations above their type's mean.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		r := report.Grade(args[0], cfg.Facilities, samples)
		if asJSON {
			return printJSON(r)
		}

		fmt.Printf("%s\n\n", r.Title)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "TYPE\tCOUNT\tDETECTED\tAVG\tMIN\tMAX\tSTDEV")
		for _, sampleType := range report.GradeSampleTypes {
			s, ok := r.ByType[sampleType]
			if !ok {
				continue
			}
			fmt.Fprintf(w, "%s\t%d\t%d\t%.3f\t%.3f\t%.3f\t%.3f\n",
				sampleType, s.Count, s.Detected, s.Average, s.Min, s.Max, s.Stdev)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if len(r.Outliers) > 0 {
			fmt.Printf("\nOutliers: %d\n", len(r.Outliers))
			for _, o := range r.Outliers {
				fmt.Printf("  %s (%s): %.3f ppm > %.3f\n", o.SampleCode, o.SampleType, o.AuPPM, o.Threshold)
			}
		}
		return nil
	},
}

var reportDailyCmd = &cobra.Command{
	Use:   "daily DATE",
	Short: "Shipments, bunker loads and samples for one date",
	Long: `Daily totals the stored shipments and bunker loads dated DATE
(YYYY/MM/DD) overall and per facility, and counts that day's lab samples.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		r, err := dailyReport(store, cfg.Facilities, args[0])
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(r)
		}

		fmt.Printf("%s\n\n", r.Title)
		fmt.Printf("Shipments: %d (%.0f kg)  Bunker loads: %d (%.0f kg)  Lab samples: %d\n\n",
			r.Shipments.Count, r.Shipments.TotalKg, r.BunkerLoads.Count, r.BunkerLoads.TotalKg, r.LabSamples.Count)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "FACILITY\tSHIPMENTS\tSHIPPED KG\tLOADS\tLOADED KG")
		for _, code := range r.FacilityCodes() {
			d := r.ByFacility[code]
			fmt.Fprintf(w, "%s\t%d\t%.0f\t%d\t%.0f\n", code, d.Shipments, d.ShippedKg, d.Loads, d.LoadedKg)
		}
		return w.Flush()
	},
}

func init() {
	reportGradeCmd.Flags().Bool("json", false, "Print the report as JSON")
	reportDailyCmd.Flags().Bool("json", false, "Print the report as JSON")

	reportCmd.AddCommand(reportGradeCmd)
	reportCmd.AddCommand(reportDailyCmd)
}
