package main

import (
	"fmt"

	"github.com/cuemby/oretrace/pkg/samplecode"
	"github.com/cuemby/oretrace/pkg/types"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse CODE...",
	Short: "Parse lab sample codes",
	Long: `Parse decodes each sample code into facility, date, sample type and
sample number. Special codes and unparseable codes are reported as such.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		parsed := make([]types.SampleCode, 0, len(args))
		for _, code := range args {
			parsed = append(parsed, samplecode.Parse(code))
		}
		if asJSON {
			return printJSON(parsed)
		}

		for i, p := range parsed {
			switch {
			case p.IsSpecial:
				fmt.Printf("%s: special code\n", args[i])
			case p.ParseFailed:
				fmt.Printf("%s: unrecognized\n", args[i])
			default:
				fmt.Printf("%s: facility=%s date=%s type=%s number=%s\n",
					args[i], p.FacilityCode, p.Date, p.SampleType, p.SampleNumber)
			}
		}
		return nil
	},
}

func init() {
	parseCmd.Flags().Bool("json", false, "Print parsed codes as JSON")
}
