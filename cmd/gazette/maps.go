package main

import (
	"fmt"
	"text/tabwriter"

	"gazette/internal/geo"

	"github.com/spf13/cobra"
)

var mapsCmd = &cobra.Command{
	Use:   "maps [country-code]",
	Short: "Print the map region tables",
	Long: `Without arguments, lists every country with its id and region count.
With a country code, lists that country's regions by secid.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		defer tw.Flush()

		if len(args) == 0 {
			fmt.Fprintln(tw, "ID\tCODE\tNAME\tREGIONS")
			for _, c := range geo.Countries() {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", c.ID, c.Code, c.Name, len(c.Regions))
			}
			return nil
		}

		regions := geo.Regions(args[0])
		if regions == nil {
			return fmt.Errorf("unknown country %q", args[0])
		}
		fmt.Fprintln(tw, "SECID\tNAME")
		for _, r := range regions {
			fmt.Fprintf(tw, "%s\t%s\n", r.SecID, r.Name)
		}
		return nil
	},
}
