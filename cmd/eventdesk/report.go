package main

import (
	"cmp"
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jensholdgaard/eventdesk/internal/catalog"
)

func newReportCmd(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print average price per title, events per venue and the date series",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, repos, err := openCatalog(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			defer repos.Close()

			r, err := mgr.Report(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput || !isTerminal(out) {
				return printJSON(out, r)
			}
			printReportTable(out, r)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON even on a terminal")
	return cmd
}

func printReportTable(out io.Writer, r *catalog.Report) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "TITLE\tAVG PRICE")
	for _, title := range slices.Sorted(maps.Keys(r.AveragePriceByTitle)) {
		fmt.Fprintf(w, "%s\t%s\n", truncate(title, 50), catalog.FormatPrice(r.AveragePriceByTitle[title]))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "LOCATION\tEVENTS")
	venues := slices.SortedFunc(maps.Keys(r.CountByLocation), func(a, b string) int {
		if c := cmp.Compare(r.CountByLocation[b], r.CountByLocation[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	for _, v := range venues {
		fmt.Fprintf(w, "%s\t%d\n", truncate(v, 50), r.CountByLocation[v])
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "DATE\tPRICE")
	for _, p := range r.DateSeries {
		fmt.Fprintf(w, "%s\t%s\n", p.Date, catalog.FormatPrice(p.Price))
	}
	w.Flush()

	fmt.Fprintf(out, "\n%d events (generated %s)\n", r.EventCount, r.GeneratedAt.Format("2006-01-02 15:04:05"))
}
