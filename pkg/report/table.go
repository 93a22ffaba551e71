package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

func renderTable(w io.Writer, s *Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "source:\t%s\n", s.Source)
	fmt.Fprintf(tw, "rows:\t%d\n", s.Rows)
	if s.Stats.SkippedRows > 0 {
		fmt.Fprintf(tw, "skipped rows:\t%d\n", s.Stats.SkippedRows)
	}
	if s.TypesFile != "" {
		fmt.Fprintf(tw, "types file:\t%s\n", s.TypesFile)
	}
	fmt.Fprintln(tw)

	if s.Ratios == nil {
		fmt.Fprintf(tw, "columns:\t%s\n", strings.Join(s.Columns, ", "))
		fmt.Fprintln(tw, "ratios:\tundefined (no data rows)")
	} else {
		fmt.Fprintf(tw, "\t%s\n", strings.Join(s.Ratios.Columns, "\t"))
		for li, label := range s.Ratios.Labels {
			cells := make([]string, len(s.Ratios.Values[li]))
			for ci, v := range s.Ratios.Values[li] {
				cells[ci] = fmt.Sprintf("%.4f", v)
			}
			fmt.Fprintf(tw, "%s\t%s\n", label, strings.Join(cells, "\t"))
		}

		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "column\tmost likely\tratio")
		for _, ct := range s.MostLikely {
			fmt.Fprintf(tw, "%s\t%s\t%.4f\n", ct.Column, ct.Label, ct.Ratio)
		}
	}

	for _, warning := range s.Warnings {
		fmt.Fprintf(tw, "warning:\t%s\n", warning)
	}
	return tw.Flush()
}
