package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Mohsinsiddi/piggybank/internal/savings"
	"github.com/Mohsinsiddi/piggybank/internal/theme"
	"github.com/Mohsinsiddi/piggybank/internal/ui"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// clock dates the savings series.
var clock = time.Now

var (
	savingsJSON  bool
	savingsChart bool
)

type savingsRow struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

var savingsCmd = &cobra.Command{
	Use:   "savings",
	Short: "Print the savings history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		points := savings.Mock(clock())

		if savingsJSON {
			rows := make([]savingsRow, len(points))
			for i, p := range points {
				rows[i] = savingsRow{Date: p.Date, Value: p.Value}
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		}

		if savingsChart {
			t, err := theme.Parse(themeFlag)
			if err != nil {
				t = theme.Detect(darkProbe(out))
			}
			fmt.Fprintln(out, ui.RenderSavingsChart(points, ui.ChartOptions{
				Width:    frameWidth(out),
				Selected: len(points) - 1,
				Palette:  ui.PaletteFor(t),
			}))
			return nil
		}

		fmt.Fprintln(out, ui.Banner())
		t := ui.NewTable([]ui.Column{
			{Title: "Date", Width: 10},
			{Title: "Savings", Width: 8, Right: true},
			{Title: "Change", Width: 8, Right: true},
		})
		for i, p := range points {
			change := ""
			if i > 0 {
				change = signed(p.Value - points[i-1].Value)
			}
			t.AddRow(ui.Row{p.Date, humanize.Comma(int64(p.Value)), change})
		}
		t.Selected = len(points) - 1
		fmt.Fprintln(out, t.Render())

		s := savings.Stats(points)
		fmt.Fprintln(out, ui.KeyValueBlock("Summary", [][2]string{
			{"Lowest", humanize.Comma(int64(s.Min))},
			{"Highest", humanize.Comma(int64(s.Max))},
			{"Latest", humanize.Comma(int64(s.Latest))},
			{"Since " + points[0].Date, signed(s.Change)},
		}))
		fmt.Fprintln(out, ui.Meta("Mock data: there is no ledger behind this history yet."))
		return nil
	},
}

func signed(v float64) string {
	if v >= 0 {
		return "+" + humanize.Comma(int64(v))
	}
	return humanize.Comma(int64(v))
}

func init() {
	savingsCmd.Flags().BoolVar(&savingsJSON, "json", false, "print the series as JSON")
	savingsCmd.Flags().BoolVar(&savingsChart, "chart", false, "draw the series as a bar chart")
	savingsCmd.MarkFlagsMutuallyExclusive("json", "chart")
}
