package commands

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"idonethis-client/lib/scrapers/idonethis"
	"idonethis-client/lib/serviceutil"
	"idonethis-client/lib/timezone"
)

var startDate *string
var endDate *string

func init() {
	startDate = entriesCmd.Flags().String("start", "", "start of the date range (YYYY-MM-DD), defaults to today")
	endDate = entriesCmd.Flags().String("end", "", "end of the date range (YYYY-MM-DD), defaults to the start")
	rootCmd.AddCommand(entriesCmd)
}

var entriesCmd = &cobra.Command{
	Use:   "entries [--start <date>] [--end <date>]",
	Short: "Lists journal entries for a date range.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		client := createClient(ctx)
		defer client.Close()

		start := *startDate
		if start == "" {
			start = timezone.Today()
		}
		end := *endDate
		if end == "" {
			end = start
		}

		entries, err := client.GetRange(ctx, start, end)
		if err != nil {
			serviceutil.Fatal("failed to fetch entries", err)
		}

		renderEntries(entries)
	},
}

func renderEntries(entries []idonethis.Entry) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"date", "owner", "entry"})
	for _, e := range entries {
		text := ""
		if e.Text != nil {
			text = *e.Text
		}
		t.AppendRow(table.Row{e.DoneDate, e.Owner, text})
	}
	t.Render()
}
