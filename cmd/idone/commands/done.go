package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"idonethis-client/lib/serviceutil"
)

var doneDate *string

func init() {
	doneDate = doneCmd.Flags().String("date", "", "the date the entry is for (YYYY-MM-DD), defaults to today")
	rootCmd.AddCommand(doneCmd)
}

var doneCmd = &cobra.Command{
	Use:   "done <text...> [--date <date>]",
	Short: "Records a new journal entry.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		client := createClient(ctx)
		defer client.Close()

		err := client.SubmitEntry(ctx, strings.Join(args, " "), *doneDate)
		if err != nil {
			serviceutil.Fatal("failed to submit entry", err)
		}
		fmt.Println("done.")
	},
}
