package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get [date]",
		Short: "Show the entry for a day (default: today)",
		Args:  cobra.MaximumNArgs(1),
		Run:   runGet,
	}

	RootCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	date := dateArg(args, 0)

	e := openEnv()
	defer e.Close()

	entry, err := e.store.Get(cmd.Context(), date)
	if err != nil {
		exitErr("get", err)
	}

	if textFormat() {
		printEntryLine(*entry)
		if entry.Notes != "" {
			fmt.Println()
			fmt.Println(entry.Notes)
		}
		return
	}
	printJSON(entry)
}
