package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/faveday/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries, newest first",
		Run:   runList,
	}

	cmd.Flags().IntP("year", "y", 0, "Only this year")
	cmd.Flags().IntP("limit", "l", 30, "Max results (0 for all)")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	year, _ := cmd.Flags().GetInt("year")
	limit, _ := cmd.Flags().GetInt("limit")

	e := openEnv()
	defer e.Close()

	entries, err := store.List(cmd.Context(), e.store, store.ListParams{Year: year, Limit: limit})
	if err != nil {
		exitErr("list", err)
	}

	if textFormat() {
		for _, en := range entries {
			printEntryLine(en)
		}
		return
	}
	printJSON(entries)
}
