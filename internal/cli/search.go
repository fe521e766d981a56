package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/faveday/internal/model"
	"github.com/rcliao/faveday/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search notes by keyword",
		Long:  "Search notes for matching text. The sqlite backend uses full-text search; the files backend scans for a substring.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().IntP("year", "y", 0, "Only this year")
	cmd.Flags().IntP("limit", "l", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	year, _ := cmd.Flags().GetInt("year")
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	e := openEnv()
	defer e.Close()

	results, err := e.store.Search(cmd.Context(), store.SearchParams{
		Query: query,
		Year:  year,
		Limit: limit,
	})
	if err != nil {
		exitErr("search", err)
	}

	if textFormat() {
		for _, r := range results {
			fmt.Printf("%s  %s  %s\n", model.FormatDate(r.Entry.Date), scoreText(r.Entry.Score), r.Snippet)
		}
		return
	}
	printJSON(results)
}
