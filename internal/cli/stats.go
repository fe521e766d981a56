package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show diary statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	e := openEnv()
	defer e.Close()

	stats, err := e.store.Stats(cmd.Context())
	if err != nil {
		exitErr("stats", err)
	}

	if textFormat() {
		fmt.Printf("%s store at %s (%s)\n", stats.Backend, stats.Path, humanize.Bytes(uint64(stats.SizeBytes)))
		fmt.Printf("%s entries, %s scored, %s words\n",
			humanize.Comma(int64(stats.Entries)), humanize.Comma(int64(stats.Scored)), humanize.Comma(int64(stats.TotalWords)))
		if stats.Revisions > 0 {
			fmt.Printf("%s revisions\n", humanize.Comma(int64(stats.Revisions)))
		}
		if stats.FirstDate != "" {
			fmt.Printf("from %s to %s\n", stats.FirstDate, stats.LastDate)
		}
		for _, y := range stats.Years {
			fmt.Printf("  %d  %4d entries  avg %.2f\n", y.Year, y.Entries, y.AvgScore)
		}
		return
	}
	printJSON(stats)
}
