package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "tag <name>",
		Short: "Show statistics for one tag",
		Args:  cobra.ExactArgs(1),
		Run:   runTag,
	}

	RootCmd.AddCommand(cmd)
}

func runTag(cmd *cobra.Command, args []string) {
	e := openEnv()
	defer e.Close()

	table, err := e.rebuilder().Load(cmd.Context())
	if err != nil {
		exitErr("load tag cache", err)
	}

	st := table.Get(args[0])
	if st == nil {
		exitErr("tag", fmt.Errorf("no tag %q", strings.TrimLeft(args[0], "#@")))
	}

	if textFormat() {
		fmt.Printf("%s: %s uses, avg score %.2f\n", tagLabel(*st), humanize.Comma(int64(st.TotalUses)), st.AvgScore)
		fmt.Printf("first used %s, last used %s (%s)\n", st.FirstUsage.Format("2006-01-02"), lastUsed(*st), relDay(st.LastUsage))
		fmt.Printf("peak year %d with %d uses, %.1f uses/month\n", st.PeakYear, st.PeakYearCount, st.MonthlyAverage())
		years := make([]int, 0, len(st.YearStats))
		for y := range st.YearStats {
			years = append(years, y)
		}
		sort.Ints(years)
		for _, y := range years {
			fmt.Printf("  %d  %s\n", y, strings.Repeat("▇", st.YearStats[y]*40/max(st.PeakYearCount, 1)))
		}
		return
	}
	printJSON(st)
}
