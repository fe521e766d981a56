package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rcliao/faveday/internal/widgets"
)

func init() {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Compute every dashboard widget",
		Run:   runDashboard,
	}

	RootCmd.AddCommand(cmd)
}

func runDashboard(cmd *cobra.Command, args []string) {
	e := openEnv()
	defer e.Close()

	d := e.engine(cmd).Dashboard(today())
	if textFormat() {
		printDashboard(d)
		return
	}
	printJSON(d)
}

func printDashboard(d widgets.Dashboard) {
	c := d.Comparisons
	fmt.Printf("Last 30 days   %v entries %s %s, %.1f words/day %s, avg score %.2f %s\n",
		c.Entries.Current, c.EntriesPct.Display, c.EntriesPct.Arrow,
		c.WordsPerDay.Current, c.WordsPct.Arrow,
		c.AvgScore.Current, c.AvgScore.Trend.Arrow())
	fmt.Printf("Streaks        current %d, longest %d\n", d.Streaks.Current.Count, d.Streaks.Longest.Count)
	fmt.Printf("Coverage       %s of %d days (%s)\n", pct(d.Coverage.Percent), d.Coverage.Days, d.Coverage.Change.Display)
	fmt.Printf("Lazy           Saturdays %s %s, Sundays %s %s, workweeks %s %s\n",
		pct(d.LazySaturdays.Percent), d.LazySaturdays.Trend.Arrow(),
		pct(d.LazySundays.Percent), d.LazySundays.Trend.Arrow(),
		pct(d.LazyWorkweeks.Percent), d.LazyWorkweeks.Trend.Arrow())
	if d.HighScoreGap.Days != nil {
		fmt.Printf("High scores    every %.1f days %s\n", *d.HighScoreGap.Days, d.HighScoreGap.Trend.Arrow())
	}
	for _, ds := range d.DaysSince {
		if ds.Days != nil {
			fmt.Printf("Last %d         %s %s\n", ds.Score, relDay(*ds.LastDate), ds.Trend.Arrow())
		}
	}
	printTrending("Topics", d.TrendingTopics)
	printTrending("People", d.TrendingPeople)
	if d.SuperTag != nil {
		fmt.Printf("Super tag      %s (score %.2f)\n", d.SuperTag.OriginalName, d.SuperTag.Score)
	}
	fmt.Printf("Consistency    %.2f %s\n", d.Consistency.Current, d.Consistency.Trend.Arrow())
	fmt.Printf("Life quality   %.2f/day %s\n", d.LifeQuality.Current, d.LifeQuality.Trend.Arrow())
	fmt.Printf("%-14s %s (%d/%d days)\n", d.Season.Name, pct(d.Season.Percent), d.Season.DaysPassed, d.Season.TotalDays)
	fmt.Printf("%-14s %s (%d/%d days)\n", d.Year.Name, pct(d.Year.Percent), d.Year.DaysPassed, d.Year.TotalDays)
	if d.Life != nil {
		fmt.Printf("%-14s %s\n", d.Life.Name, pct(d.Life.Percent))
	}
	for _, m := range d.OnThisDay {
		fmt.Printf("On this day    %s: %s %s\n", humanize.Ordinal(m.YearsAgo)+" year back", scoreText(m.Entry.Score), oneLine(m.Entry.Notes, 60))
	}
}

func printTrending(label string, t widgets.Trending) {
	if len(t.Tags) == 0 {
		return
	}
	kind := "trending"
	if t.Fallback {
		kind = "frequent"
	}
	fmt.Printf("%-14s %s:", label, kind)
	for _, tag := range t.Tags {
		fmt.Printf(" %s (%d)", tag.OriginalName, tag.RecentCount)
	}
	fmt.Println()
}
