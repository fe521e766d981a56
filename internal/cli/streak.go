package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/faveday/internal/model"
	"github.com/rcliao/faveday/internal/widgets"
)

func init() {
	cmd := &cobra.Command{
		Use:   "streak",
		Short: "Show the current and longest streaks of scored days",
		Run:   runStreak,
	}

	cmd.Flags().IntP("year", "y", 0, "Longest streak within this year only")
	cmd.Flags().Bool("first", false, "Stop at the first streak of two or more days")

	RootCmd.AddCommand(cmd)
}

func runStreak(cmd *cobra.Command, args []string) {
	year, _ := cmd.Flags().GetInt("year")
	first, _ := cmd.Flags().GetBool("first")

	e := openEnv()
	defer e.Close()

	engine := e.engine(cmd)
	result := engine.Streaks(today())

	if year != 0 || first {
		var subset []model.Entry
		for _, en := range engine.Entries() {
			if en.IsEmpty() || (year != 0 && en.Date.Year() != year) {
				continue
			}
			subset = append(subset, en)
		}
		result.Longest = widgets.MaxStreak(subset, first)
	}

	if textFormat() {
		printStreak("current", result.Current)
		printStreak("longest", result.Longest)
		return
	}
	printJSON(result)
}

func printStreak(label string, s widgets.Streak) {
	if s.Count == 0 {
		fmt.Printf("%s: none\n", label)
		return
	}
	fmt.Printf("%s: %d days (%s to %s)\n", label, s.Count, model.FormatDate(*s.Start), model.FormatDate(*s.End))
}
