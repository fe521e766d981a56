package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/faveday/internal/model"
	"github.com/rcliao/faveday/internal/widgets"
)

type widgetArgs struct {
	score int
	days  int
	birth string
}

type widgetFunc func(e *widgets.Engine, now time.Time, a widgetArgs) interface{}

var widgetFuncs = map[string]widgetFunc{
	"comparisons":     at((*widgets.Engine).ThirtyDayComparisons),
	"streaks":         at((*widgets.Engine).Streaks),
	"coverage":        at((*widgets.Engine).Coverage),
	"lazy-saturdays":  at((*widgets.Engine).LazySaturdays),
	"lazy-sundays":    at((*widgets.Engine).LazySundays),
	"lazy-workweeks":  at((*widgets.Engine).LazyWorkweeks),
	"high-score-gap":  at((*widgets.Engine).HighScoreGap),
	"days-since":      daysSinceWidget,
	"trending-topics": at((*widgets.Engine).TrendingTopics),
	"trending-people": at((*widgets.Engine).TrendingPeople),
	"super-tag":       at((*widgets.Engine).SuperTag),
	"consistency":     at((*widgets.Engine).Consistency),
	"life-quality":    at((*widgets.Engine).LifeQuality),
	"season":          at((*widgets.Engine).SeasonProgress),
	"year":            at((*widgets.Engine).YearProgress),
	"on-this-day":     at((*widgets.Engine).OnThisDay),
	"distribution":    distributionWidget,
	"life":            lifeWidget,
}

// at adapts a widget that only needs now.
func at[T any](f func(*widgets.Engine, time.Time) T) widgetFunc {
	return func(e *widgets.Engine, now time.Time, _ widgetArgs) interface{} {
		return f(e, now)
	}
}

func daysSinceWidget(e *widgets.Engine, now time.Time, a widgetArgs) interface{} {
	return e.DaysSinceScore(a.score, now)
}

func distributionWidget(e *widgets.Engine, now time.Time, a widgetArgs) interface{} {
	return e.ScoreDistribution(now, a.days)
}

func lifeWidget(e *widgets.Engine, now time.Time, a widgetArgs) interface{} {
	birth, err := model.ParseDate(a.birth)
	if err != nil {
		exitErr("life progress needs --birth or birth_date in config", err)
	}
	return e.LifeProgress(birth, now)
}

func widgetNames() []string {
	names := make([]string, 0, len(widgetFuncs))
	for n := range widgetFuncs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func init() {
	cmd := &cobra.Command{
		Use:   "widget <name>",
		Short: "Compute a single dashboard widget",
		Long:  "Compute a single dashboard widget. Widgets: " + strings.Join(widgetNames(), ", "),
		Args:  cobra.ExactArgs(1),
		Run:   runWidget,
	}

	cmd.Flags().Int("score", 5, "Score value for days-since")
	cmd.Flags().Int("days", 365, "Trailing window for distribution (0 for all)")
	cmd.Flags().String("birth", "", "Birth date for life (default: birth_date from config)")

	RootCmd.AddCommand(cmd)
}

func runWidget(cmd *cobra.Command, args []string) {
	fn, ok := widgetFuncs[args[0]]
	if !ok {
		exitErr("widget", fmt.Errorf("unknown widget %q (valid: %s)", args[0], strings.Join(widgetNames(), ", ")))
	}
	scoreVal, _ := cmd.Flags().GetInt("score")
	days, _ := cmd.Flags().GetInt("days")
	birth, _ := cmd.Flags().GetString("birth")

	e := openEnv()
	defer e.Close()
	if birth == "" {
		birth = e.cfg.BirthDate
	}

	printJSON(fn(e.engine(cmd), today(), widgetArgs{score: scoreVal, days: days, birth: birth}))
}
