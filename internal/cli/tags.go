package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rcliao/faveday/internal/model"
	"github.com/rcliao/faveday/internal/tagcache"
)

func init() {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List tag statistics from the tag cache",
		Run:   runTags,
	}

	cmd.Flags().Bool("person", false, "Only @people")
	cmd.Flags().Bool("topic", false, "Only #topics")
	cmd.Flags().Bool("recent", false, "Only tags used this year or last")
	cmd.Flags().String("sort", "count", "Sort by: count, avgScore, firstUsage, lastUsage")
	cmd.Flags().Bool("asc", false, "Ascending order")
	cmd.Flags().Int("min-uses", 1, "Minimum total uses")
	cmd.Flags().IntP("limit", "l", 50, "Max results (0 for all)")

	RootCmd.AddCommand(cmd)
}

func runTags(cmd *cobra.Command, args []string) {
	person, _ := cmd.Flags().GetBool("person")
	topic, _ := cmd.Flags().GetBool("topic")
	recent, _ := cmd.Flags().GetBool("recent")
	sortBy, _ := cmd.Flags().GetString("sort")
	asc, _ := cmd.Flags().GetBool("asc")
	minUses, _ := cmd.Flags().GetInt("min-uses")
	limit, _ := cmd.Flags().GetInt("limit")

	key, err := tagcache.ParseSortKey(sortBy)
	if err != nil {
		exitErr("tags", err)
	}

	e := openEnv()
	defer e.Close()

	table, err := e.rebuilder().Load(cmd.Context())
	if err != nil {
		exitErr("load tag cache", err)
	}

	var picked []tagcache.TagStats
	switch {
	case person:
		picked = table.PersonTags(minUses)
	case topic:
		picked = table.TopicTags(minUses)
	case recent:
		picked = table.RecentTags()
	default:
		for _, s := range table {
			if s.TotalUses >= minUses {
				picked = append(picked, s)
			}
		}
	}

	sub := tagcache.Table{}
	for _, s := range picked {
		sub[s.Name] = s
	}
	out := sub.Sort(key, !asc)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	if textFormat() {
		for i, s := range out {
			fmt.Printf("%-5s %-24s %6s uses  avg %.2f  last %s\n",
				humanize.Ordinal(i+1), tagLabel(s), humanize.Comma(int64(s.TotalUses)), s.AvgScore, lastUsed(s))
		}
		return
	}
	printJSON(out)
}

func tagLabel(s tagcache.TagStats) string {
	if s.IsPerson {
		return "@" + s.OriginalName
	}
	return "#" + s.OriginalName
}

func lastUsed(s tagcache.TagStats) string {
	if s.LastUsage.IsZero() {
		return "never"
	}
	return model.FormatDate(s.LastUsage)
}
