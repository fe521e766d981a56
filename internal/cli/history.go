package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rcliao/faveday/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "history [date]",
		Short: "Show every revision of a day's entry (sqlite backend)",
		Args:  cobra.MaximumNArgs(1),
		Run:   runHistory,
	}

	RootCmd.AddCommand(cmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	date := dateArg(args, 0)

	e := openEnv()
	defer e.Close()

	s, ok := e.store.(*store.SQLiteStore)
	if !ok {
		exitErr("history", fmt.Errorf("revision history needs the sqlite backend (current: %s)", e.cfg.Storage))
	}

	revs, err := s.History(cmd.Context(), date)
	if err != nil {
		exitErr("history", err)
	}

	if textFormat() {
		for _, r := range revs {
			fmt.Printf("v%d  %s  %-16s %s\n", r.Version, scoreText(r.Entry.Score), humanize.Time(r.CreatedAt), oneLine(r.Entry.Notes, 70))
		}
		return
	}
	printJSON(revs)
}
