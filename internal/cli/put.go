package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/faveday/internal/model"
	"github.com/rcliao/faveday/internal/store"
	"github.com/rcliao/faveday/internal/tags"
)

func init() {
	cmd := &cobra.Command{
		Use:   "put [notes]",
		Short: "Record a day's score and notes",
		Long: "Record a day's score and notes. Notes can be a positional arg or piped via stdin.\n" +
			"Fields not given keep their stored value; --append adds to existing notes.",
		Run: runPut,
	}

	cmd.Flags().StringP("date", "D", "", "Date YYYY-MM-DD (default: today)")
	cmd.Flags().IntP("score", "s", 0, "Score 1-5 (0 clears it)")
	cmd.Flags().BoolP("append", "a", false, "Append notes instead of replacing them")
	cmd.Flags().Bool("rebuild-tags", false, "Rebuild the tag cache afterwards")

	RootCmd.AddCommand(cmd)
}

func runPut(cmd *cobra.Command, args []string) {
	dateStr, _ := cmd.Flags().GetString("date")
	scoreVal, _ := cmd.Flags().GetInt("score")
	appendNotes, _ := cmd.Flags().GetBool("append")
	rebuild, _ := cmd.Flags().GetBool("rebuild-tags")

	date := model.Day(today())
	if dateStr != "" {
		d, err := model.ParseDate(dateStr)
		if err != nil {
			exitErr("parse date", err)
		}
		date = d
	}

	var notes string
	if len(args) > 0 {
		notes = strings.Join(args, " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			notes = string(b)
		}
	}
	notes = strings.TrimSpace(notes)

	if notes == "" && !cmd.Flags().Changed("score") {
		exitErr("put", fmt.Errorf("nothing to record: give --score and/or notes"))
	}

	e := openEnv()
	defer e.Close()
	ctx := cmd.Context()

	entry := model.Entry{Date: date}
	existing, err := e.store.Get(ctx, date)
	switch {
	case err == nil:
		entry = *existing
	case !errors.Is(err, store.ErrNotFound):
		exitErr("get", err)
	}

	if cmd.Flags().Changed("score") {
		entry.Score = scoreVal
	}
	if notes != "" {
		if appendNotes && entry.Notes != "" {
			entry.Notes += "\n" + notes
		} else {
			entry.Notes = notes
		}
	}

	if err := e.store.Put(ctx, entry); err != nil {
		exitErr("put", err)
	}
	e.log.Info().Str("date", model.FormatDate(date)).Int("score", entry.Score).Msg("entry recorded")

	if rebuild {
		if _, err := e.rebuilder().Rebuild(ctx); err != nil {
			exitErr("rebuild tags", err)
		}
	}

	if textFormat() {
		printEntryLine(entry)
		for _, occ := range tags.Extract(entry.Notes) {
			fmt.Printf("  tag %s\n", occ)
		}
		return
	}
	printJSON(entry)
}
