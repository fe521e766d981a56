package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/faveday/internal/tags"
)

func init() {
	cmd := &cobra.Command{
		Use:   "suggest [text]",
		Short: "Suggest #topic and @person tags for untagged words",
		Long:  "Suggest tags for words in text that match frequently used tags. Text can be a positional arg, stdin, or --date to check a stored entry.",
		Run:   runSuggest,
	}

	cmd.Flags().String("date", "", "Check the notes of this day's entry")
	cmd.Flags().Int("max", 0, "Max suggestions (0 for all)")

	RootCmd.AddCommand(cmd)
}

func runSuggest(cmd *cobra.Command, args []string) {
	dateStr, _ := cmd.Flags().GetString("date")
	maxN, _ := cmd.Flags().GetInt("max")

	e := openEnv()
	defer e.Close()

	var text string
	switch {
	case dateStr != "":
		entry, err := e.store.Get(cmd.Context(), dateArg([]string{dateStr}, 0))
		if err != nil {
			exitErr("get", err)
		}
		text = entry.Notes
	case len(args) > 0:
		text = strings.Join(args, " ")
	default:
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			exitErr("read stdin", err)
		}
		text = string(b)
	}

	table, err := e.rebuilder().Load(cmd.Context())
	if err != nil {
		exitErr("load tag cache", err)
	}

	opts := tags.DefaultOptions()
	opts.MinUses = e.cfg.Suggest.MinUses
	opts.MinWordLength = e.cfg.Suggest.MinWordLength
	opts.Max = maxN
	suggestions := tags.Suggest(text, table.Known(), opts)

	if textFormat() {
		for _, s := range suggestions {
			fmt.Printf("%q -> %s (%s)\n", s.Word, s.Replacement, s.Reason)
		}
		return
	}
	if suggestions == nil {
		suggestions = []tags.Suggestion{}
	}
	printJSON(suggestions)
}
