package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/faveday/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export entries as JSON or score-file lines",
		Long:  "Export every entry. --as lines prints the score-file format; --history includes every sqlite revision.",
		Run:   runExport,
	}

	cmd.Flags().String("as", "json", "Export format: json or lines")
	cmd.Flags().Bool("history", false, "Include superseded revisions (sqlite backend, json only)")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	as, _ := cmd.Flags().GetString("as")
	history, _ := cmd.Flags().GetBool("history")

	e := openEnv()
	defer e.Close()

	if history {
		s, ok := e.store.(*store.SQLiteStore)
		if !ok {
			exitErr("export", fmt.Errorf("--history needs the sqlite backend"))
		}
		revs, err := s.ExportAll(cmd.Context())
		if err != nil {
			exitErr("export", err)
		}
		printJSON(revs)
		return
	}

	entries, err := e.store.All(cmd.Context())
	if err != nil {
		exitErr("export", err)
	}

	switch as {
	case "lines":
		for _, en := range entries {
			fmt.Println(store.FormatLine(en))
		}
	case "json":
		printJSON(entries)
	default:
		exitErr("export", fmt.Errorf("unknown export format %q (valid: json, lines)", as))
	}
}
