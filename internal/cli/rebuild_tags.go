package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rebuild-tags",
		Short: "Rebuild the tag cache from every entry",
		Run:   runRebuildTags,
	}

	RootCmd.AddCommand(cmd)
}

func runRebuildTags(cmd *cobra.Command, args []string) {
	e := openEnv()
	defer e.Close()

	res, err := e.rebuilder().Rebuild(cmd.Context())
	if err != nil {
		exitErr("rebuild tags", err)
	}

	if textFormat() {
		fmt.Printf("%s tags from %s entries written to %s in %s\n",
			humanize.Comma(int64(res.Tags)), humanize.Comma(int64(res.Entries)), res.Path, res.Duration)
		return
	}
	printJSON(res)
}
