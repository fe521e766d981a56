package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rcliao/faveday/internal/model"
	"github.com/rcliao/faveday/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import entries from JSON or score-file lines",
		Long:  "Import entries (stdin or file). Accepts the JSON array produced by export, or score-file lines.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runImport,
	}

	cmd.Flags().Bool("rebuild-tags", true, "Rebuild the tag cache afterwards")

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	rebuild, _ := cmd.Flags().GetBool("rebuild-tags")

	var r io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			exitErr("open", err)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		exitErr("read input", err)
	}

	entries, err := parseImport(data)
	if err != nil {
		exitErr("parse input", err)
	}

	e := openEnv()
	defer e.Close()

	imported, err := store.Import(cmd.Context(), e.store, entries)
	if err != nil {
		exitErr("import", err)
	}
	if rebuild && imported > 0 {
		if _, err := e.rebuilder().Rebuild(cmd.Context()); err != nil {
			exitErr("rebuild tags", err)
		}
	}

	fmt.Printf(`{"ok":true,"read":%d,"imported":%d}`+"\n", len(entries), imported)
}

func parseImport(data []byte) ([]model.Entry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var entries []model.Entry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, err
		}
		return entries, nil
	}

	var entries []model.Entry
	sc := bufio.NewScanner(bytes.NewReader(trimmed))
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		if len(bytes.TrimSpace([]byte(line))) == 0 {
			continue
		}
		e, err := store.ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		entries = append(entries, e)
	}
	return entries, sc.Err()
}
