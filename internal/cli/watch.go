package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rcliao/faveday/internal/config"
	"github.com/rcliao/faveday/internal/watch"
)

func init() {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the tag cache whenever score files change",
		Run:   runWatch,
	}

	cmd.Flags().Duration("debounce", watch.DefaultDebounce, "Wait this long for writes to settle")

	RootCmd.AddCommand(cmd)
}

func runWatch(cmd *cobra.Command, args []string) {
	debounce, _ := cmd.Flags().GetDuration("debounce")

	e := openEnv()
	defer e.Close()
	if e.cfg.Storage != config.StorageFiles {
		exitErr("watch", fmt.Errorf("watch needs the files backend (current: %s)", e.cfg.Storage))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rb := e.rebuilder()
	if _, err := rb.Rebuild(ctx); err != nil {
		exitErr("rebuild tags", err)
	}

	w := watch.NewWatcher(e.cfg.DataDir, func(ctx context.Context) error {
		_, err := rb.Rebuild(ctx)
		return err
	}, e.log)
	w.Debounce = debounce
	if err := w.Start(ctx); err != nil {
		exitErr("watch", err)
	}
	fmt.Fprintf(os.Stderr, "watching %s (ctrl-c to stop)\n", e.cfg.DataDir)

	<-w.Done()
}
