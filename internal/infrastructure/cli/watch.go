package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/doccompare/internal/infrastructure/watch"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Watch a folder and analyze every deal file dropped into it",
	Long: `Watch a folder and analyze every .txt deal file that is created or
modified in it, printing a one-line summary per deal.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]

		services, err := loadServices(cmd)
		if err != nil {
			return MapError(err)
		}
		debounce := services.Config.Watch.Debounce
		if cmd.Flags().Changed("debounce") {
			debounce = watchDebounce
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		submitter := watch.NewSubmitter(services.Client, services.Logger)
		results := make(chan watch.Submission)

		w, err := watch.NewFSWatcher(debounce, nil, func(e watch.ChangeEvent) {
			sub := submitter.Submit(ctx, e.Path)
			select {
			case results <- sub:
			case <-ctx.Done():
			}
		})
		if err != nil {
			return err
		}
		if err := w.WatchRecursive(dir); err != nil {
			return err
		}

		fmt.Fprintf(out, "Watching %s for deal files... (Ctrl+C to stop)\n", dir)

		errCh := make(chan error, 1)
		go func() { errCh <- w.Run(ctx) }()

		for {
			select {
			case sub := <-results:
				fmt.Fprintf(out, "[%s] %s\n", time.Now().Format("15:04:05"), sub.Summary())
			case err := <-errCh:
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
		}
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "Quiet period before a changed file is submitted (default 500ms)")
	RootCmd.AddCommand(watchCmd)
}
