package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/sprouthq/sprout/internal/app"
)

var prefetchCmd = &cobra.Command{
	Use:   "prefetch",
	Short: "Fill the content cache for the current curriculum",
	Long:  "Runs a sweep that generates game content for every curriculum module missing from the cache. With --watch, keeps sweeping periodically until interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		a, err := app.New(ctx, app.Options{DBPath: dbPath})
		if err != nil {
			return err
		}
		defer a.Close()

		if a.Profiles.Curriculum() == nil {
			return fmt.Errorf("no curriculum yet; run `sprout generate` first")
		}

		watch, _ := cmd.Flags().GetBool("watch")
		if !watch {
			n := a.Sweeper.Sweep(ctx)
			if n == 0 {
				fmt.Println("Cache is already complete.")
				return nil
			}
			fmt.Printf("Generating content for %d modules...\n", n)
			waitForIdle(a)
			fmt.Println("Done.")
			return nil
		}

		interval, _ := cmd.Flags().GetDuration("interval")
		if err := a.Sweeper.Start(interval); err != nil {
			return fmt.Errorf("start sweeper: %w", err)
		}
		fmt.Println("Sweeping periodically; press Ctrl+C to stop.")

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt)
		<-stop
		return nil
	},
}

// waitForIdle blocks until the scheduler has drained its queue.
func waitForIdle(a *app.App) {
	for a.Scheduler.IsProcessing() || len(a.Scheduler.Pending()) > 0 {
		time.Sleep(200 * time.Millisecond)
	}
}

func init() {
	prefetchCmd.Flags().Bool("watch", false, "Keep sweeping on an interval instead of once")
	prefetchCmd.Flags().Duration("interval", 0, "Sweep interval with --watch (default 2m)")
}
