package nanobar

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/panjf2000/ants/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"nanobar/pkg/progress"
)

var (
	workersTotal int
	workersCount int
	workersDelay time.Duration
)

func newWorkersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workers",
		Short: "Tick one shared bar from several concurrent workers",
		Args:  cobra.NoArgs,
		RunE:  runWorkers,
	}
	cmd.Flags().IntVarP(&workersTotal, "total", "t", 100, "Number of work items")
	cmd.Flags().IntVarP(&workersCount, "workers", "g", 4, "Number of concurrent workers")
	cmd.Flags().DurationVar(&workersDelay, "delay", 20*time.Millisecond, "Simulated time per item")
	return cmd
}

func runWorkers(cmd *cobra.Command, args []string) error {
	if workersTotal < 0 {
		return fmt.Errorf("--total must not be negative")
	}
	if workersCount <= 0 {
		return fmt.Errorf("--workers must be greater than 0")
	}

	b, err := newBar(cmd, uint64(workersTotal))
	if err != nil {
		return err
	}

	return progress.Run(b.Message(fmt.Sprintf("Processing with %d workers", workersCount)), func(bar *progress.Bar) error {
		done, err := processItems(cmd.Context(), bar, workersTotal, workersCount)
		if err != nil {
			bar.Fail(fmt.Sprintf("Stopped after %d items: %v", done, err))
			return err
		}
		bar.Success(fmt.Sprintf("Processed %d items", done))
		return nil
	})
}

// processItems fans the items out over a pool of workers, each holding its
// own clone of bar, and returns how many items completed.
func processItems(ctx context.Context, bar *progress.Bar, total, workers int) (int64, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return 0, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	g, ctx := errgroup.WithContext(ctx)
	var processed atomic.Int64
	milestone := max(total/4, 1)

	for i := 0; i < total; i++ {
		item := i
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			worker := bar.Clone()
			errCh := make(chan error, 1)
			if err := pool.Submit(func() {
				defer worker.Close()
				time.Sleep(workersDelay)
				worker.Tick(1)
				errCh <- nil
			}); err != nil {
				worker.Close()
				return fmt.Errorf("submit task: %w", err)
			}
			if err := <-errCh; err != nil {
				return err
			}

			n := processed.Add(1)
			if debug && n%int64(milestone) == 0 {
				green := color.New(color.FgGreen)
				bar.Println(green.Sprintf("[DEBUG] item %d finished, %d/%d done", item, n, total))
			}
			return nil
		})
	}

	err = g.Wait()
	return processed.Load(), err
}
