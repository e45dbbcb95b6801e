package cli

import (
	"context"
	"fmt"

	"github.com/payshield/payshield-cli/internal/client/upload"
)

// Upload bulk-submits a CSV/Excel file and follows the server-side job
// until it finishes. Ctrl-D or context cancellation detaches from the job
// without aborting it on the server.
func (a *App) Upload(ctx context.Context, args []string) error {
	if !a.requireAuth() {
		return nil
	}

	path := ""
	if len(args) > 0 {
		path = args[0]
	} else {
		var err error
		path, err = getSimpleText(a.reader, "Enter file path (.csv, .xls, .xlsx)", a.out)
		if err != nil {
			return err
		}
	}

	tracker := upload.NewTracker(a.api, a.cache, a.log, upload.Options{
		PollInterval: a.config.PollInterval,
		MaxFileBytes: a.config.MaxUploadBytes,
	})

	if err := tracker.Submit(ctx, path); err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}

	for {
		select {
		case ev := <-tracker.Events():
			a.printUploadEvent(ev)
			if ev.State.Terminal() {
				return nil
			}
		case <-ctx.Done():
			tracker.Detach()
			fmt.Fprintln(a.out, "Detached from upload; the server keeps processing")
			return ctx.Err()
		}
	}
}

func (a *App) printUploadEvent(ev upload.Event) {
	switch ev.State {
	case upload.StateCompleted:
		if ev.Result != nil {
			fmt.Fprintf(a.out, "Upload complete: %d rows, %d processed, %d failed\n",
				ev.Result.TotalRows, ev.Result.ProcessedRows, ev.Result.FailedRows)
			return
		}
		fmt.Fprintln(a.out, "Upload complete")
	case upload.StateFailed:
		fmt.Fprintf(a.out, "Upload failed: %s\n", ev.Err)
	default:
		if ev.Progress != nil {
			fmt.Fprintf(a.out, "  %s %.0f%% (%d/%d)\n",
				ev.State, ev.Progress.Percent, ev.Progress.Processed, ev.Progress.Total)
		} else {
			fmt.Fprintf(a.out, "  %s\n", ev.State)
		}
	}
}
