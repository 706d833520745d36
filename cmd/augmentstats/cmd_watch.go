package main

import (
	"fmt"
	"io"
	"os"

	"augmentstats/internal/progress"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch [addr]",
	Short: "Follow the progress of an ingest started with --progress-addr",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.ProgressAddr
		if len(args) == 1 {
			addr = args[0]
		}
		if addr == "" {
			return fmt.Errorf("no address given (pass one or set --progress-addr)")
		}

		finished := make(chan struct{}, 1)
		client, err := progress.Dial(progress.URL(addr), watchHandler(os.Stdout, finished))
		if err != nil {
			return err
		}
		defer client.Close()

		select {
		case <-finished:
		case <-client.Done():
		case <-cmd.Context().Done():
		}
		return nil
	},
}

// watchHandler prints stream events to w and signals finished when a batch ends.
// Later batch endings are dropped so the stream reader never blocks.
func watchHandler(w io.Writer, finished chan<- struct{}) progress.Handler {
	notify := func() {
		select {
		case finished <- struct{}{}:
		default:
		}
	}
	return func(ev progress.Event) {
		switch ev.Type {
		case progress.EventProgress:
			if p := ev.Progress; p != nil {
				fmt.Fprintf(w, "%3.0f%%  %d/%d  %s  %s\n", p.Percent, p.Current, p.Total, p.Stage, p.File)
			}
		case progress.EventDone:
			fmt.Fprintf(w, "done: %d games, %d failed screenshots\n", ev.Sessions, ev.Failed)
			notify()
		case progress.EventError:
			fmt.Fprintf(w, "error: %s\n", ev.Error)
			notify()
		}
	}
}
