package main

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"text/tabwriter"

	"augmentstats/internal/pipeline"
	"augmentstats/internal/progress"
	"augmentstats/internal/review"

	"github.com/spf13/cobra"
)

var (
	ingestSave       bool
	ingestPlacements []int
	ingestNames      []string
)

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().BoolVar(&ingestSave, "save", false, "record the processed games")
	ingestCmd.Flags().IntSliceVar(&ingestPlacements, "placement", nil, "final placement per game, in order (e.g. --placement 1,4)")
	ingestCmd.Flags().StringArrayVar(&ingestNames, "name", nil, "name an augment slot as GAME:SLOT=NAME, both 1-based (learns unknown icons)")
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <file|folder>...",
	Short: "Process screenshots into games",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		t, err := openTracker(ctx)
		if err != nil {
			return err
		}
		defer t.Close()

		hub := progress.NewHub()
		if cfg.ProgressAddr != "" {
			if _, err := progress.Serve(ctx, cfg.ProgressAddr, hub); err != nil {
				return err
			}
			defer hub.Close()
		}

		result, err := t.Ingest(ctx, args, func(p pipeline.Progress) {
			fmt.Fprintf(os.Stderr, "\r%d/%d files • %s", p.Current, p.Total, p.Stage)
			hub.Broadcast(progress.Event{Type: progress.EventProgress, Progress: &p})
		})
		fmt.Fprintln(os.Stderr)
		if err != nil {
			hub.Broadcast(progress.Event{Type: progress.EventError, Error: err.Error()})
			return err
		}
		hub.Broadcast(progress.Event{Type: progress.EventDone, Sessions: len(result.Sessions), Failed: result.Failed()})

		queue := t.Review()
		if err := applyReview(cmd, queue); err != nil {
			return err
		}
		printSessions(queue)
		printFailures(result)

		if !ingestSave {
			fmt.Println("\nNothing saved. Re-run with --save to record these games.")
			return nil
		}
		n, err := queue.Save(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("\nSaved %d games.\n", n)
		return nil
	},
}

var nameFlag = regexp.MustCompile(`^(\d+):(\d+)=(.+)$`)

func applyReview(cmd *cobra.Command, queue *review.Queue) error {
	for i, p := range ingestPlacements {
		if err := queue.SetPlacement(i, p); err != nil {
			return fmt.Errorf("game %d: %w", i+1, err)
		}
	}
	for _, raw := range ingestNames {
		m := nameFlag.FindStringSubmatch(raw)
		if m == nil {
			return fmt.Errorf("invalid --name %q, want GAME:SLOT=NAME", raw)
		}
		game, _ := strconv.Atoi(m[1])
		slot, _ := strconv.Atoi(m[2])
		if err := queue.NameAugment(cmd.Context(), game-1, slot-1, strings.TrimSpace(m[3])); err != nil {
			return fmt.Errorf("game %d slot %d: %w", game, slot, err)
		}
	}
	return nil
}

func printSessions(queue *review.Queue) {
	pending := queue.Pending()
	if len(pending) == 0 {
		fmt.Println("No games found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "GAME\tTYPE\tGROUP\tSTART\tSHOTS\tPLACE\tAUGMENTS")
	for i, s := range pending {
		augments := strings.Join(s.Augments, ", ")
		if s.PossibleDuplicate {
			augments += " (possibly already recorded)"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\t%s\n",
			i+1,
			s.Class,
			s.Group,
			s.Screenshots[0].Time().Format("2006-01-02 15:04"),
			len(s.Screenshots),
			s.Placement,
			augments,
		)
	}
	w.Flush()
}

func printFailures(result *pipeline.Result) {
	if result.Failed() == 0 {
		return
	}
	fmt.Printf("\n%d screenshots could not be analysed:\n", result.Failed())
	for _, o := range result.Outcomes {
		if o.Status == pipeline.StatusFailed {
			fmt.Printf("  %s: %s\n", o.File, o.Error)
		}
	}
}
