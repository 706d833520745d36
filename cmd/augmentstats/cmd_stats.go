package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"augmentstats/internal/session"
	"augmentstats/internal/stats"

	"github.com/spf13/cobra"
)

var (
	statsScope   string
	statsByGroup bool
)

func init() {
	rootCmd.AddCommand(statsCmd, historyCmd)
	statsCmd.Flags().StringVar(&statsScope, "scope", "live", "collection to report: live or pbe")
	statsCmd.Flags().BoolVar(&statsByGroup, "by-group", false, "one report per reporting period")
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show augment statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		class, err := session.ParseClass(statsScope)
		if err != nil {
			return err
		}
		t, err := openTracker(cmd.Context())
		if err != nil {
			return err
		}
		defer t.Close()

		if !statsByGroup {
			report, err := t.Stats(cmd.Context(), class)
			if err != nil {
				return err
			}
			printReport(report, "")
			return nil
		}

		reports, err := t.StatsByGroup(cmd.Context(), class)
		if err != nil {
			return err
		}
		groups := make([]string, 0, len(reports))
		for g := range reports {
			groups = append(groups, g)
		}
		sort.Sort(sort.Reverse(sort.StringSlice(groups)))
		for _, g := range groups {
			printReport(reports[g], g)
			fmt.Println()
		}
		return nil
	},
}

func printReport(r stats.Report, group string) {
	title := string(r.Scope)
	if group != "" {
		title = group
	}
	fmt.Printf("%s: %d games, avg placement %.2f, win rate %.1f%%\n",
		title, r.TotalGames, r.AvgPlacement, r.WinRate*100)
	if len(r.Augments) == 0 {
		fmt.Println("No data.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "AUGMENT\tGAMES\tAVG PLACE\tWIN RATE\tPICK RATE")
	for _, s := range r.Augments {
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%.1f%%\t%.1f%%\n", s.Name, s.Count, s.AvgPlace, s.WinRate*100, s.PickRate*100)
	}
	w.Flush()
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded games, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := openTracker(cmd.Context())
		if err != nil {
			return err
		}
		defer t.Close()

		games, err := t.History(cmd.Context())
		if err != nil {
			return err
		}
		if len(games) == 0 {
			fmt.Println("No games recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tTYPE\tGROUP\tPLACE\tAUGMENTS")
		for _, g := range games {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				time.UnixMilli(g.Date).Format("2006-01-02 15:04"),
				g.Class, g.Group, g.Placement, strings.Join(g.Augments, ", "))
		}
		return w.Flush()
	},
}
