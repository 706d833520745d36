package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"augmentstats/internal/export"
	"augmentstats/internal/session"

	"github.com/spf13/cobra"
)

var (
	exportScope  string
	exportOutput string
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportCSVCmd, exportIconsCmd)
	exportCmd.PersistentFlags().StringVarP(&exportOutput, "output", "o", "", "output file, - for stdout")
	exportCSVCmd.Flags().StringVar(&exportScope, "scope", "live", "collection to export: live or pbe")
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stats or learned icons",
}

var exportCSVCmd = &cobra.Command{
	Use:   "csv",
	Short: "Export augment statistics as CSV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		class, err := session.ParseClass(exportScope)
		if err != nil {
			return err
		}
		t, err := openTracker(cmd.Context())
		if err != nil {
			return err
		}
		defer t.Close()

		return writeOutput(export.CSVFileName(class, time.Now()), func(w io.Writer) error {
			return t.ExportCSV(cmd.Context(), w, class)
		})
	},
}

var exportIconsCmd = &cobra.Command{
	Use:   "icons",
	Short: "Export learned augment icons as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := openTracker(cmd.Context())
		if err != nil {
			return err
		}
		defer t.Close()

		return writeOutput("augment_db.json", t.ExportIcons)
	},
}

// writeOutput writes to --output, stdout for "-", or defaultName.
func writeOutput(defaultName string, write func(io.Writer) error) error {
	path := exportOutput
	if path == "" {
		path = defaultName
	}
	if path == "-" {
		return write(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
