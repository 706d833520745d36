package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var forceClear bool

func init() {
	rootCmd.AddCommand(iconsCmd, clearCmd)
	iconsCmd.AddCommand(iconsListCmd, iconsImportCmd, iconsLearnCmd, iconsClearCmd, iconsPullCmd)
	iconsClearCmd.Flags().BoolVarP(&forceClear, "yes", "y", false, "do not ask for confirmation")
	clearCmd.Flags().BoolVarP(&forceClear, "yes", "y", false, "do not ask for confirmation")
}

var iconsCmd = &cobra.Command{
	Use:   "icons",
	Short: "Manage learned augment icons",
}

var iconsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List learned augments",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := openTracker(cmd.Context())
		if err != nil {
			return err
		}
		defer t.Close()

		snap := t.Icons()
		if snap.Len() == 0 {
			fmt.Println("No icons learned.")
			return nil
		}
		for _, name := range snap.Names() {
			fp, _ := snap.Get(name)
			fmt.Printf("%016x  %s\n", fp.Hash, name)
		}
		fmt.Printf("%d icons\n", snap.Len())
		return nil
	},
}

var iconsImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Merge icons from an exported JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer f.Close()

		t, err := openTracker(cmd.Context())
		if err != nil {
			return err
		}
		defer t.Close()

		n, err := t.ImportIcons(cmd.Context(), f)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d icons.\n", n)
		return nil
	},
}

var iconsLearnCmd = &cobra.Command{
	Use:   "learn <name> <icon image>",
	Short: "Learn an augment from a cropped icon image",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := openTracker(cmd.Context())
		if err != nil {
			return err
		}
		defer t.Close()

		if err := t.LearnIcon(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Learned %s.\n", args[0])
		return nil
	},
}

var iconsPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download the shared icon pack (env ICON_PACK_MANIFEST_URL)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := openTracker(cmd.Context())
		if err != nil {
			return err
		}
		defer t.Close()

		version, n, err := t.PullIconPack(cmd.Context())
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Println("Icons are up to date.")
			return nil
		}
		fmt.Printf("Merged %d icons from pack %s.\n", n, version)
		return nil
	},
}

var iconsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every learned icon",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm("Forget every learned augment icon?") {
			return nil
		}
		t, err := openTracker(cmd.Context())
		if err != nil {
			return err
		}
		defer t.Close()

		if err := t.ClearIcons(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Icons cleared.")
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every recorded game and learned icon",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm("Delete every recorded game and learned icon? This cannot be undone.") {
			return nil
		}
		t, err := openTracker(cmd.Context())
		if err != nil {
			return err
		}
		defer t.Close()

		if err := t.ClearAll(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("All data cleared.")
		return nil
	},
}

func confirm(question string) bool {
	if forceClear {
		return true
	}
	fmt.Printf("%s [y/N] ", question)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
