package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// cacheCmd groups cache maintenance subcommands
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the local catalog cache",
}

var cacheLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List cached catalogs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()

		records, err := a.Store.List()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Cache is empty.")
			return nil
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-30s %6s %8s\n", "TERM", "INDEX", "ASSETS")
		for _, rec := range records {
			fmt.Fprintf(out, "%-30s %6d %8d\n", rec.Term, rec.Index, rec.Entries)
		}
		return nil
	},
}

var cacheRmCmd = &cobra.Command{
	Use:   "rm <term>",
	Short: "Remove all cached catalogs for a term",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		if err := a.Store.Delete(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed cached catalogs for %q\n", args[0])
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		if err := a.Store.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheLsCmd)
	cacheCmd.AddCommand(cacheRmCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
