package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/igalign/internal/duckdb"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the resolved-domain cache",
		Long:  "List, clear or warm the DuckDB cache of resolved domains configured by cache.path.",
	}
	cmd.AddCommand(newCacheListCmd())
	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCacheWarmCmd(a))
	return cmd
}

func newCacheWarmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "warm <structure-id>...",
		Short: "Resolve and cache every domain of the given structures",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(viper.GetViper())
			if err != nil {
				return err
			}
			if s.Cache.Path == "" {
				return &usageError{msg: "cache.path is not set (igalign config set cache.path <file>)"}
			}
			runner, closeCache, err := s.newRunner(a.logger)
			if err != nil {
				return err
			}
			defer closeCache()

			failed := 0
			for _, id := range args {
				n, err := runner.Warm(cmd.Context(), id)
				if err != nil {
					failed++
					fmt.Printf("%s\tfailed\t%v\n", strings.ToUpper(id), err)
					continue
				}
				fmt.Printf("%s\t%d domains cached\n", strings.ToUpper(id), n)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d structures could not be cached", failed, len(args))
			}
			return nil
		},
	}
}

func newCacheListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached domains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openConfiguredCache()
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List()
			if err != nil {
				return err
			}
			return printEntries(os.Stdout, entries)
		},
	}
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [structure-id]...",
		Short: "Remove cached domains (all, or those of the given structures)",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openConfiguredCache()
			if err != nil {
				return err
			}
			defer store.Close()

			if len(args) == 0 {
				if err := store.Clear(); err != nil {
					return err
				}
				fmt.Println("Cache cleared")
				return nil
			}
			for _, id := range args {
				n, err := store.DeleteStructure(strings.ToUpper(id))
				if err != nil {
					return err
				}
				fmt.Printf("%s\t%d removed\n", strings.ToUpper(id), n)
			}
			return nil
		},
	}
}

func openConfiguredCache() (*duckdb.Store, error) {
	s, err := loadSettings(viper.GetViper())
	if err != nil {
		return nil, err
	}
	if s.Cache.Path == "" {
		return nil, &usageError{msg: "cache.path is not set (igalign config set cache.path <file>)"}
	}
	return s.openCache()
}

func printEntries(w io.Writer, entries []duckdb.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tFOLD\tREFERENCE\tFILE SIZE\tCACHED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", e.Key, e.FoldType, e.RefName, e.FileSize, e.CachedAt.Format("2006-01-02 15:04:05"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d cached domains\n", len(entries))
	return err
}
