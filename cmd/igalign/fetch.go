package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/inodb/igalign/internal/provider"
)

func newFetchCmd(a *app) *cobra.Command {
	var jobs int

	cmd := &cobra.Command{
		Use:   "fetch <structure-id>...",
		Short: "Download numbering files into the local cache",
		Example: `  igalign fetch 5ESV 1CD8
  igalign fetch --jobs 8 $(cut -f1 input.txt | sort -u)`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(viper.GetViper())
			if err != nil {
				return err
			}
			files, err := s.newFileCache(a.logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			failed := runFetch(ctx, files, args, jobs, a.logger)
			if failed > 0 {
				return fmt.Errorf("%d of %d structures could not be fetched", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "Concurrent downloads")
	return cmd
}

// runFetch ensures every id is cached and returns the number of failures.
func runFetch(ctx context.Context, files *provider.FileCache, ids []string, jobs int, logger *zap.Logger) int {
	if jobs < 1 {
		jobs = 1
	}

	type outcome struct {
		path string
		err  error
	}
	results := make([]outcome, len(ids))

	var g errgroup.Group
	g.SetLimit(jobs)
	for i, id := range ids {
		g.Go(func() error {
			path, err := files.Ensure(ctx, id)
			results[i] = outcome{path: path, err: err}
			return nil
		})
	}
	g.Wait()

	failed := 0
	for i, id := range ids {
		if err := results[i].err; err != nil {
			failed++
			logger.Warn("fetch failed", zap.String("structure", strings.ToUpper(id)), zap.Error(err))
			fmt.Printf("%s\tfailed\t%v\n", strings.ToUpper(id), err)
			continue
		}
		fmt.Printf("%s\tok\t%s\n", strings.ToUpper(id), results[i].path)
	}
	return failed
}
