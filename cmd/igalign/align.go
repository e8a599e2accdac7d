package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/igalign/internal/grid"
	"github.com/inodb/igalign/internal/igdomain"
	"github.com/inodb/igalign/internal/input"
	"github.com/inodb/igalign/internal/output"
	"github.com/inodb/igalign/internal/pipeline"
)

const outputSheet = "Sheet"

func newAlignCmd(a *app) *cobra.Command {
	var (
		inputFile  string
		dimensions string
		tsvFile    string
	)

	cmd := &cobra.Command{
		Use:   "align",
		Short: "Write 1D and/or 2D alignments for a list of domains",
		Long: `Read "structure chain domain" lines and write the alignment workbooks
1D_mapping_{scheme}.xlsx and/or 2D_mapping_{scheme}.xlsx under paths.output.`,
		Example: `  igalign align -f input.txt -d 1D
  igalign align -f input.txt -d 1D,2D
  igalign align -f input.txt -d 1D --tsv mapping.tsv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dims, invalid := parseDimensions(dimensions)
			for _, d := range invalid {
				fmt.Printf("Invalid dimension specified: %s. Supported dimensions are 1D, 2D, or 1D,2D.\n", d)
			}
			if len(dims) == 0 {
				return &usageError{msg: fmt.Sprintf("no valid dimension in %q", dimensions)}
			}

			s, err := loadSettings(viper.GetViper())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runAlign(ctx, s, a.logger, inputFile, dims, tsvFile)
		},
	}

	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "Input file with structure, chain and domain per line (- for stdin)")
	cmd.Flags().StringVarP(&dimensions, "dimension", "d", "1D", "Processing dimension: 1D, 2D, or 1D,2D")
	cmd.Flags().StringVar(&tsvFile, "tsv", "", "Also write the 1D table as tab-separated text")
	cmd.MarkFlagRequired("file")
	return cmd
}

// parseDimensions splits a comma-separated dimension list into the
// recognised dimensions, in order and without repeats, and the rest.
func parseDimensions(s string) (dims, invalid []string) {
	seen := make(map[string]bool)
	for _, d := range strings.Split(s, ",") {
		d = strings.ToUpper(strings.TrimSpace(d))
		switch d {
		case "1D", "2D":
			if !seen[d] {
				seen[d] = true
				dims = append(dims, d)
			}
		default:
			invalid = append(invalid, d)
		}
	}
	return dims, invalid
}

func runAlign(ctx context.Context, s Settings, logger *zap.Logger, inputFile string, dims []string, tsvFile string) error {
	triples, err := input.ReadFile(inputFile, logger)
	if err != nil {
		return err
	}
	if len(triples) == 0 {
		return fmt.Errorf("no domains in %s", inputFile)
	}

	runner, closeCache, err := s.newRunner(logger)
	if err != nil {
		return err
	}
	defer closeCache()

	if err := os.MkdirAll(s.Paths.Output, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, dim := range dims {
		switch dim {
		case "1D":
			err = write1D(ctx, runner, triples, outputPath(s, "1D"), tsvFile)
		case "2D":
			err = write2D(ctx, runner, triples, outputPath(s, "2D"), s.templateSet())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func outputPath(s Settings, dim string) string {
	return filepath.Join(s.Paths.Output, fmt.Sprintf("%s_mapping_%s.xlsx", dim, strings.ToLower(s.Numbering.Scheme)))
}

func write1D(ctx context.Context, runner *pipeline.Runner, triples []igdomain.Triple, path, tsvFile string) error {
	wb, err := output.NewWorkbook(path, outputSheet)
	if err != nil {
		return err
	}
	defer wb.Close()

	var sheet grid.Sheet = wb
	var tw *output.TabWriter
	if tsvFile != "" {
		f, err := os.Create(tsvFile)
		if err != nil {
			return fmt.Errorf("creating %s: %w", tsvFile, err)
		}
		defer f.Close()
		tw = output.NewTabWriter(f)
		sheet = teeSheet{wb, tw}
	}

	sum, err := runner.Run1D(ctx, triples, sheet)
	if err != nil {
		return err
	}
	if err := wb.Save(); err != nil {
		return err
	}
	if tw != nil {
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("writing %s: %w", tsvFile, err)
		}
	}

	fmt.Printf("1D: %d of %d domains written to %s\n", sum.Rows, sum.Requested, path)
	printSkipped(sum)
	return nil
}

func write2D(ctx context.Context, runner *pipeline.Runner, triples []igdomain.Triple, path string, templates *output.TemplateSet) error {
	wb, err := output.NewWorkbook(path, outputSheet)
	if err != nil {
		return err
	}
	defer wb.Close()

	sum, err := runner.Run2D(ctx, triples, wb, wb, templates)
	if err != nil {
		return err
	}
	if sum.Blocks == 0 {
		fmt.Printf("2D: no domains could be drawn; %s not written\n", path)
		printSkipped(sum)
		return nil
	}

	fmt.Printf("2D: %d of %d domains written to %s\n", sum.Blocks, sum.Requested, path)
	printSkipped(sum)
	return nil
}

func printSkipped(sum pipeline.Summary) {
	for _, res := range sum.Skipped {
		reason := res.Status.String()
		if res.Err != nil {
			reason = res.Err.Error()
		}
		fmt.Printf("  skipped %s: %s\n", res.Triple.Key(), reason)
	}
}

// teeSheet writes every cell to all of its sheets.
type teeSheet []grid.Sheet

func (t teeSheet) SetCell(row, col int, c grid.Cell) error {
	for _, s := range t {
		if err := s.SetCell(row, col, c); err != nil {
			return err
		}
	}
	return nil
}
