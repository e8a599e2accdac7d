package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/igalign/internal/alignment"
	"github.com/inodb/igalign/internal/grid"
	"github.com/inodb/igalign/internal/igdomain"
	"github.com/inodb/igalign/internal/igerr"
)

// Run1D writes the 1D table for triples to sheet: a header and one row per
// triple whose numbering file was obtained.
func (r *Runner) Run1D(ctx context.Context, triples []igdomain.Triple, sheet grid.Sheet) (Summary, error) {
	sum := Summary{Requested: len(triples)}

	results, err := r.Resolve(ctx, triples)
	if err != nil {
		return sum, err
	}

	var rows []*igdomain.Descriptor
	for _, res := range results {
		if res.Status == Skipped {
			sum.Skipped = append(sum.Skipped, res)
			continue
		}
		rows = append(rows, res.Desc)
	}

	keys := alignment.UnifyKeys(rows)
	if err := alignment.NewTable1D().Render(sheet, rows, keys); err != nil {
		return sum, fmt.Errorf("render 1D table: %w", err)
	}
	sum.Rows = len(rows)

	r.logger.Info("1D alignment written",
		zap.Int("requested", sum.Requested),
		zap.Int("rows", sum.Rows),
		zap.Int("columns", len(keys)),
		zap.Int("skipped", len(sum.Skipped)))
	return sum, nil
}

// Run2D places one template block per resolved triple on sheet, left to
// right, and saves after every block so partial output survives a later
// failure. saver may be nil.
func (r *Runner) Run2D(ctx context.Context, triples []igdomain.Triple, sheet grid.Sheet, saver Saver, templates TemplateSource) (Summary, error) {
	sum := Summary{Requested: len(triples)}

	results, err := r.Resolve(ctx, triples)
	if err != nil {
		return sum, err
	}

	canvas := alignment.NewCanvas(sheet)
	for _, res := range results {
		if res.Status != Found {
			sum.Skipped = append(sum.Skipped, res)
			r.logger.Info("no 2D block for triple",
				zap.String("triple", res.Triple.Key()),
				zap.Stringer("status", res.Status))
			continue
		}

		d := res.Desc
		name := igdomain.TemplateName(d)
		tmpl, err := templates.Get(name, d.FoldType)
		if err != nil {
			if igerr.Is(err, igerr.MissingTemplate) {
				res.Status, res.Err = Skipped, err
				sum.Skipped = append(sum.Skipped, res)
				r.logger.Warn("template not found, skipping",
					zap.String("triple", res.Triple.Key()),
					zap.String("template", name))
				continue
			}
			return sum, fmt.Errorf("template %s: %w", name, err)
		}

		block := alignment.BuildBlock(res.Triple, d, tmpl)
		if _, err := canvas.Place(block); err != nil {
			return sum, err
		}
		sum.Blocks++

		if saver != nil {
			if err := saver.Save(); err != nil {
				return sum, fmt.Errorf("save 2D output: %w", err)
			}
		}
	}

	r.logger.Info("2D alignment written",
		zap.Int("requested", sum.Requested),
		zap.Int("blocks", sum.Blocks),
		zap.Int("skipped", len(sum.Skipped)))
	return sum, nil
}
