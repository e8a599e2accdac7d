// Package pipeline runs a batch of requested domains through numbering
// acquisition, domain resolution and 1D or 2D rendering.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/inodb/igalign/internal/catalog"
	"github.com/inodb/igalign/internal/duckdb"
	"github.com/inodb/igalign/internal/grid"
	"github.com/inodb/igalign/internal/igdomain"
	"github.com/inodb/igalign/internal/igerr"
	"github.com/inodb/igalign/internal/numbering"
)

// FileSource makes a structure's numbering file available on disk.
type FileSource interface {
	Ensure(ctx context.Context, structureID string) (string, error)
}

// Cache stores resolved descriptors keyed by triple.
type Cache interface {
	Get(key string, fp duckdb.FileFingerprint) (*igdomain.Descriptor, bool, error)
	Put(d *igdomain.Descriptor, fp duckdb.FileFingerprint) error
}

// TemplateSource returns 2D layouts by name.
type TemplateSource interface {
	Get(name string, fold catalog.FoldType) (*grid.Template, error)
}

// Saver persists the 2D output after each block.
type Saver interface {
	Save() error
}

// Runner resolves triples against numbering files.
type Runner struct {
	files    FileSource
	loader   *numbering.Loader
	resolver *igdomain.Resolver
	cache    Cache
	workers  int
	logger   *zap.Logger

	mu     sync.Mutex
	loaded map[string]loadedFile
	group  singleflight.Group
}

type loadedFile struct {
	fp   duckdb.FileFingerprint
	file *numbering.File
}

// NewRunner creates a runner reading numbering files from files.
func NewRunner(files FileSource, resolver *igdomain.Resolver) *Runner {
	return &Runner{
		files:    files,
		loader:   numbering.NewLoader(),
		resolver: resolver,
		logger:   zap.NewNop(),
		loaded:   make(map[string]loadedFile),
	}
}

// SetLogger sets the logger for the runner and its loader.
func (r *Runner) SetLogger(logger *zap.Logger) {
	r.logger = logger
	r.loader.SetLogger(logger)
}

// SetCache enables the descriptor cache.
func (r *Runner) SetCache(c Cache) {
	r.cache = c
}

// SetWorkers sets the resolution parallelism; 0 uses one worker per CPU.
func (r *Runner) SetWorkers(n int) {
	r.workers = n
}

// Resolve resolves every triple in parallel and returns one Result per
// triple in input order. Only a fatal error (an unrepairable numbering
// file) stops the batch.
func (r *Runner) Resolve(ctx context.Context, triples []igdomain.Triple) ([]Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]Result, 0, len(triples))
	out := igdomain.ParallelResolve(ctx, igdomain.Queue(triples), r.workers, r.resolveOne)
	err := igdomain.OrderedCollect(out, func(wr igdomain.WorkResult) error {
		res, err := classify(wr)
		if err != nil {
			cancel()
			return err
		}
		r.report(res)
		results = append(results, res)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) report(res Result) {
	switch res.Status {
	case NotFound:
		r.logger.Warn("domain not resolved, writing empty row",
			zap.String("triple", res.Triple.Key()),
			zap.Error(res.Err))
	case Skipped:
		r.logger.Warn("skipping triple",
			zap.String("triple", res.Triple.Key()),
			zap.Error(res.Err))
	}
}

// resolveOne runs ENSURE_NUMBERING_FILE then RESOLVE_DOMAIN for one triple.
func (r *Runner) resolveOne(ctx context.Context, t igdomain.Triple) (*igdomain.Descriptor, error) {
	t.StructureID = strings.ToUpper(t.StructureID)

	path, err := r.files.Ensure(ctx, t.StructureID)
	if err != nil {
		return nil, err
	}

	fp, err := duckdb.StatFile(path)
	if err != nil {
		return nil, igerr.New(igerr.NumberingFileAcquisitionFailure, t.StructureID, err)
	}
	fp = fp.WithResolver(r.resolver.Fingerprint())

	if r.cache != nil {
		d, ok, err := r.cache.Get(t.Key(), fp)
		if err != nil {
			r.logger.Warn("descriptor cache read failed", zap.String("triple", t.Key()), zap.Error(err))
		} else if ok {
			return d, nil
		}
	}

	f, err := r.load(fp)
	if err != nil {
		return nil, err
	}

	d, err := r.resolver.Lookup(f, t)
	if err != nil {
		return d, err
	}

	if r.cache != nil {
		if err := r.cache.Put(d, fp); err != nil {
			r.logger.Warn("descriptor cache write failed", zap.String("triple", t.Key()), zap.Error(err))
		}
	}
	return d, nil
}

// load decodes a numbering file once per version of the file.
func (r *Runner) load(fp duckdb.FileFingerprint) (*numbering.File, error) {
	r.mu.Lock()
	lf, ok := r.loaded[fp.Path]
	r.mu.Unlock()
	if ok && lf.fp.Same(fp) {
		return lf.file, nil
	}

	v, err, _ := r.group.Do(fp.Path, func() (any, error) {
		f, err := r.loader.Load(fp.Path)
		if err != nil {
			return nil, err
		}
		r.logger.Debug("numbering file loaded", zap.Stringer("file", fp))
		r.mu.Lock()
		r.loaded[fp.Path] = loadedFile{fp: fp, file: f}
		r.mu.Unlock()
		return f, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", fp.Path, err)
	}
	return v.(*numbering.File), nil
}
