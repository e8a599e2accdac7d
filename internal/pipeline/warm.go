package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/igalign/internal/duckdb"
	"github.com/inodb/igalign/internal/igdomain"
	"github.com/inodb/igalign/internal/igerr"
)

// ChainCache is a Cache that can store a whole chain in one batch.
type ChainCache interface {
	Cache
	PutChain(descs []*igdomain.Descriptor, fp duckdb.FileFingerprint) error
}

// Warm resolves every domain numbered for structureID and stores the
// descriptors in the cache, returning how many were stored. Domains that
// fail to resolve, such as those whose reference structure is not
// catalogued, are left out.
func (r *Runner) Warm(ctx context.Context, structureID string) (int, error) {
	if r.cache == nil {
		return 0, fmt.Errorf("no descriptor cache configured")
	}
	structureID = strings.ToUpper(structureID)

	path, err := r.files.Ensure(ctx, structureID)
	if err != nil {
		return 0, err
	}
	fp, err := duckdb.StatFile(path)
	if err != nil {
		return 0, igerr.New(igerr.NumberingFileAcquisitionFailure, structureID, err)
	}
	fp = fp.WithResolver(r.resolver.Fingerprint())
	f, err := r.load(fp)
	if err != nil {
		return 0, err
	}

	stored := 0
	for _, chain := range f.Chains(structureID) {
		if err := ctx.Err(); err != nil {
			return stored, err
		}
		cd, _ := f.Chain(structureID, chain)
		descs, err := r.resolver.Chain(cd, structureID, chain)
		if err != nil {
			return stored, err
		}

		keep := descs[:0]
		for _, d := range descs {
			if err := d.Err(); err != nil {
				r.logger.Warn("domain not resolved, not cached",
					zap.String("domain", d.Key), zap.String("reference", d.RefName), zap.Error(err))
				continue
			}
			keep = append(keep, d)
		}

		if err := r.storeChain(keep, fp); err != nil {
			return stored, fmt.Errorf("cache chain %s_%s: %w", structureID, chain, err)
		}
		stored += len(keep)
	}

	r.logger.Info("descriptor cache warmed",
		zap.String("structure", structureID),
		zap.Int("domains", stored))
	return stored, nil
}

func (r *Runner) storeChain(descs []*igdomain.Descriptor, fp duckdb.FileFingerprint) error {
	if cc, ok := r.cache.(ChainCache); ok {
		return cc.PutChain(descs, fp)
	}
	for _, d := range descs {
		if err := r.cache.Put(d, fp); err != nil {
			return err
		}
	}
	return nil
}
