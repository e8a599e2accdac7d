package provider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/inodb/igalign/internal/igerr"
	"github.com/inodb/igalign/internal/numbering"
)

// Defaults for FileCache.
const (
	DefaultTimeout  = 2 * time.Minute
	DefaultRetries  = 2
	DefaultMinBytes = 3
)

// FileCache stores numbering files under a directory and fetches missing
// ones from a Provider.
type FileCache struct {
	Dir    string
	Scheme string

	// Timeout bounds a single fetch attempt.
	Timeout time.Duration
	// Retries is the number of attempts after the first.
	Retries uint64
	// MinBytes is the largest output still treated as "no numbering".
	MinBytes int

	provider   Provider
	group      singleflight.Group
	logger     *zap.Logger
	newBackOff func() backoff.BackOff
}

// NewFileCache creates a cache of scheme numbering files in dir backed by p.
func NewFileCache(dir, scheme string, p Provider) *FileCache {
	return &FileCache{
		Dir:      dir,
		Scheme:   scheme,
		Timeout:  DefaultTimeout,
		Retries:  DefaultRetries,
		MinBytes: DefaultMinBytes,
		provider: p,
		logger:   zap.NewNop(),
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = time.Second
			b.MaxElapsedTime = 0
			return b
		},
	}
}

// SetLogger sets the logger used for fetch diagnostics.
func (c *FileCache) SetLogger(logger *zap.Logger) {
	c.logger = logger
}

// Path returns the cache path of structureID's numbering file.
func (c *FileCache) Path(structureID string) string {
	return filepath.Join(c.Dir, numbering.FileName(structureID, c.Scheme))
}

// Cached reports whether structureID's numbering file is already present.
func (c *FileCache) Cached(structureID string) bool {
	info, err := os.Stat(c.Path(structureID))
	return err == nil && info.Mode().IsRegular()
}

// Ensure returns the path of structureID's numbering file, fetching it
// first when it is not cached. Concurrent calls for the same structure
// share one fetch. Failures are reported as NumberingFileAcquisitionFailure.
func (c *FileCache) Ensure(ctx context.Context, structureID string) (string, error) {
	id := strings.ToUpper(structureID)
	path := c.Path(id)
	if c.Cached(id) {
		return path, nil
	}

	_, err, _ := c.group.Do(id, func() (any, error) {
		if c.Cached(id) {
			return nil, nil
		}
		c.logger.Info("numbering file not cached, fetching",
			zap.String("structure", id),
			zap.String("path", path))
		return nil, c.fetch(ctx, id, path)
	})
	if err != nil {
		return "", igerr.New(igerr.NumberingFileAcquisitionFailure, id, err)
	}
	return path, nil
}

func (c *FileCache) fetch(ctx context.Context, id, path string) error {
	var data []byte
	attempt := 0
	op := func() error {
		attempt++
		actx, cancel := context.WithTimeout(ctx, c.Timeout)
		defer cancel()

		out, err := c.provider.Fetch(actx, id)
		if err != nil {
			c.logger.Warn("numbering fetch failed",
				zap.String("structure", id),
				zap.Int("attempt", attempt),
				zap.Error(err))
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		if len(out) <= c.MinBytes {
			return backoff.Permanent(fmt.Errorf("provider returned %d bytes", len(out)))
		}
		data = out
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), c.Retries), ctx)
	if err := backoff.Retry(op, b); err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			err = perm.Err
		}
		return err
	}

	if err := writeAtomic(path, data); err != nil {
		return err
	}
	c.logger.Info("numbering file created",
		zap.String("structure", id),
		zap.Int("bytes", len(data)))
	return nil
}

// writeAtomic writes data to path through a temporary file and a rename.
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write numbering file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename numbering file: %w", err)
	}
	return nil
}
