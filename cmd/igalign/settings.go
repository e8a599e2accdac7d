package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/inodb/igalign/internal/catalog"
	"github.com/inodb/igalign/internal/duckdb"
	"github.com/inodb/igalign/internal/igdomain"
	"github.com/inodb/igalign/internal/output"
	"github.com/inodb/igalign/internal/pipeline"
	"github.com/inodb/igalign/internal/provider"
)

// Settings is the resolved configuration of one invocation.
type Settings struct {
	Paths struct {
		Numbering string `mapstructure:"numbering"`
		Templates string `mapstructure:"templates"`
		Output    string `mapstructure:"output"`
	} `mapstructure:"paths"`

	Numbering struct {
		Scheme string `mapstructure:"scheme"`
	} `mapstructure:"numbering"`

	Templates struct {
		Sizes map[string]output.Size `mapstructure:"sizes"`
	} `mapstructure:"templates"`

	Provider ProviderSettings `mapstructure:"provider"`

	Catalog struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"catalog"`

	Resolve struct {
		Workers    int    `mapstructure:"workers"`
		Duplicates string `mapstructure:"duplicates"`
	} `mapstructure:"resolve"`

	Cache struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"cache"`

	Server struct {
		Addr    string        `mapstructure:"addr"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"server"`
}

// ProviderSettings selects and tunes the numbering provider.
type ProviderSettings struct {
	Kind     string        `mapstructure:"kind"`
	Command  string        `mapstructure:"command"`
	Workdir  string        `mapstructure:"workdir"`
	URL      string        `mapstructure:"url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Retries  uint64        `mapstructure:"retries"`
	MinBytes int           `mapstructure:"min_bytes"`
}

// LogSettings configures the zap logger.
type LogSettings struct {
	Level string
	File  string
	JSON  bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("paths.numbering", "numbering")
	v.SetDefault("paths.templates", "igstrand_template")
	v.SetDefault("paths.output", ".")
	v.SetDefault("numbering.scheme", "igstrand")
	v.SetDefault("templates.sizes", map[string]any{
		output.FallbackSizeKey: map[string]any{"rows": output.DefaultSize.Rows, "cols": output.DefaultSize.Cols},
	})
	v.SetDefault("provider.kind", "command")
	v.SetDefault("provider.command", strings.Join(provider.DefaultCommand, " "))
	v.SetDefault("provider.workdir", "")
	v.SetDefault("provider.url", "")
	v.SetDefault("provider.timeout", provider.DefaultTimeout)
	v.SetDefault("provider.retries", provider.DefaultRetries)
	v.SetDefault("provider.min_bytes", provider.DefaultMinBytes)
	v.SetDefault("catalog.path", "")
	v.SetDefault("resolve.workers", 0)
	v.SetDefault("resolve.duplicates", "first")
	v.SetDefault("cache.path", "")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.timeout", 60*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "igstrand.log")
	v.SetDefault("log.json", false)
}

func loadSettings(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("parsing config: %w", err)
	}
	if s.Numbering.Scheme == "" {
		return s, fmt.Errorf("numbering.scheme must not be empty")
	}
	return s, nil
}

func loadLogSettings(v *viper.Viper) LogSettings {
	return LogSettings{
		Level: v.GetString("log.level"),
		File:  v.GetString("log.file"),
		JSON:  v.GetBool("log.json"),
	}
}

// newLogger writes to stderr and, when ls.File is set, to that file too.
func newLogger(ls LogSettings) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(ls.Level)
	if err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	if !ls.JSON {
		cfg = zap.NewDevelopmentConfig()
		cfg.Development = false
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	cfg.Level = level
	cfg.Sampling = nil
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if ls.File != "" {
		if dir := filepath.Dir(ls.File); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("creating log directory: %w", err)
			}
		}
		cfg.OutputPaths = append(cfg.OutputPaths, ls.File)
	}
	return cfg.Build()
}

func (s Settings) newProvider() (provider.Provider, error) {
	switch s.Provider.Kind {
	case "", "command":
		cmd := strings.Fields(s.Provider.Command)
		if len(cmd) == 0 {
			return nil, fmt.Errorf("provider.command must not be empty")
		}
		return provider.NewCommandProvider(cmd, s.Provider.Workdir), nil
	case "http":
		if s.Provider.URL == "" {
			return nil, fmt.Errorf("provider.url must be set for the http provider")
		}
		return provider.NewHTTPProvider(s.Provider.URL, s.Provider.Timeout), nil
	}
	return nil, fmt.Errorf("unknown provider.kind %q (want command or http)", s.Provider.Kind)
}

func (s Settings) newFileCache(logger *zap.Logger) (*provider.FileCache, error) {
	p, err := s.newProvider()
	if err != nil {
		return nil, err
	}
	fc := provider.NewFileCache(s.Paths.Numbering, s.Numbering.Scheme, p)
	if s.Provider.Timeout > 0 {
		fc.Timeout = s.Provider.Timeout
	}
	fc.Retries = s.Provider.Retries
	if s.Provider.MinBytes > 0 {
		fc.MinBytes = s.Provider.MinBytes
	}
	fc.SetLogger(logger)
	return fc, nil
}

func (s Settings) newCatalog() (catalog.Table, error) {
	table := catalog.Default()
	if s.Catalog.Path == "" {
		return table, nil
	}
	extra, err := catalog.LoadTable(s.Catalog.Path)
	if err != nil {
		return nil, err
	}
	return table.Merge(extra), nil
}

func (s Settings) newResolver(logger *zap.Logger) (*igdomain.Resolver, error) {
	table, err := s.newCatalog()
	if err != nil {
		return nil, err
	}
	policy, err := igdomain.ParseDuplicatePolicy(s.Resolve.Duplicates)
	if err != nil {
		return nil, fmt.Errorf("resolve.duplicates: %w", err)
	}
	res := igdomain.NewResolver(table)
	res.SetDuplicatePolicy(policy)
	res.SetLogger(logger)
	return res, nil
}

// openCache opens the descriptor cache, or returns nil when cache.path is empty.
func (s Settings) openCache() (*duckdb.Store, error) {
	if s.Cache.Path == "" {
		return nil, nil
	}
	store, err := duckdb.Open(s.Cache.Path)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	return store, nil
}

// newRunner wires the provider, catalog and optional cache into a runner.
// The returned close function releases the cache.
func (s Settings) newRunner(logger *zap.Logger) (*pipeline.Runner, func() error, error) {
	files, err := s.newFileCache(logger)
	if err != nil {
		return nil, nil, err
	}
	res, err := s.newResolver(logger)
	if err != nil {
		return nil, nil, err
	}

	r := pipeline.NewRunner(files, res)
	r.SetLogger(logger)
	r.SetWorkers(s.Resolve.Workers)

	closeFn := func() error { return nil }
	store, err := s.openCache()
	if err != nil {
		return nil, nil, err
	}
	if store != nil {
		r.SetCache(store)
		closeFn = store.Close
		logger.Debug("descriptor cache enabled", zap.String("path", s.Cache.Path))
	}
	return r, closeFn, nil
}

func (s Settings) templateSet() *output.TemplateSet {
	return output.NewTemplateSet(s.Paths.Templates, s.Numbering.Scheme, s.Templates.Sizes)
}
