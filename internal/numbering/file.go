package numbering

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/tailscale/hujson"
	"go.uber.org/zap"

	"github.com/inodb/igalign/internal/igerr"
)

// FileName returns the cache file name for a structure's numbering file.
func FileName(structureID, scheme string) string {
	return fmt.Sprintf("%s_refnum_%s.json", strings.ToUpper(structureID), strings.ToLower(scheme))
}

// File is a decoded numbering file: a list of objects keyed by structure id.
type File struct {
	Entries []map[string]StructureEntry
}

// StructureEntry holds the Ig assignment of one structure.
type StructureEntry struct {
	IgDomain Flag                      `json:"Ig domain"`
	Igs      []map[string]ChainDomains `json:"igs"`
}

// ChainDomains maps composite domain keys ("A,0_1:110") to their numbering.
type ChainDomains map[string]DomainEntry

// DomainEntry is the numbering of one domain against its best reference.
type DomainEntry struct {
	Data       []ResidueEntry `json:"data"`
	RefPDBName string         `json:"refpdbname"`
	Score      Metric         `json:"score"`
	SeqID      Metric         `json:"seqid"`
	NResAlign  Metric         `json:"nresAlign"`
}

// ResidueEntry is a single {"7CM4_A_350_V": "A'1840"} pair.
type ResidueEntry struct {
	Identity string
	Label    string
}

// UnmarshalJSON decodes a one-key object.
func (r *ResidueEntry) UnmarshalJSON(b []byte) error {
	var m map[string]string
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	if len(m) != 1 {
		return fmt.Errorf("residue entry must have exactly one key, got %d", len(m))
	}
	for k, v := range m {
		r.Identity, r.Label = k, v
	}
	return nil
}

// MarshalJSON encodes the entry back into its one-key object form.
func (r ResidueEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{r.Identity: r.Label})
}

// Metric keeps the literal text of a score that may be encoded as a
// number or a string.
type Metric string

// UnmarshalJSON accepts numbers, strings and null.
func (m *Metric) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*m = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*m = Metric(s)
	default:
		*m = Metric(b)
	}
	return nil
}

// Flag is a 0/1 or boolean marker.
type Flag bool

// UnmarshalJSON accepts 0/1, booleans and their string forms.
func (f *Flag) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	switch s {
	case "true":
		*f = true
	case "false", "null", "":
		*f = false
	default:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid flag %q", s)
		}
		*f = n != 0
	}
	return nil
}

// Chain returns the domains numbered for structureID chain, searching the
// Ig entries of the structure in file order.
func (f *File) Chain(structureID, chain string) (ChainDomains, bool) {
	if f == nil {
		return nil, false
	}
	id := strings.ToUpper(structureID)
	chainKey := id + "_" + chain
	for _, entry := range f.Entries {
		se, ok := entry[id]
		if !ok || !bool(se.IgDomain) {
			continue
		}
		for _, ig := range se.Igs {
			if cd, ok := ig[chainKey]; ok {
				return cd, true
			}
		}
	}
	return nil, false
}

// Chains lists the chains numbered for structureID, sorted and without
// repeats.
func (f *File) Chains(structureID string) []string {
	if f == nil {
		return nil
	}
	id := strings.ToUpper(structureID)
	var chains []string
	for _, entry := range f.Entries {
		se, ok := entry[id]
		if !ok || !bool(se.IgDomain) {
			continue
		}
		for _, ig := range se.Igs {
			for key := range ig {
				if chain, ok := strings.CutPrefix(key, id+"_"); ok && !slices.Contains(chains, chain) {
					chains = append(chains, chain)
				}
			}
		}
	}
	slices.Sort(chains)
	return chains
}

// DomainKey is a parsed composite domain key such as "A,0_1:110".
type DomainKey struct {
	Chain       string
	Order       int    // 1-based order reported upstream
	StructRange string // structural residue range "start:end"
}

// ParseDomainKey parses "CHAIN,INDEX_START:END[:...]".
func ParseDomainKey(key string) (DomainKey, error) {
	chain, info, ok := strings.Cut(key, ",")
	if !ok {
		return DomainKey{}, fmt.Errorf("malformed domain key %q", key)
	}
	parts := strings.Split(info, "_")
	if len(parts) < 2 {
		return DomainKey{}, fmt.Errorf("malformed domain key %q", key)
	}
	order, err := strconv.Atoi(parts[0])
	if err != nil {
		return DomainKey{}, fmt.Errorf("malformed domain index in %q: %w", key, err)
	}
	bounds := strings.Split(parts[1], ":")
	if len(bounds) > 2 {
		bounds = bounds[:2]
	}
	return DomainKey{
		Chain:       chain,
		Order:       order + 1,
		StructRange: strings.Join(bounds, ":"),
	}, nil
}

// Loader reads numbering files from disk.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a Loader that logs nowhere.
func NewLoader() *Loader {
	return &Loader{logger: zap.NewNop()}
}

// SetLogger sets the logger for missing and empty file messages.
func (l *Loader) SetLogger(logger *zap.Logger) {
	l.logger = logger
}

// Load reads and decodes a numbering file. A missing or empty file yields
// (nil, nil). A file that cannot be decoded even after repair yields a
// MalformedNumberingFile error.
func (l *Loader) Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.logger.Warn("numbering file not found", zap.String("path", path))
			return nil, nil
		}
		return nil, fmt.Errorf("read numbering file: %w", err)
	}

	f, err := Decode(data)
	if err != nil {
		return nil, igerr.New(igerr.MalformedNumberingFile, path, err)
	}
	if f == nil {
		l.logger.Warn("numbering file is empty", zap.String("path", path))
	}
	return f, nil
}

// Decode parses numbering file content. The producer sometimes leaves a
// trailing comma and omits the closing bracket; both are repaired.
func Decode(data []byte) (*File, error) {
	data = bytes.TrimRight(data, " \t\r\n")
	if len(data) == 0 {
		return nil, nil
	}
	if !bytes.HasSuffix(data, []byte("]")) {
		data = append(data, ']')
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("repair numbering json: %w", err)
	}

	var entries []map[string]StructureEntry
	if err := json.Unmarshal(std, &entries); err != nil {
		return nil, fmt.Errorf("decode numbering json: %w", err)
	}
	return &File{Entries: entries}, nil
}
