package igdomain

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/igalign/internal/catalog"
	"github.com/inodb/igalign/internal/igerr"
	"github.com/inodb/igalign/internal/numbering"
)

// Resolver turns numbering file chains into ordered domain descriptors.
type Resolver struct {
	catalog catalog.Catalog
	policy  DuplicatePolicy
	logger  *zap.Logger
}

// NewResolver creates a resolver that classifies domains with c.
func NewResolver(c catalog.Catalog) *Resolver {
	return &Resolver{
		catalog: c,
		logger:  zap.NewNop(),
	}
}

// SetLogger sets the logger for parse diagnostics.
func (r *Resolver) SetLogger(l *zap.Logger) {
	r.logger = l
}

// SetDuplicatePolicy configures how duplicate numbering labels are handled.
func (r *Resolver) SetDuplicatePolicy(p DuplicatePolicy) {
	r.policy = p
}

// Fingerprint identifies the catalog and duplicate policy in use, so that
// descriptors cached under one configuration are not served under another.
// A catalog without its own Fingerprint method is identified by its type.
func (r *Resolver) Fingerprint() string {
	ref := fmt.Sprintf("%T", r.catalog)
	if fc, ok := r.catalog.(interface{ Fingerprint() string }); ok {
		ref = fc.Fingerprint()
	}
	return fmt.Sprintf("%s/%s", r.policy, ref)
}

type chainDomain struct {
	upstreamKey string
	desc        *Descriptor
}

// Chain resolves every domain numbered for one chain. The upstream domain
// index is not reliable, so domains are ordered by their Ig residue range
// and re-keyed STRUCTURE_CHAIN_POSITION from 1. A domain whose residues
// fail to parse, or whose reference is not catalogued, keeps its position
// and carries the failure in Err; the other domains are unaffected.
func (r *Resolver) Chain(cd numbering.ChainDomains, structureID, chain string) ([]*Descriptor, error) {
	structureID = strings.ToUpper(structureID)

	domains := make([]chainDomain, 0, len(cd))
	for key, entry := range cd {
		dk, err := numbering.ParseDomainKey(key)
		if err != nil {
			return nil, fmt.Errorf("chain %s_%s: %w", structureID, chain, err)
		}

		logger := r.logger.With(zap.String("chain", structureID+"_"+chain), zap.String("domain_key", key))
		parsed, parseErr := ParseResidues(entry.Data, r.policy, logger)

		d := &Descriptor{
			StructureID:   structureID,
			Chain:         chain,
			UpstreamOrder: dk.Order,
			RefName:       entry.RefPDBName,
			StructRange:   dk.StructRange,
			IgRange:       parsed.IgRange,
			Score:         string(entry.Score),
			SeqID:         string(entry.SeqID),
			NResAlign:     string(entry.NResAlign),
			Undefined:     parsed.Undefined,
			Residues:      parsed.Residues,
			Labels:        parsed.Labels,
			Found:         parseErr == nil,
		}
		if parseErr != nil {
			d.err = fmt.Errorf("chain %s_%s domain %s: %w", structureID, chain, key, parseErr)
		} else {
			d.FoldType, d.err = r.catalog.Resolve(entry.RefPDBName)
		}
		domains = append(domains, chainDomain{upstreamKey: key, desc: d})
	}

	slices.SortStableFunc(domains, func(a, b chainDomain) int {
		if c := numbering.CompareRanges(a.desc.IgRange, b.desc.IgRange); c != 0 {
			return c
		}
		return strings.Compare(a.upstreamKey, b.upstreamKey)
	})

	out := make([]*Descriptor, len(domains))
	for i, cdom := range domains {
		cdom.desc.Position = i + 1
		cdom.desc.Key = fmt.Sprintf("%s_%s_%d", structureID, chain, i+1)
		out[i] = cdom.desc
	}
	return out, nil
}

// Lookup returns the descriptor for triple t from numbering file f.
//
// A chain or domain absent from the file yields a DomainNotFound error. A
// domain that failed to resolve yields the Empty descriptor together with
// its error, such as UnknownReferenceStructure or DuplicateNumberingKey.
func (r *Resolver) Lookup(f *numbering.File, t Triple) (*Descriptor, error) {
	cd, ok := f.Chain(t.StructureID, t.Chain)
	if !ok {
		return nil, igerr.New(igerr.DomainNotFound, t.Key(), nil)
	}

	descs, err := r.Chain(cd, t.StructureID, t.Chain)
	if err != nil {
		return nil, err
	}

	want := strings.ToUpper(t.StructureID) + "_" + t.Chain + "_" + t.Domain
	for _, d := range descs {
		if d.Key != want {
			continue
		}
		if d.err != nil {
			return Empty(t), fmt.Errorf("domain %s: %w", d.Key, d.err)
		}
		return d, nil
	}
	return nil, igerr.New(igerr.DomainNotFound, t.Key(), nil)
}
