package alignment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inodb/igalign/internal/igdomain"
)

func desc(key string, labels ...string) *igdomain.Descriptor {
	d := &igdomain.Descriptor{Key: key, Found: true, Residues: map[string]igdomain.Residue{}}
	for i, l := range labels {
		d.Labels = append(d.Labels, l)
		d.Residues[l] = igdomain.Residue{Letter: string(rune('A' + i%26))}
	}
	return d
}

func TestUnifyKeys_CollapsesSubLetters(t *testing.T) {
	a := desc("1ABC_A_1", "A1250", "A'1248a")
	b := desc("2XYZ_B_1", "A'1248b", "B2550")

	keys := UnifyKeys([]*igdomain.Descriptor{a, nil, b})
	assert.Equal(t, []string{"A'1248", "A1250", "B2550"}, keys)
}

func TestUnifyKeys_SortedByOrdinal(t *testing.T) {
	d := desc("1ABC_A_1", "G7050", "C''4550", "A1250", "C'4450", "D5550", "C3550", "B2550")

	keys := UnifyKeys([]*igdomain.Descriptor{d})
	assert.Equal(t, []string{"A1250", "B2550", "C3550", "C'4450", "C''4550", "D5550", "G7050"}, keys)
}

func TestUnifyKeys_InputOrderIndependent(t *testing.T) {
	a := desc("1", "A1250", "B2550")
	b := desc("2", "C3550", "A1251")

	assert.Equal(t,
		UnifyKeys([]*igdomain.Descriptor{a, b}),
		UnifyKeys([]*igdomain.Descriptor{b, a}))
}

func TestUnifyKeys_Empty(t *testing.T) {
	assert.Empty(t, UnifyKeys(nil))
	assert.Empty(t, UnifyKeys([]*igdomain.Descriptor{igdomain.Empty(igdomain.Triple{StructureID: "1CD8", Chain: "A", Domain: "1"})}))
}
