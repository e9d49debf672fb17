package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProperties(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, Info{}, Properties(""))
	})

	t.Run("single residue has no peptide bond", func(t *testing.T) {
		info := Properties("W")
		assert.Equal(t, 1, info.Length)
		assert.Equal(t, 0.2, info.MolecularWeightKDa)
	})

	t.Run("dipeptide loses one water", func(t *testing.T) {
		// 75.07 + 75.07 - 18.015 = 132.125 Da
		info := Properties("GG")
		assert.Equal(t, 2, info.Length)
		assert.Equal(t, 0.1, info.MolecularWeightKDa)
		assert.Equal(t, 7.0, info.TheoreticalPI)
	})

	t.Run("non-standard letters ignored", func(t *testing.T) {
		assert.Equal(t, Properties("GGKK"), Properties("g-g x k*k"))
	})

	t.Run("basic residues raise pI", func(t *testing.T) {
		assert.Equal(t, 8.0, Properties("KRAAA").TheoreticalPI)
	})

	t.Run("acidic residues lower pI", func(t *testing.T) {
		assert.Equal(t, 6.0, Properties("DEAAA").TheoreticalPI)
	})

	t.Run("pI clamped", func(t *testing.T) {
		assert.Equal(t, 12.0, Properties("KKKKKKKKKKKKKKKKKKKK").TheoreticalPI)
		assert.Equal(t, 3.0, Properties("DDDDDDDDDDDDDDDDDDDD").TheoreticalPI)
	})

	t.Run("larger protein", func(t *testing.T) {
		// 100 alanines: 100*89.09 - 99*18.015 = 7125.515 Da
		seq := make([]byte, 100)
		for i := range seq {
			seq[i] = 'A'
		}
		info := Properties(string(seq))
		assert.Equal(t, 100, info.Length)
		assert.Equal(t, 7.1, info.MolecularWeightKDa)
	})
}

func TestStandardOnly(t *testing.T) {
	assert.Equal(t, "ACDW", StandardOnly("a c-d*XwB"))
}
