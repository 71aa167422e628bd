package trim_test

import (
	"testing"

	"github.com/grailbio/msatrim/trim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrimRow(t *testing.T) {
	tests := []struct {
		name      string
		seq, cons string
		want      string
		err       error
	}{
		{"scrambled prefix", "TGCTACGTACGT", "ACGTACGTACGT", "---TACGTACGT", nil},
		{"ragged suffix", "ACGTACGTAGGA", "ACGTACGTACGT", "ACGTACGTA---", nil},
		{"edge gaps ignored", "--GTACGTAC--", "ACGTACGTACGT", "--GTACGTAC--", nil},
		{"interior gap kept", "ACGTA-GTACGT", "ACGTACGTACGT", "ACGTA-GTACGT", nil},
		{"case insensitive", "acgtacgtacgt", "ACGTACGTACGT", "acgtacgtacgt", nil},
		{"consensus gaps match", "--A-----C", "-TT-----G", "---------", trim.ErrRowFullyGapped},
		{"gapped core", "A-----C", "T-----G", "", trim.ErrRowFullyGapped},
		{"no run", "ACGTAC", "ACGTTC", "", trim.ErrNoConservedRun},
		{"too short", "ACGT", "ACGT", "", trim.ErrNoConservedRun},
		{"all gaps", "-----", "ACGTA", "", trim.ErrNoConservedRun},
	}
	for _, test := range tests {
		got, err := trim.TrimRow([]byte(test.seq), []byte(test.cons), trim.DefaultRowWindow)
		if test.err != nil {
			assert.Equal(t, test.err, err, test.name)
			assert.Nil(t, got, test.name)
			continue
		}
		require.NoError(t, err, test.name)
		assert.Equal(t, test.want, string(got), test.name)
		assert.Equal(t, len(test.seq), len(got), test.name)
	}

	_, err := trim.TrimRow([]byte("ACGTA"), []byte("ACGT"), trim.DefaultRowWindow)
	assert.Error(t, err)
}

func TestTrimRowDoesNotModifyInput(t *testing.T) {
	seq := []byte("TGCTACGTACGT")
	_, err := trim.TrimRow(seq, []byte("ACGTACGTACGT"), trim.DefaultRowWindow)
	require.NoError(t, err)
	assert.Equal(t, "TGCTACGTACGT", string(seq))
}

func TestTrimRows(t *testing.T) {
	a := newAlignment(t,
		"TGCTACGTACGT",
		"ACGTACGTACGT",
		"ACGTACGTACGT",
		"ACGTACGTACGT")
	cons := trim.Consensus(a, trim.DefaultCallThreshold)
	assert.Equal(t, "ACGTACGTACGT", string(cons))

	b, err := trim.TrimRows(a, cons, trim.DefaultRowWindow)
	require.NoError(t, err)
	assert.Equal(t, a.Names(), b.Names())
	assert.Equal(t, "---TACGTACGT", string(b.Seq(0)))
	for i := 1; i < 4; i++ {
		assert.Equal(t, string(a.Seq(i)), string(b.Seq(i)))
	}
	assert.Equal(t, "TGCTACGTACGT", string(a.Seq(0)))

	bad := newAlignment(t, "ACGTACGTACGT", "TGCATGCATGCA")
	_, err = trim.TrimRows(bad, []byte("ACGTACGTACGT"), trim.DefaultRowWindow)
	require.Error(t, err)
	rerr, ok := err.(*trim.RowError)
	require.True(t, ok)
	assert.Equal(t, "taxon1", rerr.Row)
	assert.Equal(t, trim.ErrNoConservedRun, rerr.Err)
	assert.Equal(t, trim.ErrNoConservedRun, rerr.Unwrap())
	assert.Contains(t, rerr.Error(), "taxon1")
}
