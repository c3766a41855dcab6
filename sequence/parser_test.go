package sequence

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGBK = `LOCUS       TEST1       13 bp    DNA     linear   SYN 01-JAN-2000
DEFINITION  two sections.
FEATURES             Location/Qualifiers
ORIGIN
        1 acgtn acgt
       11 ac
//
LOCUS       TEST2        4 bp    DNA     linear   SYN 01-JAN-2000
ORIGIN
        1 GGTT
//
`

func collect(t *testing.T, p *Parser) []uint64 {
	t.Helper()
	var keys []uint64
	for {
		key, err := p.Next()
		if errors.Is(err, io.EOF) {
			return keys
		}
		require.NoError(t, err)
		keys = append(keys, key)
	}
}

func TestParserWindows(t *testing.T) {
	c, err := NewCodec(3)
	require.NoError(t, err)
	p := NewParser(strings.NewReader(sampleGBK), c)

	keys := collect(t, p)
	var seqs []string
	for _, k := range keys {
		seqs = append(seqs, c.Decode(k))
	}

	// windows touching n are dropped and none spans the // boundary
	assert.Equal(t, []string{"acg", "cgt", "acg", "cgt", "gta", "tac", "ggt", "gtt"}, seqs)
	assert.Equal(t, 2, p.Sections())

	_, err = p.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestParserWithoutOrigin(t *testing.T) {
	c, err := NewCodec(2)
	require.NoError(t, err)
	p := NewParser(strings.NewReader("LOCUS nothing here\n//\n"), c)

	_, err = p.Next()
	require.ErrorIs(t, err, ErrNoSequence)
}

func TestParserShortSection(t *testing.T) {
	c, err := NewCodec(5)
	require.NoError(t, err)
	p := NewParser(strings.NewReader("ORIGIN\n  1 acg\n//\n"), c)

	_, err = p.Next()
	require.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 1, p.Sections())
}

func TestParserIgnoresHeaderText(t *testing.T) {
	c, err := NewCodec(2)
	require.NoError(t, err)

	var sb strings.Builder
	for i := 0; i < 20; i++ {
		sb.WriteString("LOCUS       " + faker.Word() + "\n")
		sb.WriteString("DEFINITION  " + faker.Word() + " " + faker.Word() + " cat gattaca\n")
		sb.WriteString("ORIGIN\n        1 ga\n//\n")
	}

	p := NewParser(strings.NewReader(sb.String()), c)
	keys := collect(t, p)
	want, err := c.Encode("ga")
	require.NoError(t, err)
	require.Len(t, keys, 20)
	for _, k := range keys {
		assert.Equal(t, want, k)
	}
	assert.Equal(t, 20, p.Sections())
}
