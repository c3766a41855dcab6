package sequence

import (
	"errors"
	"fmt"
	"strings"
)

// MaxLength is the longest subsequence that packs into a 64-bit key at two bits per base.
const MaxLength = 31

var (
	ErrInvalidLength = errors.New("invalid subsequence length")
	ErrInvalidBase   = errors.New("invalid nucleotide")
)

var bases = [4]byte{'a', 'c', 'g', 't'}

// Codec packs DNA subsequences of a fixed length k into keys: a=00 c=01 g=10 t=11, first base
// in the most significant pair.
type Codec struct {
	k int
}

func NewCodec(k int) (*Codec, error) {
	if k < 1 || k > MaxLength {
		return nil, fmt.Errorf("%w: %d, must be between 1 and %d", ErrInvalidLength, k, MaxLength)
	}
	return &Codec{k: k}, nil
}

func (c *Codec) Length() int { return c.k }

func baseValue(b byte) (uint64, bool) {
	switch b {
	case 'a', 'A':
		return 0, true
	case 'c', 'C':
		return 1, true
	case 'g', 'G':
		return 2, true
	case 't', 'T':
		return 3, true
	}
	return 0, false
}

// Encode converts a subsequence of exactly k bases.
func (c *Codec) Encode(seq string) (uint64, error) {
	if len(seq) != c.k {
		return 0, fmt.Errorf("%w: %q has length %d, want %d", ErrInvalidLength, seq, len(seq), c.k)
	}
	var key uint64
	for i := 0; i < len(seq); i++ {
		v, ok := baseValue(seq[i])
		if !ok {
			return 0, fmt.Errorf("%w: %q in %q", ErrInvalidBase, seq[i], seq)
		}
		key = key<<2 | v
	}
	return key, nil
}

// Decode renders key back into exactly k lowercase bases.
func (c *Codec) Decode(key uint64) string {
	var sb strings.Builder
	sb.Grow(c.k)
	for i := c.k - 1; i >= 0; i-- {
		sb.WriteByte(bases[(key>>(2*uint(i)))&0b11])
	}
	return sb.String()
}
