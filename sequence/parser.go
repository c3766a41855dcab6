package sequence

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// ErrNoSequence is returned by Parser.Next when the input held no ORIGIN section at all.
var ErrNoSequence = errors.New("no DNA sequence present")

// Parser reads a GenBank flat file and yields the key of every length-k window of each ORIGIN
// section. Windows containing anything but a, c, g or t are skipped and windows never span two
// sections.
type Parser struct {
	codec    *Codec
	scanner  *bufio.Scanner
	section  []byte
	pos      int
	sections int
	done     bool
}

func NewParser(r io.Reader, codec *Codec) *Parser {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	return &Parser{codec: codec, scanner: scanner}
}

// Sections reports how many ORIGIN sections have been consumed so far.
func (p *Parser) Sections() int { return p.sections }

// Next returns the next key, io.EOF at the end of input, or ErrNoSequence if the input
// contained no ORIGIN section.
func (p *Parser) Next() (uint64, error) {
	k := p.codec.Length()
	for {
		for p.pos+k <= len(p.section) {
			window := p.section[p.pos : p.pos+k]
			p.pos++
			key, err := p.codec.Encode(string(window))
			if errors.Is(err, ErrInvalidBase) {
				continue
			}
			if err != nil {
				return 0, err
			}
			return key, nil
		}

		if p.done {
			if p.sections == 0 {
				return 0, ErrNoSequence
			}
			return 0, io.EOF
		}
		if err := p.readSection(); err != nil {
			return 0, err
		}
	}
}

// readSection loads the next ORIGIN section into p.section, or marks the parser done.
func (p *Parser) readSection() error {
	p.section = p.section[:0]
	p.pos = 0

	found := false
	for p.scanner.Scan() {
		if strings.TrimSpace(p.scanner.Text()) == "ORIGIN" {
			found = true
			break
		}
	}
	if !found {
		p.done = true
		if err := p.scanner.Err(); err != nil {
			return fmt.Errorf("failed to scan input: %w", err)
		}
		return nil
	}

	for p.scanner.Scan() {
		line := p.scanner.Text()
		if strings.TrimSpace(line) == "//" {
			break
		}
		for _, r := range line {
			switch {
			case unicode.IsDigit(r) || unicode.IsSpace(r):
				continue
			case r > unicode.MaxASCII:
				r = 'n'
			}
			p.section = append(p.section, byte(unicode.ToLower(r)))
		}
	}
	if err := p.scanner.Err(); err != nil {
		return fmt.Errorf("failed to scan input: %w", err)
	}
	p.sections++
	return nil
}
