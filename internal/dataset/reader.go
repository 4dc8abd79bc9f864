package dataset

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// sanitizingReader drops a leading UTF-8 BOM and replaces every invalid
// UTF-8 byte with '?', so spreadsheet exports from Windows tools parse
// the same as clean UTF-8 files.
type sanitizingReader struct {
	br         *bufio.Reader
	bomChecked bool
}

func newSanitizingReader(r io.Reader) io.Reader {
	return &sanitizingReader{br: bufio.NewReader(r)}
}

func (s *sanitizingReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	if !s.bomChecked {
		s.bomChecked = true
		if head, err := s.br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
			_, _ = s.br.Discard(len(utf8BOM))
		}
	}

	n := 0
	for n < len(p) {
		r, size, err := s.br.ReadRune()
		if err != nil {
			return n, err
		}
		if r == utf8.RuneError && size == 1 {
			p[n] = '?'
			n++
			continue
		}
		if n+size > len(p) {
			if n == 0 {
				// p cannot hold a single multi-byte rune
				p[0] = '?'
				return 1, nil
			}
			_ = s.br.UnreadRune()
			break
		}
		n += utf8.EncodeRune(p[n:], r)
	}
	return n, nil
}
