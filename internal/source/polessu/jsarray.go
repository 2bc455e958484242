package polessu

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
)

var errNotStringArray = errors.New("not a string array literal")

// parseStringArray decodes a JavaScript array literal made only of quoted
// strings, e.g. ['221', "222"]. Anything else is rejected; the input is
// never evaluated.
func parseStringArray(src string) ([]string, error) {
	s := &literalScanner{src: src}

	s.skipSpace()
	if !s.consume('[') {
		return nil, fmt.Errorf("%w: missing '['", errNotStringArray)
	}

	items := []string{}
	for {
		s.skipSpace()
		if s.consume(']') {
			break
		}

		item, err := s.quoted()
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		s.skipSpace()
		if s.consume(',') {
			continue
		}
		if s.consume(']') {
			break
		}
		return nil, fmt.Errorf("%w: unexpected %q at %d", errNotStringArray, s.peek(), s.pos)
	}

	s.skipSpace()
	if !s.done() {
		return nil, fmt.Errorf("%w: trailing input at %d", errNotStringArray, s.pos)
	}
	return items, nil
}

type literalScanner struct {
	src string
	pos int
}

func (s *literalScanner) done() bool { return s.pos >= len(s.src) }

func (s *literalScanner) peek() byte {
	if s.done() {
		return 0
	}
	return s.src[s.pos]
}

func (s *literalScanner) consume(b byte) bool {
	if s.peek() == b && !s.done() {
		s.pos++
		return true
	}
	return false
}

func (s *literalScanner) skipSpace() {
	for !s.done() {
		switch s.src[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}

func (s *literalScanner) quoted() (string, error) {
	quote := s.peek()
	if quote != '\'' && quote != '"' {
		return "", fmt.Errorf("%w: expected string at %d", errNotStringArray, s.pos)
	}
	s.pos++

	var sb strings.Builder
	for {
		if s.done() {
			return "", fmt.Errorf("%w: unterminated string", errNotStringArray)
		}
		c := s.src[s.pos]
		s.pos++

		switch c {
		case quote:
			return sb.String(), nil
		case '\n':
			return "", fmt.Errorf("%w: newline in string", errNotStringArray)
		case '\\':
			if err := s.escape(&sb); err != nil {
				return "", err
			}
		default:
			sb.WriteByte(c)
		}
	}
}

func (s *literalScanner) escape(sb *strings.Builder) error {
	if s.done() {
		return fmt.Errorf("%w: dangling escape", errNotStringArray)
	}
	c := s.src[s.pos]
	s.pos++

	switch c {
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'u':
		r, err := s.hex4()
		if err != nil {
			return err
		}
		if utf16.IsSurrogate(r) && strings.HasPrefix(s.src[s.pos:], `\u`) {
			s.pos += 2
			r2, err := s.hex4()
			if err != nil {
				return err
			}
			r = utf16.DecodeRune(r, r2)
		}
		sb.WriteRune(r)
	default:
		// \' \" \\ \/ and any other escaped character stand for themselves.
		sb.WriteByte(c)
	}
	return nil
}

func (s *literalScanner) hex4() (rune, error) {
	if s.pos+4 > len(s.src) {
		return 0, fmt.Errorf("%w: short unicode escape", errNotStringArray)
	}
	v, err := strconv.ParseUint(s.src[s.pos:s.pos+4], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: bad unicode escape", errNotStringArray)
	}
	s.pos += 4
	return rune(v), nil
}
