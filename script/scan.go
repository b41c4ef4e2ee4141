// Package script parses and executes strbuf op scripts: small,
// line-oriented command sequences that drive a strbuf.String
// (copy/append/prepend/cut/printf/reserve/fit/clear plus print and state
// for output). It exists so the whole public strbuf surface can be
// exercised end to end from text, both by the CLI and by tests.
package script

import (
	"fmt"
	"strconv"
)

type tokenKind int

const (
	tokEOF  tokenKind = iota
	tokTerm           // statement terminator: newline or ';'
	tokWord           // bare op name
	tokString         // quoted string argument, unescaped
	tokInt            // decimal integer argument
)

type token struct {
	kind tokenKind
	text string // word text or unescaped string content
	num  int    // value for tokInt
	line int    // 1-based line the token starts on
}

// scanner iterates byte-by-byte over script source, tracking quoted string
// boundaries and escape sequences so every argument reader does not have to
// re-implement that logic. Double and single quotes are equivalent.
type scanner struct {
	src  string
	pos  int
	line int
}

func newScanner(src string) *scanner {
	return &scanner{src: src, line: 1}
}

// next returns the next token. tokEOF is returned forever once the input
// is exhausted.
func (s *scanner) next() (token, error) {
	s.skipBlank()
	if s.pos >= len(s.src) {
		return token{kind: tokEOF, line: s.line}, nil
	}

	ch := s.src[s.pos]
	switch {
	case ch == '\n':
		t := token{kind: tokTerm, line: s.line}
		s.pos++
		s.line++
		return t, nil
	case ch == ';':
		s.pos++
		return token{kind: tokTerm, line: s.line}, nil
	case ch == '"' || ch == '\'':
		return s.scanString(ch)
	case ch == '-' || (ch >= '0' && ch <= '9'):
		return s.scanInt()
	default:
		return s.scanWord()
	}
}

// skipBlank advances past spaces, tabs, carriage returns and comments.
// Comments run from '#' to end of line; the newline itself is kept so it
// still terminates the statement.
func (s *scanner) skipBlank() {
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case ' ', '\t', '\r':
			s.pos++
		case '#':
			for s.pos < len(s.src) && s.src[s.pos] != '\n' {
				s.pos++
			}
		default:
			return
		}
	}
}

// scanString consumes a quoted argument, processing backslash escapes.
// The opening quote has already been seen at s.pos.
func (s *scanner) scanString(quote byte) (token, error) {
	start := s.line
	s.pos++ // opening quote
	var out []byte
	for s.pos < len(s.src) {
		ch := s.src[s.pos]
		switch ch {
		case quote:
			s.pos++
			return token{kind: tokString, text: string(out), line: start}, nil
		case '\\':
			s.pos++
			if s.pos >= len(s.src) {
				return token{}, fmt.Errorf("line %d: unterminated string", start)
			}
			esc := s.src[s.pos]
			switch esc {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case '0':
				out = append(out, 0)
			case '\\', '"', '\'':
				out = append(out, esc)
			default:
				return token{}, fmt.Errorf("line %d: unknown escape \\%c", s.line, esc)
			}
			s.pos++
		case '\n':
			return token{}, fmt.Errorf("line %d: unterminated string", start)
		default:
			out = append(out, ch)
			s.pos++
		}
	}
	return token{}, fmt.Errorf("line %d: unterminated string", start)
}

func (s *scanner) scanInt() (token, error) {
	start := s.pos
	if s.src[s.pos] == '-' {
		s.pos++
	}
	for s.pos < len(s.src) && s.src[s.pos] >= '0' && s.src[s.pos] <= '9' {
		s.pos++
	}
	text := s.src[start:s.pos]
	n, err := strconv.Atoi(text)
	if err != nil {
		return token{}, fmt.Errorf("line %d: bad integer %q", s.line, text)
	}
	return token{kind: tokInt, num: n, line: s.line}, nil
}

func (s *scanner) scanWord() (token, error) {
	start := s.pos
	for s.pos < len(s.src) && !wordBreak(s.src[s.pos]) {
		s.pos++
	}
	return token{kind: tokWord, text: s.src[start:s.pos], line: s.line}, nil
}

func wordBreak(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n', ';', '#', '"', '\'':
		return true
	}
	return false
}
