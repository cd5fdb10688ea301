// Package imports rewrites references to sibling workspace crates inside
// generated Rust sources.
package imports

import (
	"unicode"
	"unicode/utf8"
)

// TokenKind classifies a scanned token.
type TokenKind int

const (
	// TokenIdent is an identifier or keyword.
	TokenIdent TokenKind = iota

	// TokenPathSep is the path separator "::".
	TokenPathSep

	// TokenPunct is any other single punctuation character.
	TokenPunct
)

// Token is one significant token of a Rust source file. Comments, string
// and character literals, lifetimes and numbers produce no tokens.
type Token struct {
	Kind  TokenKind
	Text  string
	Start int
	End   int
	Line  int
}

type scanner struct {
	src    []byte
	pos    int
	line   int
	tokens []Token
}

// Scan tokenizes Rust source. It never fails: unterminated literals and
// comments run to the end of the input.
func Scan(src []byte) []Token {
	s := &scanner{src: src, line: 1}
	for s.pos < len(s.src) {
		s.next()
	}
	return s.tokens
}

func (s *scanner) peek(offset int) byte {
	if s.pos+offset < len(s.src) {
		return s.src[s.pos+offset]
	}
	return 0
}

func (s *scanner) next() {
	c := s.src[s.pos]
	switch {
	case c == '\n':
		s.line++
		s.pos++
	case c == ' ' || c == '\t' || c == '\r':
		s.pos++
	case c == '/' && s.peek(1) == '/':
		s.skipLineComment()
	case c == '/' && s.peek(1) == '*':
		s.skipBlockComment()
	case c == '"':
		s.pos++
		s.skipString()
	case c == '\'':
		s.skipCharOrLifetime()
	case c == ':' && s.peek(1) == ':':
		s.emit(TokenPathSep, s.pos, s.pos+2)
		s.pos += 2
	case c >= '0' && c <= '9':
		s.skipNumber()
	default:
		r, size := utf8.DecodeRune(s.src[s.pos:])
		if isIdentStart(r) {
			s.scanWord()
			return
		}
		if c < utf8.RuneSelf {
			s.emit(TokenPunct, s.pos, s.pos+1)
		}
		s.pos += size
	}
}

func (s *scanner) emit(kind TokenKind, start, end int) {
	s.tokens = append(s.tokens, Token{
		Kind:  kind,
		Text:  string(s.src[start:end]),
		Start: start,
		End:   end,
		Line:  s.line,
	})
}

// scanWord scans an identifier and handles the literal prefixes that look
// like identifiers: b"..", c"..", r"..", r#".."#, br"..", cr"..", b'.'
// and raw identifiers r#name.
func (s *scanner) scanWord() {
	start := s.pos
	s.pos = s.identEnd(s.pos)
	word := string(s.src[start:s.pos])
	next := s.peek(0)

	switch {
	case (word == "b" || word == "c") && next == '"':
		s.pos++
		s.skipString()
	case word == "b" && next == '\'':
		s.pos++
		s.skipCharBody()
	case (word == "r" || word == "br" || word == "cr") && s.rawStringAhead():
		s.skipRawString()
	case word == "r" && next == '#':
		r, _ := utf8.DecodeRune(s.src[s.pos+1:])
		if !isIdentStart(r) {
			s.emit(TokenIdent, start, s.pos)
			return
		}
		nameStart := s.pos + 1
		s.pos = s.identEnd(nameStart)
		s.emit(TokenIdent, nameStart, s.pos)
	default:
		s.emit(TokenIdent, start, s.pos)
	}
}

func (s *scanner) identEnd(pos int) int {
	for pos < len(s.src) {
		r, size := utf8.DecodeRune(s.src[pos:])
		if !isIdentContinue(r) {
			break
		}
		pos += size
	}
	return pos
}

// rawStringAhead reports whether the input at pos is #*" (a raw string
// body opener).
func (s *scanner) rawStringAhead() bool {
	i := s.pos
	for i < len(s.src) && s.src[i] == '#' {
		i++
	}
	return i < len(s.src) && s.src[i] == '"'
}

func (s *scanner) skipRawString() {
	hashes := 0
	for s.src[s.pos] == '#' {
		hashes++
		s.pos++
	}
	s.pos++ // opening quote

	for s.pos < len(s.src) {
		c := s.src[s.pos]
		s.pos++
		if c == '\n' {
			s.line++
			continue
		}
		if c != '"' {
			continue
		}
		n := 0
		for n < hashes && s.pos+n < len(s.src) && s.src[s.pos+n] == '#' {
			n++
		}
		if n == hashes {
			s.pos += n
			return
		}
	}
}

// skipString skips a string body; pos is just past the opening quote.
func (s *scanner) skipString() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch c {
		case '\\':
			if s.peek(1) == '\n' {
				s.line++
			}
			s.pos += 2
			continue
		case '\n':
			s.line++
		case '"':
			s.pos++
			return
		}
		s.pos++
	}
	s.pos = len(s.src)
}

// skipCharOrLifetime distinguishes 'x' and '\n' from 'a lifetimes and
// 'label loop labels.
func (s *scanner) skipCharOrLifetime() {
	s.pos++ // opening quote
	if s.peek(0) == '\\' {
		s.skipCharBody()
		return
	}

	r, size := utf8.DecodeRune(s.src[s.pos:])
	if s.pos+size < len(s.src) && s.src[s.pos+size] == '\'' {
		s.pos += size + 1
		return
	}

	if isIdentStart(r) {
		s.pos = s.identEnd(s.pos)
	}
}

// skipCharBody skips a character literal body up to and including the
// closing quote; pos is just past the opening quote.
func (s *scanner) skipCharBody() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch c {
		case '\\':
			s.pos += 2
			continue
		case '\'':
			s.pos++
			return
		case '\n':
			// not a character literal after all
			return
		}
		s.pos++
	}
	s.pos = len(s.src)
}

func (s *scanner) skipLineComment() {
	for s.pos < len(s.src) && s.src[s.pos] != '\n' {
		s.pos++
	}
}

func (s *scanner) skipBlockComment() {
	depth := 0
	for s.pos < len(s.src) {
		switch {
		case s.src[s.pos] == '/' && s.peek(1) == '*':
			depth++
			s.pos += 2
		case s.src[s.pos] == '*' && s.peek(1) == '/':
			depth--
			s.pos += 2
			if depth == 0 {
				return
			}
		default:
			if s.src[s.pos] == '\n' {
				s.line++
			}
			s.pos++
		}
	}
}

func (s *scanner) skipNumber() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			s.pos++
			continue
		}
		return
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
