// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package literal

import "strings"

// tokenKind identifies the kind of a lexed token.
type tokenKind uint8

const (
	hextetToken tokenKind = iota // run of hex digits, not yet interpreted
	colonToken                   // single ":"
	ellipsisToken                // "::"
	dottedToken                  // dotted decimal groups (IPv4 or an IPv6 tail)
)

// token is a single lexeme; text references the original input.
type token struct {
	kind   tokenKind
	text   string
	groups []string // dottedToken only: the dot-separated groups.
}

// lexeme is the result of scanning a candidate literal: a family hint, the
// tokens, and the bracket and zone decorations found around them.
type lexeme struct {
	v6        bool // saw at least one colon
	bracketed bool
	hasZone   bool
	zone      string
	tokens    []token
}

// lex scans the specified candidate literal into tokens. It only checks the
// boundaries and character classes, but never interprets any numbers. If the
// literal contains characters that can't be part of any numeric literal, lex
// returns false.
func lex(s string) (lexeme, bool) {
	var lx lexeme
	if strings.HasPrefix(s, "[") || strings.HasSuffix(s, "]") {
		if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
			return lx, false
		}
		s = s[1 : len(s)-1]
		lx.bracketed = true
	}
	if i := strings.IndexByte(s, '%'); i >= 0 {
		s, lx.zone = s[:i], s[i+1:]
		lx.hasZone = true
	}
	if s == "" {
		return lx, false
	}
	if strings.IndexByte(s, ':') < 0 {
		tok, ok := lexDotted(s)
		if !ok {
			return lx, false
		}
		lx.tokens = []token{tok}
		return lx, true
	}
	lx.v6 = true
	lx.tokens = make([]token, 0, 16)
	for len(s) > 0 {
		if s[0] == ':' {
			if len(s) > 1 && s[1] == ':' {
				lx.tokens = append(lx.tokens, token{kind: ellipsisToken, text: s[:2]})
				s = s[2:]
				continue
			}
			lx.tokens = append(lx.tokens, token{kind: colonToken, text: s[:1]})
			s = s[1:]
			continue
		}
		n := 0
		for n < len(s) && isHex(s[n]) {
			n++
		}
		if n == 0 {
			return lx, false
		}
		if n < len(s) && s[n] == '.' {
			// An embedded IPv4 tail always runs until the end of the literal.
			tok, ok := lexDotted(s)
			if !ok {
				return lx, false
			}
			lx.tokens = append(lx.tokens, tok)
			return lx, true
		}
		lx.tokens = append(lx.tokens, token{kind: hextetToken, text: s[:n]})
		s = s[n:]
	}
	return lx, true
}

// lexDotted scans dot-separated groups of decimal digits. Empty groups are
// rejected, the number of groups is left to the parser.
func lexDotted(s string) (token, bool) {
	groups := strings.Split(s, ".")
	for _, g := range groups {
		if g == "" {
			return token{}, false
		}
		for i := 0; i < len(g); i++ {
			if !isDigit(g[i]) {
				return token{}, false
			}
		}
	}
	return token{kind: dottedToken, text: s, groups: groups}, true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
