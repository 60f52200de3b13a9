// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package literal

import (
	"github.com/siemens/inetaddr/types"
)

// Parse returns the binary address for the specified numeric IPv4 or IPv6
// literal, or a [*types.ParseError] if the literal doesn't follow the strict
// grammar. Parse never looks up any names.
//
// IPv4 literals must consist of exactly four dot-separated groups of decimal
// digits, each in the range 0..255 and at most four digits long. Leading zeros
// are decimal, never octal, so "0177.0.0.1" is 177.0.0.1. Shorthand forms with
// less than four groups as well as hex groups are rejected.
//
// IPv6 literals may optionally be enclosed in square brackets and may carry a
// "%zone" suffix. IPv4-mapped literals such as "::ffff:127.0.0.1" are unwrapped
// into their IPv4 address, losing any zone.
func Parse(s string) (types.Value, error) {
	lx, ok := lex(s)
	if !ok {
		return types.Value{}, &types.ParseError{Input: s}
	}
	var v types.Value
	if lx.v6 {
		v, ok = parse6(lx.tokens)
		if !ok {
			return types.Value{}, &types.ParseError{Input: s}
		}
		if lx.hasZone {
			if lx.zone == "" {
				return types.Value{}, &types.ParseError{Input: s}
			}
			v = v.WithZone(lx.zone)
		}
		return v.Unmap(), nil
	}
	// Brackets and zones are reserved to IPv6 literals.
	if lx.bracketed || lx.hasZone {
		return types.Value{}, &types.ParseError{Input: s}
	}
	b, ok := parse4(lx.tokens[0].groups)
	if !ok {
		return types.Value{}, &types.ParseError{Input: s}
	}
	return types.V4From4(b), nil
}

// MustParse is like [Parse], but panics if the literal cannot be parsed.
func MustParse(s string) types.Value {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// IsNumeric returns true if s is a numeric IPv4 or IPv6 literal that [Parse]
// accepts.
func IsNumeric(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// maxGroupDigits limits the length of IPv4 groups, leaving room for a single
// leading zero in front of three digits.
const maxGroupDigits = 4

// parse4 interprets exactly four groups of decimal digits as the bytes of an
// IPv4 address.
func parse4(groups []string) (b [4]byte, ok bool) {
	if len(groups) != 4 {
		return b, false
	}
	for idx, g := range groups {
		if len(g) > maxGroupDigits {
			return b, false
		}
		val := 0
		for i := 0; i < len(g); i++ {
			val = val*10 + int(g[i]-'0')
			if val > 255 {
				return b, false
			}
		}
		b[idx] = byte(val)
	}
	return b, true
}

// parse6 interprets the tokens of an IPv6 literal, expanding a "::" ellipsis
// into as many zero hextets as necessary to get 16 bytes in total.
func parse6(tokens []token) (types.Value, bool) {
	var ip [16]byte
	pos := 0       // next byte to write
	ellipsis := -1 // byte position of "::", if any
	var prev *token
	for idx := range tokens {
		tok := &tokens[idx]
		switch tok.kind {
		case hextetToken:
			if prev != nil && prev.kind == hextetToken {
				return types.Value{}, false
			}
			if len(tok.text) > 4 || pos >= 16 {
				return types.Value{}, false
			}
			val := hexval(tok.text)
			ip[pos] = byte(val >> 8)
			ip[pos+1] = byte(val)
			pos += 2
		case colonToken:
			// a single colon separates, so it must follow a hextet and must
			// not end the literal.
			if prev == nil || prev.kind != hextetToken || idx == len(tokens)-1 {
				return types.Value{}, false
			}
		case ellipsisToken:
			if ellipsis >= 0 || (prev != nil && prev.kind != hextetToken) {
				return types.Value{}, false
			}
			ellipsis = pos
		case dottedToken:
			if idx != len(tokens)-1 || prev == nil || prev.kind == hextetToken {
				return types.Value{}, false
			}
			b4, ok := parse4(tok.groups)
			if !ok || pos+4 > 16 {
				return types.Value{}, false
			}
			copy(ip[pos:], b4[:])
			pos += 4
		}
		prev = tok
	}
	switch {
	case ellipsis < 0 && pos != 16:
		return types.Value{}, false
	case ellipsis >= 0 && pos > 14:
		// "::" must stand for at least one zero hextet.
		return types.Value{}, false
	case ellipsis >= 0:
		n := 16 - pos
		copy(ip[ellipsis+n:], ip[ellipsis:pos])
		for i := ellipsis; i < ellipsis+n; i++ {
			ip[i] = 0
		}
	}
	return types.V6From(ip), true
}

// hexval returns the value of a run of (already validated) hex digits.
func hexval(s string) uint16 {
	var val uint16
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			c -= '0'
		case c >= 'a' && c <= 'f':
			c = c - 'a' + 10
		default:
			c = c - 'A' + 10
		}
		val = val<<4 | uint16(c)
	}
	return val
}
