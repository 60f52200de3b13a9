// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package canonical

import (
	"strconv"

	"github.com/miekg/dns"
	"github.com/siemens/inetaddr/types"
)

const hexDigits = "0123456789abcdef"

// Format returns the canonical textual form of the specified address, without
// any zone. The zero Value renders as "invalid IP".
func Format(v types.Value) string {
	if !v.IsValid() {
		return "invalid IP"
	}
	return string(Append(make([]byte, 0, 39), v))
}

// FormatZoned returns the canonical textual form of the specified address,
// including an IPv6 zone as "%zone" suffix if present.
func FormatZoned(v types.Value) string {
	s := Format(v)
	if z := v.Zone(); z != "" {
		return s + "%" + z
	}
	return s
}

// Append appends the canonical textual form of the specified address (without
// any zone) to dst and returns the extended buffer. Nothing is appended for the
// zero Value.
func Append(dst []byte, v types.Value) []byte {
	switch v.Family() {
	case types.V4:
		return append4(dst, v.As4())
	case types.V6:
		return append6(dst, v)
	}
	return dst
}

// append4 renders four decimal octets, without leading zeros.
func append4(dst []byte, b [4]byte) []byte {
	for i, octet := range b {
		if i > 0 {
			dst = append(dst, '.')
		}
		dst = strconv.AppendUint(dst, uint64(octet), 10)
	}
	return dst
}

// append6 renders eight lowercase hex hextets with leading zeros stripped,
// where the leftmost longest run of at least two all-zero hextets collapses
// into "::".
func append6(dst []byte, v types.Value) []byte {
	zeroStart, zeroEnd := zeroRun(v)
	for i := 0; i < 8; i++ {
		if i == zeroStart {
			dst = append(dst, ':', ':')
			i = zeroEnd - 1
			continue
		}
		if i > 0 && i != zeroEnd {
			dst = append(dst, ':')
		}
		dst = appendHextet(dst, v.Hextet(i))
	}
	return dst
}

// zeroRun returns the half-open hextet index range [start, end) of the
// leftmost longest run of at least two all-zero hextets, or (-1, -1) if there
// is no such run.
func zeroRun(v types.Value) (start, end int) {
	start, end = -1, -1
	for i := 0; i < 8; i++ {
		j := i
		for j < 8 && v.Hextet(j) == 0 {
			j++
		}
		if l := j - i; l >= 2 && l > end-start {
			start, end = i, j
		}
		i = j
	}
	return
}

func appendHextet(dst []byte, h uint16) []byte {
	switch {
	case h >= 0x1000:
		dst = append(dst, hexDigits[h>>12])
		fallthrough
	case h >= 0x100:
		dst = append(dst, hexDigits[h>>8&0xf])
		fallthrough
	case h >= 0x10:
		dst = append(dst, hexDigits[h>>4&0xf])
	}
	return append(dst, hexDigits[h&0xf])
}

// Reverse returns the fully qualified reverse-mapping (PTR) name of the
// specified address in the in-addr.arpa. or ip6.arpa. domain.
func Reverse(v types.Value) (string, error) {
	if !v.IsValid() {
		return "", types.ErrInvalidLength
	}
	return dns.ReverseAddr(Format(v))
}
