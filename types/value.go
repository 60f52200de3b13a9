// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Value is an immutable IPv4 or IPv6 address in binary form, tagged with its
// [Family]. IPv6 values may additionally carry a zone (scope) identifier which
// is purely a routing hint: it never takes part in equality, hashing, or
// classification.
//
// Values are comparable with ==, but == also compares zones; use [Value.Equal]
// for address identity.
type Value struct {
	family Family
	b      [16]byte // IPv4 uses the first 4 bytes only, the rest stay zero.
	zone   string
}

// V4From returns the IPv4 address a.b.c.d.
func V4From(a, b, c, d byte) Value {
	return Value{family: V4, b: [16]byte{a, b, c, d}}
}

// V4From4 returns the IPv4 address with the specified bytes.
func V4From4(b [4]byte) Value {
	return V4From(b[0], b[1], b[2], b[3])
}

// V6From returns the IPv6 address with the specified bytes. Please note that
// V6From never unwraps IPv4-mapped addresses.
func V6From(b [16]byte) Value {
	return Value{family: V6, b: b}
}

// FromBytes returns the address for the specified raw bytes, which must be
// either 4 (IPv4) or 16 (IPv6) bytes long. Otherwise, [ErrInvalidLength] is
// returned. The bytes are copied. 16 byte IPv4-mapped addresses stay IPv6
// values.
func FromBytes(b []byte) (Value, error) {
	switch len(b) {
	case 4:
		return V4From(b[0], b[1], b[2], b[3]), nil
	case 16:
		v := Value{family: V6}
		copy(v.b[:], b)
		return v, nil
	}
	return Value{}, &LengthError{Len: len(b)}
}

// IsValid reports whether v is an IPv4 or IPv6 address, as opposed to the zero
// Value.
func (v Value) IsValid() bool { return v.family != InvalidFamily }

// Family returns the address family.
func (v Value) Family() Family { return v.family }

// Is4 reports whether v is an IPv4 address.
func (v Value) Is4() bool { return v.family == V4 }

// Is6 reports whether v is an IPv6 address.
func (v Value) Is6() bool { return v.family == V6 }

// Len returns the number of address bytes, that is, 4 or 16 (or 0 for the
// zero Value).
func (v Value) Len() int { return v.family.Len() }

// Bytes returns a fresh copy of the address bytes.
func (v Value) Bytes() []byte {
	b := make([]byte, v.Len())
	copy(b, v.b[:])
	return b
}

// At returns the i-th address byte. Panics if i is out of range for the
// address family.
func (v Value) At(i int) byte {
	if i < 0 || i >= v.Len() {
		panic("types.Value.At: index out of range")
	}
	return v.b[i]
}

// As4 returns the 4 address bytes of an IPv4 address; it returns all zeros for
// IPv6 addresses.
func (v Value) As4() (b [4]byte) {
	if v.family == V4 {
		copy(b[:], v.b[:4])
	}
	return
}

// As16 returns the 16 address bytes of an IPv6 address; it returns all zeros
// for IPv4 addresses.
func (v Value) As16() (b [16]byte) {
	if v.family == V6 {
		b = v.b
	}
	return
}

// Hextet returns the i-th (0..7) 16 bit group of an IPv6 address.
func (v Value) Hextet(i int) uint16 {
	return uint16(v.b[2*i])<<8 | uint16(v.b[2*i+1])
}

// Zone returns the IPv6 zone, or "" if there is none.
func (v Value) Zone() string { return v.zone }

// ScopeID returns the zone as a numeric scope index, if the zone is a decimal
// number. Otherwise, ok is false.
func (v Value) ScopeID() (id uint32, ok bool) {
	if v.zone == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(v.zone, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

// WithZone returns a copy of v with the specified zone. Zones are silently
// dropped for anything but IPv6 addresses.
func (v Value) WithZone(zone string) Value {
	if v.family != V6 {
		zone = ""
	}
	v.zone = zone
	return v
}

// Unzoned returns v without any zone; the result is suitable as a map key
// that follows [Value.Equal] semantics.
func (v Value) Unzoned() Value {
	v.zone = ""
	return v
}

// Equal reports whether v and w have the same family and the same address
// bytes. Zones are not compared. An IPv4 address never equals its IPv4-mapped
// IPv6 counterpart.
func (v Value) Equal(w Value) bool {
	return v.family == w.family && v.b == w.b
}

// Hash returns a hash of the family and address bytes, consistent with
// [Value.Equal].
func (v Value) Hash() uint64 {
	var buf [17]byte
	buf[0] = byte(v.family)
	n := copy(buf[1:], v.b[:v.Len()])
	return xxhash.Sum64(buf[:1+n])
}

// IsV4Mapped reports whether v is an IPv6 address in ::ffff:0:0/96.
func (v Value) IsV4Mapped() bool {
	if v.family != V6 {
		return false
	}
	for _, b := range v.b[:10] {
		if b != 0 {
			return false
		}
	}
	return v.b[10] == 0xff && v.b[11] == 0xff
}

// Unmap returns the IPv4 address embedded in an IPv4-mapped IPv6 address,
// otherwise v unchanged.
func (v Value) Unmap() Value {
	if !v.IsV4Mapped() {
		return v
	}
	return V4From(v.b[12], v.b[13], v.b[14], v.b[15])
}

// Loopback4 returns the IPv4 loopback address 127.0.0.1.
func Loopback4() Value { return V4From(127, 0, 0, 1) }

// Loopback6 returns the IPv6 loopback address ::1.
func Loopback6() Value { return V6From([16]byte{15: 1}) }
