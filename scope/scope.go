// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package scope

import "github.com/siemens/inetaddr/types"

// IPv6 multicast scope field values (RFC 4291, section 2.7).
const (
	scopeNodeLocal = 0x1
	scopeLinkLocal = 0x2
	scopeSiteLocal = 0x5
	scopeOrgLocal  = 0x8
	scopeGlobal    = 0xe
)

// IsLoopback reports whether v is in 127.0.0.0/8 or is ::1.
func IsLoopback(v types.Value) bool {
	switch v.Family() {
	case types.V4:
		return v.At(0) == 127
	case types.V6:
		b := v.As16()
		return b == [16]byte{15: 1}
	}
	return false
}

// IsAnyLocal reports whether v is the unspecified (wildcard) address 0.0.0.0
// or ::.
func IsAnyLocal(v types.Value) bool {
	switch v.Family() {
	case types.V4:
		return v.As4() == [4]byte{}
	case types.V6:
		return v.As16() == [16]byte{}
	}
	return false
}

// IsLinkLocal reports whether v is a link-local unicast address in
// 169.254.0.0/16 or fe80::/10.
func IsLinkLocal(v types.Value) bool {
	switch v.Family() {
	case types.V4:
		return v.At(0) == 169 && v.At(1) == 254
	case types.V6:
		return v.At(0) == 0xfe && v.At(1)&0xc0 == 0x80
	}
	return false
}

// IsSiteLocal reports whether v is a (deprecated) site-local address: the
// private-use IPv4 ranges 10.0.0.0/8, 172.16.0.0/12, and 192.168.0.0/16, or
// the IPv6 fec0::/10 range. Please note that IPv6 unique local addresses in
// fc00::/7 are not site-local.
func IsSiteLocal(v types.Value) bool {
	switch v.Family() {
	case types.V4:
		b0, b1 := v.At(0), v.At(1)
		return b0 == 10 ||
			(b0 == 172 && b1&0xf0 == 0x10) ||
			(b0 == 192 && b1 == 168)
	case types.V6:
		return v.At(0) == 0xfe && v.At(1)&0xc0 == 0xc0
	}
	return false
}

// IsMulticast reports whether v is in 224.0.0.0/4 or ff00::/8.
func IsMulticast(v types.Value) bool {
	switch v.Family() {
	case types.V4:
		return v.At(0)&0xf0 == 0xe0
	case types.V6:
		return v.At(0) == 0xff
	}
	return false
}

// multicastScope returns the scope field of an IPv6 multicast address,
// independent of the flags field; it returns -1 for anything else.
func multicastScope(v types.Value) int {
	if v.Family() != types.V6 || v.At(0) != 0xff {
		return -1
	}
	return int(v.At(1) & 0x0f)
}

// IsMulticastNodeLocal reports whether v is an IPv6 interface-local (node)
// scope multicast address. There are no IPv4 node-local multicast addresses.
func IsMulticastNodeLocal(v types.Value) bool {
	return multicastScope(v) == scopeNodeLocal
}

// IsMulticastLinkLocal reports whether v is in 224.0.0.0/24 or is an IPv6
// link-local scope multicast address.
func IsMulticastLinkLocal(v types.Value) bool {
	if v.Family() == types.V4 {
		return v.At(0) == 224 && v.At(1) == 0 && v.At(2) == 0
	}
	return multicastScope(v) == scopeLinkLocal
}

// IsMulticastSiteLocal reports whether v is in 239.255.0.0/16 or is an IPv6
// site-local scope multicast address, regardless of the multicast flags.
func IsMulticastSiteLocal(v types.Value) bool {
	if v.Family() == types.V4 {
		return v.At(0) == 239 && v.At(1) == 255
	}
	return multicastScope(v) == scopeSiteLocal
}

// IsMulticastOrgLocal reports whether v is in 239.192.0.0/14 or is an IPv6
// organization-local scope multicast address.
func IsMulticastOrgLocal(v types.Value) bool {
	if v.Family() == types.V4 {
		return v.At(0) == 239 && v.At(1)&0xfc == 192
	}
	return multicastScope(v) == scopeOrgLocal
}

// IsMulticastGlobal reports whether v is a global scope multicast address:
// 224.0.1.0 to 238.255.255.255 for IPv4.
func IsMulticastGlobal(v types.Value) bool {
	if v.Family() == types.V4 {
		b0 := v.At(0)
		return b0 >= 224 && b0 <= 238 &&
			!(b0 == 224 && v.At(1) == 0 && v.At(2) == 0)
	}
	return multicastScope(v) == scopeGlobal
}
