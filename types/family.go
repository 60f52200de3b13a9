// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import "fmt"

// Family tags an address [Value] as either IPv4 or IPv6. The family determines
// the number of significant address bytes as well as which classification and
// formatting rules apply.
type Family uint8

// The address families. The zero Family is invalid and only found in zero
// [Value]s.
const (
	InvalidFamily Family = iota
	V4                   // IPv4, 4 bytes
	V6                   // IPv6, 16 bytes
)

// Len returns the number of address bytes for this family, or 0 for an
// invalid family.
func (f Family) Len() int {
	switch f {
	case V4:
		return 4
	case V6:
		return 16
	}
	return 0
}

// String returns the clear-text representation of a Family value.
func (f Family) String() string {
	switch f {
	case V4:
		return "IPv4"
	case V6:
		return "IPv6"
	case InvalidFamily:
		return "invalid"
	}
	return fmt.Sprintf("Family(%d)", f)
}
