// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import "fmt"

// Quality tells how far the reachability of an address has been established:
// not at all, in progress, or with a final verdict either way.
type Quality int

// Reachability qualities; Invalid and Verified are final verdicts.
const (
	Unverified Quality = iota // not (yet) submitted for verification.
	Verifying                 // probes in flight.
	Invalid                   // unreachable, or the name did not resolve.
	Verified                  // answered enough probes.
)

var qualityNames = [...]string{
	Unverified: "unverified",
	Verifying:  "verifying",
	Invalid:    "invalid",
	Verified:   "verified",
}

// String returns the clear-text name of q.
func (q Quality) String() string {
	if q >= 0 && int(q) < len(qualityNames) {
		return qualityNames[q]
	}
	return fmt.Sprintf("Quality(%d)", q)
}

// IsPending reports whether q is still waiting for a verdict.
func (q Quality) IsPending() bool {
	return q == Unverified || q == Verifying
}

// IsFinal reports whether q is a verdict, that is, Invalid or Verified.
func (q Quality) IsFinal() bool {
	return q == Invalid || q == Verified
}
