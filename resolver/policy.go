// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolver

import (
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/siemens/inetaddr/types"
	"github.com/thediveo/lxkns/log"
)

// LoopbackPolicy determines which loopback address family gets used when
// resolving the empty name or parsing the empty literal.
type LoopbackPolicy uint8

// Supported loopback policies.
const (
	PreferSystem LoopbackPolicy = iota // IPv4 if the host has a working IPv4 loopback, else IPv6.
	PreferIPv4
	PreferIPv6
)

var loopbackPolicyNames = map[LoopbackPolicy]string{
	PreferSystem: "system",
	PreferIPv4:   "ipv4",
	PreferIPv6:   "ipv6",
}

// String returns the configuration name of the loopback policy.
func (p LoopbackPolicy) String() string {
	if name, ok := loopbackPolicyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("LoopbackPolicy(%d)", uint8(p))
}

// ParseLoopbackPolicy returns the loopback policy for the specified
// configuration name "system", "ipv4", or "ipv6"; the empty name means
// "system".
func ParseLoopbackPolicy(name string) (LoopbackPolicy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return PreferSystem, nil
	}
	for policy, policyname := range loopbackPolicyNames {
		if name == policyname {
			return policy, nil
		}
	}
	return PreferSystem, fmt.Errorf("invalid loopback policy %q, must be system, ipv4, or ipv6",
		name)
}

var (
	systemLoopbackOnce sync.Once
	systemLoopback     types.Value
)

// hasLoopback is swapped in tests.
var hasLoopback = func(network, addr string) bool {
	l, err := net.Listen(network, addr)
	if err != nil {
		return false
	}
	_ = l.Close()
	return true
}

// loopbackValue returns the loopback address value for this policy. The system
// policy probes the host only once per process.
func (p LoopbackPolicy) loopbackValue() types.Value {
	switch p {
	case PreferIPv4:
		return types.Loopback4()
	case PreferIPv6:
		return types.Loopback6()
	}
	systemLoopbackOnce.Do(func() {
		systemLoopback = types.Loopback4()
		if !hasLoopback("tcp4", "127.0.0.1:0") && hasLoopback("tcp6", "[::1]:0") {
			systemLoopback = types.Loopback6()
		}
		log.Debugf("system loopback is %s", systemLoopback.Family())
	})
	return systemLoopback
}
