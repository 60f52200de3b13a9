// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolver

import (
	"strings"

	"github.com/siemens/inetaddr/types"
)

// Well-known names of the IPv4 and IPv6 loopback addresses.
const (
	LocalhostName    = "localhost"
	IP6LocalhostName = "ip6-localhost"
)

// hosts is a static name/address table, consulted before any lookup
// collaborator. Names match case-insensitively. When several names map to the
// same address, the first one added is its reverse name.
type hosts struct {
	byName map[string][]types.Value
	byAddr map[types.Value]string
}

func newHosts() *hosts {
	h := &hosts{
		byName: map[string][]types.Value{},
		byAddr: map[types.Value]string{},
	}
	h.add(LocalhostName, types.Loopback4())
	h.add(IP6LocalhostName, types.Loopback6())
	return h
}

func (h *hosts) add(name string, addrs ...types.Value) {
	key := strings.ToLower(name)
	for _, addr := range addrs {
		addr = addr.Unzoned()
		h.byName[key] = append(h.byName[key], addr)
		if _, ok := h.byAddr[addr]; !ok {
			h.byAddr[addr] = name
		}
	}
}

// addrs returns a fresh copy of the addresses for name, if any.
func (h *hosts) addrs(name string) ([]types.Value, bool) {
	addrs, ok := h.byName[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return append([]types.Value(nil), addrs...), true
}

func (h *hosts) name(v types.Value) (string, bool) {
	name, ok := h.byAddr[v.Unzoned()]
	return name, ok
}
