// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package scope

import "github.com/siemens/inetaddr/types"

// Classification bundles the outcome of all scope predicates for a single
// address.
type Classification struct {
	Family             types.Family
	Loopback           bool
	AnyLocal           bool
	LinkLocal          bool
	SiteLocal          bool
	Multicast          bool
	MulticastNodeLocal bool
	MulticastLinkLocal bool
	MulticastSiteLocal bool
	MulticastOrgLocal  bool
	MulticastGlobal    bool
}

// Classify returns the scope classification of v. The zero Classification is
// returned for the zero Value.
func Classify(v types.Value) Classification {
	if !v.IsValid() {
		return Classification{}
	}
	return Classification{
		Family:             v.Family(),
		Loopback:           IsLoopback(v),
		AnyLocal:           IsAnyLocal(v),
		LinkLocal:          IsLinkLocal(v),
		SiteLocal:          IsSiteLocal(v),
		Multicast:          IsMulticast(v),
		MulticastNodeLocal: IsMulticastNodeLocal(v),
		MulticastLinkLocal: IsMulticastLinkLocal(v),
		MulticastSiteLocal: IsMulticastSiteLocal(v),
		MulticastOrgLocal:  IsMulticastOrgLocal(v),
		MulticastGlobal:    IsMulticastGlobal(v),
	}
}

// String returns the most specific scope label, such as "loopback" or
// "multicast site-local", falling back to "global" for everything else.
func (c Classification) String() string {
	switch {
	case c.Family == types.InvalidFamily:
		return "invalid"
	case c.Loopback:
		return "loopback"
	case c.AnyLocal:
		return "any-local"
	case c.LinkLocal:
		return "link-local"
	case c.SiteLocal:
		return "site-local"
	case c.MulticastNodeLocal:
		return "multicast node-local"
	case c.MulticastLinkLocal:
		return "multicast link-local"
	case c.MulticastSiteLocal:
		return "multicast site-local"
	case c.MulticastOrgLocal:
		return "multicast org-local"
	case c.MulticastGlobal:
		return "multicast global"
	case c.Multicast:
		return "multicast"
	}
	return "global"
}
