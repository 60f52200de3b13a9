// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package verifier

import (
	"context"
	"sync"

	"github.com/siemens/inetaddr/types"
)

// NamedAddressCache caches the verification qualities of addresses, so that
// an address shared by several host names gets verified only once, yet its
// verdict distributed at once to all host names waiting for it.
//
// Addresses are keyed by their identity, so the same IPv6 address with
// different zones counts as a single address.
type NamedAddressCache struct {
	mu sync.Mutex
	m  map[types.Value]verdictSubscription // unzoned address -> subscription
}

// NewNamedAddressCache returns a new NamedAddressCache object.
func NewNamedAddressCache() *NamedAddressCache {
	return &NamedAddressCache{
		m: map[types.Value]verdictSubscription{},
	}
}

// verdictSubscription tracks the most recent quality of an address, together
// with the host names resolving to this address still waiting for the final
// verdict.
type verdictSubscription struct {
	q         types.Quality
	err       error    // optional error reason for invalid quality
	hostnames []string // waiting for quality updates.
}

// has reports whether hostname is already subscribed.
func (s verdictSubscription) has(hostname string) bool {
	for _, name := range s.hostnames {
		if name == hostname {
			return true
		}
	}
	return false
}

// Len returns the number of distinct addresses seen so far.
func (c *NamedAddressCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

// Update checks whether the specified named address is new, that is, whether
// its address hasn't been seen before. In this case Update passes it on to the
// news channel and returns true, so that the caller can start verifying the
// new address.
//
// Otherwise, Update returns false. If the named address carries a stale
// quality, its host name gets the most recent quality known for the address.
// If the named address instead carries a quality update, then all host names
// waiting for this address receive the update. Final verdicts (Verified,
// Invalid) end the subscriptions, as there won't be any further updates.
func (c *NamedAddressCache) Update(ctx context.Context, namaddr types.NamedAddress, news chan<- types.NamedAddress) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := namaddr.Addr().Unzoned()
	hostname := namaddr.Name()
	sub, ok := c.m[key]
	if !ok {
		// Note: we assume that a new address always enters in qualities
		// Unverified or Verifying, so there will always be a later quality
		// update to be expected.
		c.m[key] = verdictSubscription{
			q:         namaddr.Qual(),
			hostnames: []string{hostname},
		}
		select {
		case news <- namaddr:
		case <-ctx.Done():
		}
		return true
	}
	subscribed := sub.has(hostname)
	if namaddr.Qual() <= sub.q {
		// The quality is stale, so tell only this host name about the most
		// recent quality. Once subscribed, a host name gets future updates
		// anyway.
		if !subscribed {
			if sub.q.IsPending() {
				sub.hostnames = append(sub.hostnames, hostname)
				c.m[key] = sub
			}
			select {
			case news <- namaddr.WithNewQuality(sub.q, sub.err).(types.NamedAddress):
			case <-ctx.Done():
			}
		}
		return false
	}
	sub.q = namaddr.Qual()
	sub.err = namaddr.Err()
	var hostnames []string
	if sub.q.IsFinal() {
		hostnames, sub.hostnames = sub.hostnames, nil
		if !subscribed {
			hostnames = append(hostnames, hostname)
		}
	} else {
		if !subscribed {
			sub.hostnames = append(sub.hostnames, hostname)
		}
		hostnames = sub.hostnames
	}
	c.m[key] = sub
	for _, name := range hostnames {
		na := namaddr.NA()
		na.Hostname = name
		select {
		case news <- na.WithNewQuality(sub.q, sub.err).(types.NamedAddress):
		case <-ctx.Done(): // bail out immediately.
			return false
		}
	}
	return false
}
