// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package identity

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/siemens/inetaddr/canonical"
	"github.com/siemens/inetaddr/scope"
	"github.com/siemens/inetaddr/types"

	"github.com/thediveo/lxkns/log"
	"golang.org/x/sync/singleflight"
)

// ReverseLookup maps an address back to a host name, such as by querying PTR
// records. Implementations must be safe for concurrent use.
type ReverseLookup interface {
	LookupName(ctx context.Context, v types.Value) (string, error)
}

// ReverseLookupFunc adapts a plain function to the [ReverseLookup] interface.
type ReverseLookupFunc func(ctx context.Context, v types.Value) (string, error)

// LookupName calls f(ctx, v).
func (f ReverseLookupFunc) LookupName(ctx context.Context, v types.Value) (string, error) {
	return f(ctx, v)
}

// Prober checks whether an address is reachable within the specified timeout.
type Prober interface {
	Reachable(ctx context.Context, v types.Value, timeout time.Duration) bool
}

// Address is an address identity: an immutable address [types.Value] together
// with a lazily populated display name. The display name gets populated at
// most once per Address, either when creating the Address with [WithName], or
// later from the first (reverse) lookup result. Once populated, the name never
// changes.
//
// Two Address objects for equal values don't share their names; each has its
// own name cache.
//
// Address objects must not be copied after first use.
type Address struct {
	value  types.Value
	lookup ReverseLookup
	name   atomic.Pointer[string]
	flight singleflight.Group // collapses concurrent reverse lookups.
}

// Option can be passed to [New] when creating new Address objects.
type Option func(*Address)

// New returns a new Address for the specified value.
func New(v types.Value, options ...Option) *Address {
	a := &Address{value: v}
	for _, opt := range options {
		opt(a)
	}
	return a
}

// WithName pre-populates the display name, so that no reverse lookup ever
// takes place for the new Address. An empty name is ignored.
func WithName(name string) Option {
	return func(a *Address) {
		if name != "" {
			a.name.Store(&name)
		}
	}
}

// WithReverseLookup sets the collaborator for lazily looking up the display
// name. Without it, the display name falls back to the canonical address text.
func WithReverseLookup(r ReverseLookup) Option {
	return func(a *Address) {
		a.lookup = r
	}
}

// Value returns the address value.
func (a *Address) Value() types.Value { return a.value }

// Family returns the address family.
func (a *Address) Family() types.Family { return a.value.Family() }

// Bytes returns a fresh copy of the address bytes.
func (a *Address) Bytes() []byte { return a.value.Bytes() }

// Zone returns the IPv6 zone, if any.
func (a *Address) Zone() string { return a.value.Zone() }

// HostAddress returns the canonical textual form of the address.
func (a *Address) HostAddress() string { return canonical.Format(a.value) }

// Equal reports whether a and b refer to the same address: same family and
// same bytes. Zones and display names are ignored.
func (a *Address) Equal(b *Address) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.value.Equal(b.value)
}

// Hash returns a hash consistent with [Address.Equal].
func (a *Address) Hash() uint64 { return a.value.Hash() }

// DisplayName returns the host name of this address. If not already known,
// the reverse lookup collaborator gets asked and its answer cached. If the
// lookup fails, the canonical address text gets cached instead, so
// DisplayName never fails. Lookups cut short by ctx return the canonical
// address text without caching it.
//
// Concurrent callers share a single lookup. The first name stored wins, and
// all callers return the stored name.
func (a *Address) DisplayName(ctx context.Context) string {
	if name := a.name.Load(); name != nil {
		return *name
	}
	name, _, _ := a.flight.Do("", func() (interface{}, error) {
		if name := a.name.Load(); name != nil {
			return *name, nil
		}
		name, ok := a.lookupName(ctx)
		if !ok {
			return name, nil
		}
		a.name.CompareAndSwap(nil, &name)
		return *a.name.Load(), nil
	})
	return name.(string)
}

// lookupName asks the reverse lookup collaborator, falling back to the
// canonical address text. It returns false if the lookup was cancelled or
// timed out, so its result must not be cached.
func (a *Address) lookupName(ctx context.Context) (string, bool) {
	if a.lookup == nil {
		return a.HostAddress(), true
	}
	name, err := a.lookup.LookupName(ctx, a.value)
	if ctx.Err() != nil ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		log.Debugf("reverse lookup of %s aborted: %v", a.HostAddress(), err)
		return a.HostAddress(), false
	}
	if err != nil || name == "" {
		log.Debugf("reverse lookup of %s failed: %v", a.HostAddress(), err)
		return a.HostAddress(), true
	}
	return name, true
}

// PeekDisplayName returns the display name if already known, otherwise the
// canonical address text. It never triggers a reverse lookup.
func (a *Address) PeekDisplayName() string {
	if name := a.name.Load(); name != nil {
		return *name
	}
	return a.HostAddress()
}

// CachedName returns the display name and true if it is already known.
func (a *Address) CachedName() (string, bool) {
	if name := a.name.Load(); name != nil {
		return *name, true
	}
	return "", false
}

// String returns the display name if known, followed by "/" and the canonical
// address text, such as "localhost/127.0.0.1" or "/::1".
func (a *Address) String() string {
	name, _ := a.CachedName()
	return name + "/" + a.HostAddress()
}

// IsReachable asks the specified prober whether this address is reachable
// within the given timeout.
func (a *Address) IsReachable(ctx context.Context, p Prober, timeout time.Duration) bool {
	return p.Reachable(ctx, a.value, timeout)
}

// IsLoopback reports whether this is a loopback address.
func (a *Address) IsLoopback() bool { return scope.IsLoopback(a.value) }

// IsAnyLocal reports whether this is the unspecified address.
func (a *Address) IsAnyLocal() bool { return scope.IsAnyLocal(a.value) }

// IsLinkLocal reports whether this is a link-local unicast address.
func (a *Address) IsLinkLocal() bool { return scope.IsLinkLocal(a.value) }

// IsSiteLocal reports whether this is a (deprecated) site-local address.
func (a *Address) IsSiteLocal() bool { return scope.IsSiteLocal(a.value) }

// IsMulticast reports whether this is a multicast address.
func (a *Address) IsMulticast() bool { return scope.IsMulticast(a.value) }

// IsMulticastSiteLocal reports whether this is a site-local scope multicast
// address.
func (a *Address) IsMulticastSiteLocal() bool { return scope.IsMulticastSiteLocal(a.value) }
