// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/siemens/inetaddr/canonical"
	"github.com/siemens/inetaddr/identity"
	"github.com/siemens/inetaddr/literal"
	"github.com/siemens/inetaddr/types"
	"github.com/thediveo/lxkns/log"
	"golang.org/x/sync/singleflight"
)

// Lookup is the name service collaborator, such as a DNS client.
// Implementations must be safe for concurrent use.
type Lookup interface {
	// LookupAddrs returns the addresses of the named host.
	LookupAddrs(ctx context.Context, name string) ([]types.Value, error)
	// LookupName returns the host name of an address.
	LookupName(ctx context.Context, v types.Value) (string, error)
}

// Default address cache settings.
const (
	DefaultCacheSize = 512
	DefaultCacheTTL  = 2 * time.Second
)

// Resolver turns host names and numeric address literals into address
// identities. A zero Resolver is not usable; use [New] instead.
type Resolver struct {
	lookup Lookup
	hosts  *hosts
	policy LoopbackPolicy
	size   int
	ttl    time.Duration
	cache  *expirable.LRU[string, cacheEntry] // nil when caching is disabled.
	flight singleflight.Group

	closeOnce sync.Once
}

// cacheEntry is either a positive (addrs) or negative (err) lookup result.
type cacheEntry struct {
	addrs []types.Value
	err   error
}

// Option can be passed to [New] when creating new Resolver objects.
type Option func(*Resolver)

// New returns a new Resolver. Without a [WithLookup] option, only numeric
// literals and names in the hosts table can be resolved. Call
// [Resolver.Close] when done with the Resolver to release its address cache.
func New(options ...Option) *Resolver {
	r := &Resolver{
		hosts: newHosts(),
		size:  DefaultCacheSize,
		ttl:   DefaultCacheTTL,
	}
	for _, opt := range options {
		opt(r)
	}
	if r.size > 0 && r.ttl > 0 {
		r.cache = expirable.NewLRU[string, cacheEntry](r.size, nil, r.ttl)
	}
	return r
}

// Close drops all cached lookup results and stops the cache's background
// expiry. Afterwards, the Resolver keeps working, with expired entries only
// dropped on access. Close can be called multiple times.
func (r *Resolver) Close() {
	r.closeOnce.Do(func() {
		if r.cache == nil {
			return
		}
		r.cache.Purge()
		if !stopCleanupGoroutine(r.cache) {
			log.Warnf("cannot stop address cache expiry")
		}
	})
}

// WithLookup sets the name service collaborator.
func WithLookup(l Lookup) Option {
	return func(r *Resolver) {
		r.lookup = l
	}
}

// WithHosts adds static name to address mappings to the hosts table. The
// hosts table always contains "localhost" and "ip6-localhost".
func WithHosts(table map[string][]types.Value) Option {
	return func(r *Resolver) {
		for name, addrs := range table {
			r.hosts.add(name, addrs...)
		}
	}
}

// WithCache sets the maximum number of cached lookup results and how long
// they stay valid. A zero size or ttl disables caching.
func WithCache(size int, ttl time.Duration) Option {
	return func(r *Resolver) {
		r.size = size
		r.ttl = ttl
	}
}

// WithLoopbackPolicy sets the policy for picking the loopback address family.
func WithLoopbackPolicy(policy LoopbackPolicy) Option {
	return func(r *Resolver) {
		r.policy = policy
	}
}

// ParseNumeric parses a numeric address literal without ever doing any
// lookup. The empty literal parses into the loopback address of the
// configured policy. Failures match both [types.ErrIllegalArgument] and
// [types.ErrParse].
func (r *Resolver) ParseNumeric(text string) (types.Value, error) {
	if text == "" {
		return r.policy.loopbackValue(), nil
	}
	v, err := literal.Parse(text)
	if err != nil {
		return types.Value{}, fmt.Errorf("%w: %w", types.ErrIllegalArgument, err)
	}
	return v, nil
}

// Loopback returns a new identity for the loopback address of the configured
// policy, named "localhost" or "ip6-localhost" respectively.
func (r *Resolver) Loopback() *identity.Address {
	return r.loopback(r.policy.loopbackValue())
}

func (r *Resolver) loopback(v types.Value) *identity.Address {
	name := LocalhostName
	if v.Is6() {
		name = IP6LocalhostName
	}
	return identity.New(v, identity.WithName(name))
}

// FromBytes returns a new identity for the specified address bytes, which must
// be either 4 or 16 bytes long. An empty name means no name was supplied, so
// the display name will be looked up lazily. IPv4-mapped IPv6 addresses stay
// IPv6.
func (r *Resolver) FromBytes(b []byte, name string) (*identity.Address, error) {
	v, err := types.FromBytes(b)
	if err != nil {
		return nil, err
	}
	return identity.New(v, identity.WithName(name), identity.WithReverseLookup(r)), nil
}

// ResolveOne returns the first identity ResolveAll would return. The empty
// name resolves to the loopback identity of the configured policy.
func (r *Resolver) ResolveOne(ctx context.Context, name string) (*identity.Address, error) {
	if name == "" {
		return r.Loopback(), nil
	}
	addrs, err := r.ResolveAll(ctx, name)
	if err != nil {
		return nil, err
	}
	return addrs[0], nil
}

// ResolveAll returns the identities of all addresses of the specified host
// name or numeric literal. The returned slice is always freshly allocated.
//
// The empty name resolves to both the IPv4 and IPv6 loopback identities.
// Numeric literals resolve to a single identity without any lookup. Names
// resolve using the hosts table first, then the address cache, and finally the
// lookup collaborator. Concurrent lookups of the same name are coalesced.
// Failures are [*types.ResolutionError] and get cached too.
func (r *Resolver) ResolveAll(ctx context.Context, name string) ([]*identity.Address, error) {
	if name == "" {
		return []*identity.Address{
			r.loopback(types.Loopback4()),
			r.loopback(types.Loopback6()),
		}, nil
	}
	if v, err := literal.Parse(name); err == nil {
		return []*identity.Address{
			identity.New(v, identity.WithReverseLookup(r)),
		}, nil
	} else if isBracketed(name) {
		return nil, &types.ResolutionError{Name: name, Err: err}
	}
	addrs, err := r.lookupAddrs(ctx, name)
	if err != nil {
		return nil, err
	}
	ids := make([]*identity.Address, 0, len(addrs))
	for _, addr := range addrs {
		ids = append(ids, identity.New(addr, identity.WithName(name), identity.WithReverseLookup(r)))
	}
	return ids, nil
}

// isBracketed reports bracketed text, which can only be an IPv6 literal and
// thus must never be looked up as a name.
func isBracketed(name string) bool {
	return strings.HasPrefix(name, "[")
}

// lookupAddrs returns a fresh slice of the addresses for name.
func (r *Resolver) lookupAddrs(ctx context.Context, name string) ([]types.Value, error) {
	if addrs, ok := r.hosts.addrs(name); ok {
		return addrs, nil
	}
	key := strings.ToLower(name)
	result, _, _ := r.flight.Do(key, func() (interface{}, error) {
		if r.cache != nil {
			if entry, ok := r.cache.Get(key); ok {
				log.Debugf("address cache hit for %q", name)
				return entry, nil
			}
		}
		entry := r.query(ctx, name)
		// Don't remember cancelled lookups, as they say nothing about the
		// name.
		if r.cache != nil && !errors.Is(entry.err, context.Canceled) &&
			!errors.Is(entry.err, context.DeadlineExceeded) {
			r.cache.Add(key, entry)
		}
		return entry, nil
	})
	entry := result.(cacheEntry)
	if entry.err != nil {
		return nil, entry.err
	}
	return append([]types.Value(nil), entry.addrs...), nil
}

// query asks the lookup collaborator, mapping all failures including empty
// answers to resolution errors.
func (r *Resolver) query(ctx context.Context, name string) cacheEntry {
	if r.lookup == nil {
		return cacheEntry{err: &types.ResolutionError{Name: name}}
	}
	addrs, err := r.lookup.LookupAddrs(ctx, name)
	if err == nil && len(addrs) == 0 {
		err = errors.New("no addresses")
	}
	if err != nil {
		log.Debugf("lookup of %q failed: %v", name, err)
		return cacheEntry{err: &types.ResolutionError{Name: name, Err: err}}
	}
	log.Debugf("lookup of %q: %d addresses", name, len(addrs))
	return cacheEntry{addrs: addrs}
}

// LookupName returns the host name of the specified address, consulting the
// hosts table before the lookup collaborator. It makes Resolver the reverse
// lookup collaborator of the identities it returns.
func (r *Resolver) LookupName(ctx context.Context, v types.Value) (string, error) {
	if name, ok := r.hosts.name(v); ok {
		return name, nil
	}
	if r.lookup == nil {
		return "", &types.ResolutionError{Name: canonical.Format(v)}
	}
	return r.lookup.LookupName(ctx, v)
}

var _ identity.ReverseLookup = (*Resolver)(nil)
