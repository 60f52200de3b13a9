// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package dnsworker

import (
	"context"

	"github.com/siemens/inetaddr/types"
)

// Lookup adapts a [DnsPool] to synchronous address and name lookups, as
// needed by resolvers and address identities.
type Lookup struct {
	pool *DnsPool
}

// NewLookup returns a synchronous lookup using the specified DnsPool.
func NewLookup(pool *DnsPool) *Lookup {
	return &Lookup{pool: pool}
}

// LookupAddrs returns the IPv4 and IPv6 addresses of the specified name. It
// returns early with the context's error when the context gets cancelled
// while waiting for a free DNS connection or the answers.
func (l *Lookup) LookupAddrs(ctx context.Context, name string) ([]types.Value, error) {
	type result struct {
		addrs []types.Value
		err   error
	}
	ch := make(chan result, 1) // never block the DNS worker.
	l.pool.ResolveName(ctx, name, func(addrs []types.Value, err error) {
		ch <- result{addrs: addrs, err: err}
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.addrs, res.err
	}
}

// LookupName returns the host name of the specified address, using a PTR
// query.
func (l *Lookup) LookupName(ctx context.Context, addr types.Value) (string, error) {
	type result struct {
		name string
		err  error
	}
	ch := make(chan result, 1)
	l.pool.ResolveAddr(ctx, addr, func(name string, err error) {
		ch <- result{name: name, err: err}
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		return res.name, res.err
	}
}
