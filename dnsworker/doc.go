/*
Package dnsworker runs DNS queries on a small pool of long-lived client
connections to a single DNS server.

A [DnsPool] dials all its connections upfront and runs each submitted task on
the next idle connection, so the number of queries in flight never exceeds
the pool size. Besides generic tasks submitted via [DnsPool.Submit], the pool
resolves names into their IPv4 and IPv6 addresses (A and AAAA queries, sent
one after another) and addresses into names (PTR queries).

	pool, err := dnsworker.New(ctx, 4, &dns.Client{Net: "udp"}, "127.0.0.1:53",
	    dnsworker.WithQueryTimeout(2*time.Second))
	if err != nil {
	    ...
	}
	defer pool.StopWait()
	pool.ResolveName(ctx, "foo.example", func(addrs []types.Value, err error) {
	    ...
	})

[Lookup] wraps a pool into the synchronous lookup collaborator of
[resolver.Resolver] and [identity.Address]:

	r := resolver.New(resolver.WithLookup(dnsworker.NewLookup(pool)))

[resolver.Resolver]: https://pkg.go.dev/github.com/siemens/inetaddr/resolver#Resolver
[identity.Address]: https://pkg.go.dev/github.com/siemens/inetaddr/identity#Address
*/
package dnsworker
