// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package dnsworker

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/siemens/inetaddr/canonical"
	"github.com/siemens/inetaddr/types"

	"github.com/gammazero/workerpool"
	"github.com/miekg/dns"
	"github.com/thediveo/lxkns/log"
	"github.com/thediveo/lxkns/ops"
	"github.com/thediveo/lxkns/ops/relations"
	"github.com/thediveo/lxkns/species"
	"go4.org/netipx"
)

// ErrNoAnswers is returned when a DNS query succeeds but yields no usable
// answers.
var ErrNoAnswers = errors.New("no answers")

// DnsPool is a size-limited pool of DNS client connections to a single DNS
// server, with one worker goroutine per connection.
type DnsPool struct {
	netns   relations.Relation // network namespace to dial in, or nil.
	timeout time.Duration      // per query, or zero for the client's default.
	workers *workerpool.WorkerPool
	conns   chan *dns.Conn // idle connections.
}

// DnsPoolOption can be passed to New when creating new [DnsPool] objects.
type DnsPoolOption func(*DnsPool)

// New dials size connections to the DNS server at addr using the specified
// client, and returns a pool running DNS tasks on these connections. ctx only
// governs dialing; task submitters capture their own contexts.
//
// Use the [InNetworkNamespace] option to dial the connections from inside the
// network namespace referenced by a filesystem path such as
// "/proc/666/ns/net". The connections then stay attached to that namespace.
func New(ctx context.Context, size int, dnsclnt *dns.Client, addr string, options ...DnsPoolOption) (*DnsPool, error) {
	p := &DnsPool{
		workers: workerpool.New(size),
		conns:   make(chan *dns.Conn, size),
	}
	for _, opt := range options {
		opt(p)
	}
	dial := func() interface{} {
		for i := 0; i < size; i++ {
			conn, err := dnsclnt.DialContext(ctx, addr)
			if err != nil {
				return err
			}
			p.conns <- conn
		}
		return nil
	}
	var dialerr interface{}
	var err error
	if p.netns != nil {
		dialerr, err = ops.Execute(dial, p.netns)
	} else {
		dialerr = dial()
	}
	if err == nil && dialerr != nil {
		err = dialerr.(error)
	}
	if err != nil {
		p.workers.Stop()
		p.closeConns()
		return nil, err
	}
	log.Debugf("dialed %d DNS connections to %s", size, addr)
	return p, nil
}

// InNetworkNamespace dials the pool's connections inside the network
// namespace referenced by the specified filesystem path.
func InNetworkNamespace(netnsref string) DnsPoolOption {
	return func(p *DnsPool) {
		p.netns = ops.NewTypedNamespacePath(netnsref, species.CLONE_NEWNET)
	}
}

// WithQueryTimeout limits how long a single DNS query may take.
func WithQueryTimeout(timeout time.Duration) DnsPoolOption {
	return func(p *DnsPool) {
		p.timeout = timeout
	}
}

// Submit enqueues a task to be run on the next idle connection.
func (p *DnsPool) Submit(task func(conn *dns.Conn)) {
	p.workers.Submit(func() {
		conn := <-p.conns
		defer func() { p.conns <- conn }()
		task(conn)
	})
}

// ResolveName queries the A and then the AAAA records of name and calls fn
// exactly once with all addresses found, or with an error. Not finding any
// address at all counts as an error, wrapping [ErrNoAnswers].
//
// Cancelling ctx fails the lookups still waiting to be sent.
func (p *DnsPool) ResolveName(ctx context.Context, name string, fn func([]types.Value, error)) {
	p.Submit(func(conn *dns.Conn) {
		var addrs []types.Value
		for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
			r, err := p.exchange(ctx, conn, dns.Fqdn(name), qtype)
			if err != nil {
				fn(nil, err)
				return
			}
			addrs = appendAddrs(addrs, r.Answer)
		}
		if len(addrs) == 0 {
			fn(nil, fmt.Errorf("query for %q: %w", name, ErrNoAnswers))
			return
		}
		fn(addrs, nil)
	})
}

// appendAddrs appends the addresses from the A and AAAA records in rrs.
func appendAddrs(addrs []types.Value, rrs []dns.RR) []types.Value {
	for _, rr := range rrs {
		var ip net.IP
		switch rr := rr.(type) {
		case *dns.A:
			ip = rr.A
		case *dns.AAAA:
			ip = rr.AAAA
		default:
			continue
		}
		if addr, ok := valueOf(ip); ok {
			addrs = append(addrs, addr)
		}
	}
	return addrs
}

// ResolveAddr queries the PTR record of the specified address and calls fn
// with the first host name found, without the trailing dot, or with an error.
func (p *DnsPool) ResolveAddr(ctx context.Context, addr types.Value, fn func(string, error)) {
	p.Submit(func(conn *dns.Conn) {
		arpa, err := canonical.Reverse(addr)
		if err != nil {
			fn("", err)
			return
		}
		r, err := p.exchange(ctx, conn, arpa, dns.TypePTR)
		if err != nil {
			fn("", err)
			return
		}
		for _, rr := range r.Answer {
			if ptr, ok := rr.(*dns.PTR); ok {
				fn(strings.TrimSuffix(ptr.Ptr, "."), nil)
				return
			}
		}
		fn("", fmt.Errorf("query for %q: %w", arpa, ErrNoAnswers))
	})
}

// exchange sends a single question over conn, unless ctx is already done.
// Responses other than NOERROR turn into errors.
func (p *DnsPool) exchange(ctx context.Context, conn *dns.Conn, qname string, qtype uint16) (*dns.Msg, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	msg := &dns.Msg{}
	msg.SetQuestion(qname, qtype)
	dnsclnt := dns.Client{Timeout: p.timeout}
	r, rtt, err := dnsclnt.ExchangeWithConn(msg, conn)
	if err != nil {
		return nil, err
	}
	log.Debugf("%s %s: %s in %s",
		dns.TypeToString[qtype], qname, dns.RcodeToString[r.Rcode], rtt)
	if r.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("query for %q failed: %s", qname, dns.RcodeToString[r.Rcode])
	}
	return r, nil
}

// valueOf returns the address value of an A/AAAA answer, unmapping
// IPv4-mapped IPv6 addresses.
func valueOf(ip net.IP) (types.Value, bool) {
	addr, ok := netipx.FromStdIP(ip)
	if !ok {
		return types.Value{}, false
	}
	if addr.Is4() {
		return types.V4From4(addr.As4()), true
	}
	return types.V6From(addr.As16()), true
}

// StopWait waits for all submitted tasks to finish, and then closes the
// pool's connections.
func (p *DnsPool) StopWait() {
	p.workers.StopWait()
	p.closeConns()
}

func (p *DnsPool) closeConns() {
	for {
		select {
		case conn := <-p.conns:
			_ = conn.Close()
		default:
			return
		}
	}
}
