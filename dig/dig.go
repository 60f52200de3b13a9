// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package dig

import (
	"context"

	"github.com/siemens/inetaddr/resolver"
	"github.com/siemens/inetaddr/types"

	"github.com/gammazero/workerpool"
	"github.com/thediveo/lxkns/log"
)

// Digger digs the IPv4 and IPv6 addresses of host names and numeric address
// literals and then streams its findings over its “news” channel.
//
// By connecting the news (output) channel of a Digger to the input channel of
// a Verifier the reachability of the addresses dug can automatically be
// verified by pinging them.
type Digger struct {
	resolver *resolver.Resolver
	workers  *workerpool.WorkerPool
	news     chan types.NamedAddress
}

// New returns a new Digger using the specified resolver with a maximum worker
// pool of the specified size as well as a “news stream”. This news channel
// sends NamedAddress elements as they are submitted for digging, as well as
// the outcome(s) of the digs. The news channel gets closed only by
// [Digger.StopWait].
//
// I dunno what Sir Tim, Mick, Phil, and all the others might think of our
// digging here...
func New(size int, r *resolver.Resolver) (*Digger, <-chan types.NamedAddress) {
	news := make(chan types.NamedAddress, size)
	return &Digger{
		resolver: r,
		workers:  workerpool.New(size),
		news:     news,
	}, news
}

// Dig digs the given list of host names and address literals. Intermediate
// and final results are getting sent to the channel returned beforehand by
// New:
//   - first, a NamedAddress without any address for each name,
//   - then, an Unverified NamedAddress for each address dug up,
//   - or an Invalid NamedAddress without any address if the name cannot be
//     resolved.
//
// Please note that the empty name digs up the IPv4 and IPv6 loopback
// addresses.
func (d *Digger) Dig(ctx context.Context, names []string) {
	// Initially send all names to get the ball rolling so that the consumer
	// knows which names are going to be dug up next. We only block if the
	// consumer doesn't consume our news ... and then only until the context
	// gets cancelled.
	for _, name := range names {
		select {
		case d.news <- types.Unresolved(name, nil):
		case <-ctx.Done():
			return
		}
		name := name
		d.workers.Submit(func() { d.dig(ctx, name) })
	}
}

// dig resolves a single name and sends the outcome to the news channel.
func (d *Digger) dig(ctx context.Context, name string) {
	addrs, err := d.resolver.ResolveAll(ctx, name)
	if err != nil {
		log.Debugf("cannot dig %q: %v", name, err)
		select {
		case d.news <- types.Unresolved(name, err):
		case <-ctx.Done():
		}
		return
	}
	for _, addr := range addrs {
		// Avoid blocking endless in case of the context getting cancelled.
		select {
		case d.news <- types.NewNamedAddress(name, addr.Value(), types.Unverified):
		case <-ctx.Done():
			return
		}
	}
}

// StopWait waits for all queued tasks to get processed and then finally closes
// the news channel.
func (d *Digger) StopWait() {
	d.workers.StopWait()
	close(d.news)
}
