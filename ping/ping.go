// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package ping

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/siemens/inetaddr/canonical"
	"github.com/siemens/inetaddr/types"

	"github.com/gammazero/workerpool"
	"github.com/go-ping/ping"
	"github.com/thediveo/lxkns/log"
	"github.com/thediveo/lxkns/ops"
	"github.com/thediveo/lxkns/ops/relations"
	"github.com/thediveo/lxkns/species"
)

// ErrTooManyLosses is the error of Invalid verdicts for addresses that did not
// answer enough echo requests.
var ErrTooManyLosses = errors.New("no replies or too many losses")

// Pinger probes addresses on a size-limited worker pool and streams its
// verdicts (kind of “IT-court TV”).
type Pinger struct {
	count               int           // echo requests per address.
	interval            time.Duration // between echo requests.
	thresholdPercentage uint          // of replies needed for Verified.
	unprivileged        bool          // UDP instead of raw ICMP sockets.
	ttl                 int           // IP TTL/hop limit, zero for the default.
	source              string        // local address to send from, if any.

	netns    relations.Relation // network namespace to ping from, or nil.
	workers  *workerpool.WorkerPool
	courtTV  chan types.QualifiedAddress
	stopOnce sync.Once
}

// PingerOption can be passed to New when creating new Pinger objects.
type PingerOption func(*Pinger)

// New returns a new [Pinger] with at most size concurrent probes, together
// with its verdict channel. Unless configured otherwise, a Pinger sends 3 echo
// requests 1s apart and needs at least 50% of them answered.
func New(size int, options ...PingerOption) (*Pinger, <-chan types.QualifiedAddress) {
	return new(size, size, options...)
}

// new works like New, but with a separate verdict channel buffer size.
func new(workersize int, chansize int, options ...PingerOption) (*Pinger, <-chan types.QualifiedAddress) {
	courtTV := make(chan types.QualifiedAddress, chansize)
	p := &Pinger{
		count:               3,
		interval:            time.Second,
		thresholdPercentage: 50,
		workers:             workerpool.New(workersize),
		courtTV:             courtTV,
	}
	for _, opt := range options {
		opt(p)
	}
	return p, courtTV
}

// InNetworkNamespace pings from inside the network namespace referenced by
// the specified filesystem path, such as "/proc/666/ns/net".
func InNetworkNamespace(netnsref string) PingerOption {
	return func(p *Pinger) {
		p.netns = ops.NewTypedNamespacePath(netnsref, species.CLONE_NEWNET)
	}
}

// WithCount sets the number of echo requests per address.
func WithCount(count uint) PingerOption {
	return func(p *Pinger) {
		p.count = int(count)
	}
}

// WithInterval sets the interval between consecutive echo requests.
func WithInterval(interval time.Duration) PingerOption {
	return func(p *Pinger) {
		p.interval = interval
	}
}

// AsUnprivileged pings using UDP instead of raw ICMP sockets. On Linux this
// requires the net.ipv4.ping_group_range sysctl to include the caller's group.
func AsUnprivileged() PingerOption {
	return func(p *Pinger) {
		p.unprivileged = true
	}
}

// WithTTL sets the IP TTL (IPv4) or hop limit (IPv6) of the echo requests.
func WithTTL(ttl uint8) PingerOption {
	return func(p *Pinger) {
		p.ttl = int(ttl)
	}
}

// WithSource sets the local address to send echo requests from.
func WithSource(addr types.Value) PingerOption {
	return func(p *Pinger) {
		p.source = canonical.Format(addr)
	}
}

// WithThresholdPercentage sets the percentage (0..100) of echo requests that
// must be answered for an address to be Verified. It panics for percentages
// above 100.
func WithThresholdPercentage(threshold uint) PingerOption {
	if threshold > 100 {
		panic(fmt.Errorf("Pinger: threshold must be a percentage between 0 <= threshold <= 100, got: %d",
			threshold))
	}
	return func(p *Pinger) {
		p.thresholdPercentage = threshold
	}
}

// ValidateStream validates the addresses read from ch until ch gets closed.
// The qualities of the incoming addresses are ignored.
func (p *Pinger) ValidateStream(ch <-chan types.QualifiedAddress) {
	p.ValidateStreamContext(context.Background(), ch)
}

// ValidateStreamContext validates the addresses read from ch until ch gets
// closed or ctx is done.
func (p *Pinger) ValidateStreamContext(ctx context.Context, ch <-chan types.QualifiedAddress) {
	for {
		select {
		case qa, ok := <-ch:
			if !ok {
				return
			}
			p.validate(ctx, qa.WithNewQuality(types.Verifying, nil))
		case <-ctx.Done():
			return
		}
	}
}

// Validate submits the specified address for validation. The address first
// shows up on the verdict channel as Verifying, and later with its verdict.
//
// Once ctx is done, pending validations end without sending any verdict; a
// verdict racing with the cancellation may still get through though.
func (p *Pinger) Validate(ctx context.Context, addr types.Value) {
	p.validate(ctx, types.NewQualifiedAddress(addr, types.Verifying))
}

// ValidateQA works like [Pinger.Validate], but keeps the concrete type of the
// passed qualified address, such as a [types.NamedAddress], in the verdicts.
func (p *Pinger) ValidateQA(ctx context.Context, qa types.QualifiedAddress) {
	p.validate(ctx, qa.WithNewQuality(types.Verifying, nil))
}

// validate announces the Verifying qa and then submits the probe; sending
// gives up as soon as ctx is done.
func (p *Pinger) validate(ctx context.Context, qa types.QualifiedAddress) {
	select {
	case p.courtTV <- qa:
	case <-ctx.Done():
		return
	}
	p.workers.Submit(func() {
		// Always limit waiting for the last echo reply.
		timeout := time.Duration(int64(p.interval) * int64(p.count+2))
		stats, err := p.ping(ctx, qa.Addr(), p.count, timeout, false)
		verdict := qa.WithNewQuality(p.judge(stats, err))
		select {
		case p.courtTV <- verdict:
		case <-ctx.Done():
		}
	})
}

// judge returns the quality of an address given its ping statistics.
func (p *Pinger) judge(stats *ping.Statistics, err error) (types.Quality, error) {
	switch {
	case err != nil:
		return types.Invalid, err
	case stats.PacketsRecv < p.count*int(p.thresholdPercentage)/100:
		return types.Invalid, ErrTooManyLosses
	}
	return types.Verified, nil
}

// Reachable synchronously reports whether the specified address answers any
// of up to count echo requests within timeout, stopping at the first reply.
// It bypasses the worker pool and the verdict channel, so it works even after
// StopWait. Reachable makes a Pinger an [identity.Prober].
//
// [identity.Prober]: https://pkg.go.dev/github.com/siemens/inetaddr/identity#Prober
func (p *Pinger) Reachable(ctx context.Context, addr types.Value, timeout time.Duration) bool {
	stats, err := p.ping(ctx, addr, p.count, timeout, true)
	if err != nil {
		log.Debugf("ping %s failed: %v", canonical.FormatZoned(addr), err)
		return false
	}
	return stats.PacketsRecv > 0
}

// ping sends count echo requests to addr and returns the statistics, inside
// the configured network namespace if any. It returns ctx's error when ctx is
// done before pinging finished.
func (p *Pinger) ping(
	ctx context.Context, addr types.Value, count int, timeout time.Duration, firstReply bool,
) (*ping.Statistics, error) {
	if !addr.IsValid() {
		return nil, errors.New("invalid IP address")
	}
	var stats *ping.Statistics
	err := p.inNetns(func() error {
		var err error
		stats, err = p.run(ctx, addr, count, timeout, firstReply)
		return err
	})
	return stats, err
}

// inNetns runs fn in the Pinger's network namespace, if set; otherwise fn
// runs on the caller's OS thread as is.
func (p *Pinger) inNetns(fn func() error) error {
	if p.netns == nil {
		return fn()
	}
	// ops.Execute separates namespace switching errors from fn's result.
	res, err := ops.Execute(func() interface{} { return fn() }, p.netns)
	if err != nil {
		return err
	}
	if fnerr, ok := res.(error); ok {
		return fnerr
	}
	return nil
}

// run carries out the echo requests in the current network namespace.
func (p *Pinger) run(
	ctx context.Context, addr types.Value, count int, timeout time.Duration, firstReply bool,
) (*ping.Statistics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pinger := ping.New("")
	pinger.SetIPAddr(&net.IPAddr{IP: net.IP(addr.Bytes()), Zone: addr.Zone()})
	pinger.SetPrivileged(!p.unprivileged)
	pinger.Count = count
	pinger.Interval = p.interval
	pinger.Timeout = timeout
	if p.ttl > 0 {
		pinger.TTL = p.ttl
	}
	pinger.Source = p.source
	if firstReply {
		pinger.OnRecv = func(*ping.Packet) { pinger.Stop() }
	}
	// Stop pinging as soon as ctx is done; finished ends this watch.
	finished := make(chan struct{})
	defer close(finished)
	go func() {
		select {
		case <-ctx.Done():
			pinger.Stop()
		case <-finished:
		}
	}()
	if err := pinger.Run(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return pinger.Statistics(), nil
}

// StopWait waits for all submitted validations to finish and then closes the
// verdict channel. StopWait can be called multiple times.
func (p *Pinger) StopWait() {
	p.stopOnce.Do(func() {
		p.workers.StopWait()
		close(p.courtTV)
	})
}
