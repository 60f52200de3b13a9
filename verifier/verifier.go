// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package verifier

import (
	"context"

	"github.com/siemens/inetaddr/ping"
	"github.com/siemens/inetaddr/types"
	"github.com/thediveo/lxkns/log"
)

// Verifier verifies the addresses in a stream of named addresses, probing each
// distinct address only once regardless of how many names resolve to it.
type Verifier struct {
	news     chan<- types.NamedAddress
	pinger   *ping.Pinger
	verdicts <-chan types.QualifiedAddress
	cache    *NamedAddressCache
}

// New returns a new Verifier with at most size concurrent probes, together
// with its news channel. The options are passed on to the underlying
// [ping.Pinger], for instance to probe from inside a different network
// namespace.
func New(size int, options ...ping.PingerOption) (*Verifier, <-chan types.NamedAddress) {
	news := make(chan types.NamedAddress, size)
	pinger, verdicts := ping.New(size, options...)
	return &Verifier{
		news:     news,
		pinger:   pinger,
		verdicts: verdicts,
		cache:    NewNamedAddressCache(),
	}, news
}

// Verify consumes the named addresses from in until in is closed, and then
// waits for all outstanding verdicts before closing the news channel. Names
// without an address pass through unchanged.
//
// When ctx gets cancelled, Verify stops consuming and closes the news channel
// as soon as possible, without waiting for outstanding verdicts.
func (v *Verifier) Verify(ctx context.Context, in <-chan types.NamedAddress) {
	relayed := make(chan struct{})
	go func() {
		defer close(relayed)
		v.relayVerdicts(ctx)
	}()
	v.submit(ctx, in)
	v.pinger.StopWait()
	select {
	case <-ctx.Done():
	case <-relayed:
	}
	log.Debugf("verified %d distinct addresses", v.cache.Len())
	close(v.news)
}

// submit hands new addresses to the pinger; addresses already known get their
// current quality from the cache instead.
func (v *Verifier) submit(ctx context.Context, in <-chan types.NamedAddress) {
	for {
		select {
		case na, ok := <-in:
			if !ok {
				return
			}
			if !na.Addr().IsValid() {
				select {
				case v.news <- na:
				case <-ctx.Done():
					return
				}
				continue
			}
			if v.cache.Update(ctx, na, v.news) {
				v.pinger.ValidateQA(ctx, na)
			}
		case <-ctx.Done():
			return
		}
	}
}

// relayVerdicts feeds the pinger's verdicts into the cache, which then fans
// them out to all names waiting for them, until the pinger closes its verdict
// channel.
func (v *Verifier) relayVerdicts(ctx context.Context) {
	for {
		select {
		case verdict, ok := <-v.verdicts:
			if !ok {
				return
			}
			v.cache.Update(ctx, verdict.(types.NamedAddress), v.news)
		case <-ctx.Done():
			return
		}
	}
}
