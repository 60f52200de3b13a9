// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/siemens/inetaddr/config"
	"github.com/siemens/inetaddr/dig"
	"github.com/siemens/inetaddr/dnsworker"
	"github.com/siemens/inetaddr/ping"
	"github.com/siemens/inetaddr/resolver"
	"github.com/siemens/inetaddr/verifier"

	"github.com/gosuri/uilive"
	"github.com/miekg/dns"
)

// DigAndReport digs up the addresses of the specified names and address
// literals, optionally verifies them by pinging, and renders the (live)
// results to w.
func DigAndReport(ctx context.Context, w io.Writer, cfg config.Config, s settings, names []string) error {
	filter, err := newAddressFilter(s.only)
	if err != nil {
		return err
	}

	poolopts := []dnsworker.DnsPoolOption{dnsworker.WithQueryTimeout(cfg.Resolver.Timeout)}
	if cfg.Netns != "" {
		poolopts = append(poolopts, dnsworker.InNetworkNamespace(cfg.Netns))
	}
	dnspool, err := dnsworker.New(ctx, cfg.Resolver.Workers,
		&dns.Client{Net: "udp"}, cfg.Resolver.Server, poolopts...)
	if err != nil {
		return fmt.Errorf("cannot create DNS client pool: %w", err)
	}
	defer dnspool.StopWait()
	r := resolver.New(
		resolver.WithLookup(dnsworker.NewLookup(dnspool)),
		resolver.WithCache(cfg.Resolver.Cache.Size, cfg.Resolver.Cache.TTL),
		resolver.WithLoopbackPolicy(cfg.LoopbackPolicy()))
	defer r.Close()

	var rev *reverser
	if s.reverse {
		rev = newReverser(ctx, r)
		defer rev.Wait()
	}

	// Create an empty (concurrency-safe) result map with named-and-qualified
	// addresses and immediately fire off the rendering goroutine. The rendering
	// will only stop after tracking has finished because the result stream
	// channel has been closed. We then render a final update and end rendering,
	// signalling the end of our activities via renderingDone.
	namaddrs := dig.NewNamedAddressesMap()
	trackingDone := make(chan struct{})
	renderingDone := make(chan struct{})

	go func() {
		// Avoid uilive's background updating mode and instead explicitly flush
		// after each complete rendering, so the terminal output doesn't
		// flicker.
		term := uilive.New()
		term.Out = w
		renderer := newRenderer(term, s.spinnerInterval, rev)
		renderer.Indentation = int(s.indentation)
		defer func() {
			if rev != nil {
				// Kick off reverse lookups for any late addresses and give
				// them their chance to show up in the final rendering.
				renderData(term, renderer, namaddrs)
				rev.Wait()
			}
			renderData(term, renderer, namaddrs)
			renderer.Stop()
			close(renderingDone)
		}()
		renderData(term, renderer, namaddrs)
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				renderData(term, renderer, namaddrs)
			case <-trackingDone:
				return
			}
		}
	}()

	// Now lets put the required processing elements and their plumbing in
	// place.
	//
	//   - Digger producing IP addresses from a list of names and literals.
	//   - optional Verifier consuming the IPs and checking them, producing
	//     "verdicts".
	//   - optional filter dropping addresses outside the wanted ranges.
	//   - NamedAddressMap consuming the outcome.
	//
	// Rendering is done on the information collected by the NamedAddressMap.
	digger, news := dig.New(cfg.Resolver.Workers, r)
	switch {
	case s.ping && s.quick:
		pinger, _ := ping.New(1, pingOptions(cfg)...)
		defer pinger.StopWait()
		news = quickProbe(ctx, filter.Filter(ctx, news), pinger, cfg.Ping.Timeout, cfg.Resolver.Workers)
	case s.ping:
		verifier, verdicts := verifier.New(cfg.Resolver.Workers, pingOptions(cfg)...)
		go verifier.Verify(ctx, filter.Filter(ctx, news))
		news = verdicts
	default:
		news = filter.Filter(ctx, news)
	}
	go func() {
		_ = namaddrs.Track(ctx, news)
		close(trackingDone)
	}()

	go func() {
		digger.Dig(ctx, names)
		digger.StopWait()
	}()
	<-renderingDone

	return ctx.Err()
}

// pingOptions returns the pinger options corresponding with the specified
// configuration.
func pingOptions(cfg config.Config) []ping.PingerOption {
	opts := []ping.PingerOption{
		ping.WithCount(cfg.Ping.Count),
		ping.WithInterval(cfg.Ping.Interval),
		ping.WithThresholdPercentage(cfg.Ping.Threshold),
	}
	if cfg.Ping.Unprivileged {
		opts = append(opts, ping.AsUnprivileged())
	}
	if cfg.Ping.TTL != 0 {
		opts = append(opts, ping.WithTTL(cfg.Ping.TTL))
	}
	if cfg.Netns != "" {
		opts = append(opts, ping.InNetworkNamespace(cfg.Netns))
	}
	return opts
}

// renderData get the current named+verified address data and then renders (and
// flushes) it to the terminal.
func renderData(term *uilive.Writer, r *renderer, data *dig.NamedAddressesMap) {
	r.Render(data.Get())
	_ = term.Flush()
}
