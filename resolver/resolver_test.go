// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolver

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/siemens/inetaddr/literal"
	"github.com/siemens/inetaddr/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
	. "github.com/thediveo/success"
)

// countingLookup answers from fixed tables, counting the lookups.
type countingLookup struct {
	addrs map[string][]types.Value
	names map[types.Value]string
	gate  chan struct{} // if non-nil, address lookups block until closed.

	addrCalls atomic.Int32
	nameCalls atomic.Int32
}

func (l *countingLookup) LookupAddrs(ctx context.Context, name string) ([]types.Value, error) {
	l.addrCalls.Add(1)
	if l.gate != nil {
		select {
		case <-l.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	addrs, ok := l.addrs[name]
	if !ok {
		return nil, errors.New("NXDOMAIN")
	}
	return append([]types.Value(nil), addrs...), nil
}

func (l *countingLookup) LookupName(ctx context.Context, v types.Value) (string, error) {
	l.nameCalls.Add(1)
	name, ok := l.names[v]
	if !ok {
		return "", errors.New("no PTR")
	}
	return name, nil
}

// newResolver returns a new Resolver that gets closed after the current spec.
func newResolver(options ...Option) *Resolver {
	r := New(options...)
	DeferCleanup(r.Close)
	return r
}

var _ = Describe("resolver", func() {

	var lookup *countingLookup
	ctx := context.Background()

	BeforeEach(func() {
		lookup = &countingLookup{
			addrs: map[string][]types.Value{
				"foo.example": {
					literal.MustParse("192.0.2.1"),
					literal.MustParse("2001:db8::1"),
				},
				"empty.example": {},
			},
			names: map[types.Value]string{
				literal.MustParse("192.0.2.1"): "foo.example",
			},
		}
	})

	Context("parsing numeric literals", func() {

		It("parses without lookups", func() {
			r := newResolver(WithLookup(lookup))
			Expect(r.ParseNumeric("192.0.2.1")).To(Equal(types.V4From(192, 0, 2, 1)))
			Expect(r.ParseNumeric("::ffff:192.0.2.1")).To(Equal(types.V4From(192, 0, 2, 1)))
			Expect(lookup.addrCalls.Load()).To(BeZero())
		})

		It("fails with illegal argument errors", func() {
			r := newResolver(WithLookup(lookup))
			_, err := r.ParseNumeric("foo.example")
			Expect(err).To(MatchError(types.ErrIllegalArgument))
			Expect(err).To(MatchError(types.ErrParse))
			var perr *types.ParseError
			Expect(errors.As(err, &perr)).To(BeTrue())
			Expect(perr.Input).To(Equal("foo.example"))
			Expect(lookup.addrCalls.Load()).To(BeZero())
		})

		DescribeTable("parses the empty literal into the loopback address",
			func(policy LoopbackPolicy, expected types.Value) {
				r := newResolver(WithLoopbackPolicy(policy))
				Expect(r.ParseNumeric("")).To(Equal(expected))
				Expect(r.Loopback().Value()).To(Equal(expected))
			},
			Entry(nil, PreferIPv4, types.Loopback4()),
			Entry(nil, PreferIPv6, types.Loopback6()),
		)

		It("asks the system only once", func() {
			oldHasLoopback := hasLoopback
			DeferCleanup(func() {
				hasLoopback = oldHasLoopback
				systemLoopbackOnce = sync.Once{}
			})
			systemLoopbackOnce = sync.Once{}
			var probes atomic.Int32
			hasLoopback = func(network, addr string) bool {
				probes.Add(1)
				return network == "tcp6"
			}
			r := newResolver()
			Expect(r.ParseNumeric("")).To(Equal(types.Loopback6()))
			Expect(r.Loopback().PeekDisplayName()).To(Equal(IP6LocalhostName))
			Expect(probes.Load()).To(Equal(int32(2)))
		})

		It("always returns some loopback address for the system policy", func() {
			v := Successful(newResolver(WithLoopbackPolicy(PreferSystem)).ParseNumeric(""))
			Expect(v.Equal(types.Loopback4()) || v.Equal(types.Loopback6())).To(BeTrue())
		})

	})

	Context("resolving", func() {

		It("resolves the empty name into both loopback identities", func() {
			r := newResolver(WithLookup(lookup))
			ids := Successful(r.ResolveAll(ctx, ""))
			Expect(ids).To(HaveLen(2))
			Expect(ids).To(ConsistOf(
				And(
					HaveField("PeekDisplayName()", LocalhostName),
					HaveField("IsLoopback()", BeTrue()),
					HaveField("Family()", types.V4),
				),
				And(
					HaveField("PeekDisplayName()", IP6LocalhostName),
					HaveField("IsLoopback()", BeTrue()),
					HaveField("Family()", types.V6),
				),
			))

			By("mutating the returned slice")
			ids[0] = nil
			ids = ids[:1]
			again := Successful(r.ResolveAll(ctx, ""))
			Expect(again).To(HaveLen(2))
			Expect(again).To(HaveEach(Not(BeNil())))
			Expect(lookup.addrCalls.Load()).To(BeZero())
		})

		It("resolves literals without lookups, but names them lazily", func() {
			r := newResolver(WithLookup(lookup))
			ids := Successful(r.ResolveAll(ctx, "192.0.2.1"))
			Expect(ids).To(HaveLen(1))
			_, named := ids[0].CachedName()
			Expect(named).To(BeFalse())
			Expect(lookup.addrCalls.Load()).To(BeZero())

			Expect(ids[0].DisplayName(ctx)).To(Equal("foo.example"))
			Expect(lookup.nameCalls.Load()).To(Equal(int32(1)))
		})

		It("names loopback literals from the hosts table", func() {
			r := newResolver(WithLookup(lookup))
			id := Successful(r.ResolveOne(ctx, "[::1]"))
			Expect(id.DisplayName(ctx)).To(Equal(IP6LocalhostName))
			Expect(id.String()).To(Equal("ip6-localhost/::1"))
			Expect(lookup.nameCalls.Load()).To(BeZero())
		})

		It("never looks up bracketed non-literals", func() {
			r := newResolver(WithLookup(lookup))
			_, err := r.ResolveAll(ctx, "[foo.example]")
			Expect(err).To(MatchError(types.ErrResolution))
			Expect(lookup.addrCalls.Load()).To(BeZero())
		})

		It("resolves names, naming their identities", func() {
			r := newResolver(WithLookup(lookup))
			ids := Successful(r.ResolveAll(ctx, "foo.example"))
			Expect(ids).To(HaveLen(2))
			for _, id := range ids {
				Expect(id.PeekDisplayName()).To(Equal("foo.example"))
			}
			Expect(ids[0].Value()).To(Equal(literal.MustParse("192.0.2.1")))

			first := Successful(r.ResolveOne(ctx, "foo.example"))
			Expect(first.Equal(ids[0])).To(BeTrue())
			Expect(first).NotTo(BeIdenticalTo(ids[0]))
			Expect(lookup.addrCalls.Load()).To(Equal(int32(1)), "should have hit the cache")
		})

		It("resolves the hosts table case-insensitively", func() {
			r := newResolver(WithLookup(lookup), WithHosts(map[string][]types.Value{
				"gateway": {literal.MustParse("192.0.2.254")},
			}))
			Expect(r.ResolveOne(ctx, "LocalHost")).To(HaveField("Value()", types.Loopback4()))
			Expect(r.ResolveOne(ctx, "Gateway")).To(HaveField("Value()", literal.MustParse("192.0.2.254")))
			Expect(r.LookupName(ctx, literal.MustParse("192.0.2.254"))).To(Equal("gateway"))
			Expect(r.LookupName(ctx, literal.MustParse("fe80::1"))).Error().To(HaveOccurred())
			Expect(lookup.addrCalls.Load()).To(BeZero())
		})

		It("resolves the empty name into the policy's loopback identity", func() {
			r := newResolver(WithLookup(lookup), WithLoopbackPolicy(PreferIPv6))
			id := Successful(r.ResolveOne(ctx, ""))
			Expect(id.Value()).To(Equal(types.Loopback6()))
			Expect(id.PeekDisplayName()).To(Equal(IP6LocalhostName))
		})

		It("reports and caches resolution failures", func() {
			r := newResolver(WithLookup(lookup))
			for _, name := range []string{"nowhere.example", "empty.example"} {
				_, err := r.ResolveAll(ctx, name)
				Expect(err).To(MatchError(types.ErrResolution))
				var rerr *types.ResolutionError
				Expect(errors.As(err, &rerr)).To(BeTrue())
				Expect(rerr.Name).To(Equal(name))
				Expect(r.ResolveOne(ctx, name)).Error().To(MatchError(types.ErrResolution))
			}
			Expect(lookup.addrCalls.Load()).To(Equal(int32(2)))
		})

		DescribeTable("rejects invalid numeric IPv4 names",
			func(name string) {
				r := newResolver()
				Expect(r.ResolveAll(ctx, name)).Error().To(MatchError(types.ErrResolution))
				Expect(r.ResolveOne(ctx, name)).Error().To(MatchError(types.ErrResolution))
			},
			Entry(nil, "[127.0.0.1]"),
			Entry(nil, "1.2.3.4."),
			Entry(nil, "1.2.3.4hello"),
			Entry(nil, "256.2.3.4"),
			Entry(nil, "1.256.3.4"),
			Entry(nil, "1.2.256.4"),
			Entry(nil, "1.2.3.256"),
			Entry(nil, "1.2.3"),
			Entry(nil, "1.2"),
			Entry(nil, "1"),
			Entry(nil, "1234"),
			Entry(nil, "0"),
			Entry(nil, "0x1.0x2.0x3.0x4"),
			Entry(nil, "0x7f.0x00.0x00.0x01"),
			Entry(nil, "7f.0.0.1"),
			Entry(nil, "0256.00.00.01"),
			Entry(nil, "-1.0.0.1"),
			Entry(nil, "1.-1.0.1"),
			Entry(nil, "1.0.-1.1"),
			Entry(nil, "1.0.0.-1"),
		)

		It("fails without lookup", func() {
			r := newResolver()
			Expect(r.ResolveAll(ctx, "foo.example")).Error().To(MatchError(types.ErrResolution))
			Expect(r.ResolveOne(ctx, "localhost")).To(HaveField("Value()", types.Loopback4()))
		})

		It("forgets cached results", func() {
			r := newResolver(WithLookup(lookup), WithCache(10, 100*time.Millisecond))
			_ = Successful(r.ResolveAll(ctx, "foo.example"))
			_ = Successful(r.ResolveAll(ctx, "foo.example"))
			Expect(lookup.addrCalls.Load()).To(Equal(int32(1)))
			Eventually(func() int32 {
				_ = Successful(r.ResolveAll(ctx, "foo.example"))
				return lookup.addrCalls.Load()
			}).Within(2 * time.Second).ProbeEvery(50 * time.Millisecond).Should(Equal(int32(2)))
		})

		It("doesn't cache when told so", func() {
			r := newResolver(WithLookup(lookup), WithCache(0, 0))
			_ = Successful(r.ResolveAll(ctx, "foo.example"))
			_ = Successful(r.ResolveAll(ctx, "foo.example"))
			Expect(lookup.addrCalls.Load()).To(Equal(int32(2)))
		})

		It("doesn't cache cancelled lookups", func() {
			lookup.gate = make(chan struct{})
			r := newResolver(WithLookup(lookup))
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			Expect(r.ResolveAll(cctx, "foo.example")).Error().To(MatchError(context.Canceled))
			close(lookup.gate)
			Expect(r.ResolveAll(ctx, "foo.example")).To(HaveLen(2))
		})

		It("constructs identities from bytes", func() {
			r := newResolver(WithLookup(lookup))
			_, err := r.FromBytes([]byte{1, 2, 3}, "")
			Expect(err).To(MatchError(types.ErrInvalidLength))

			id := Successful(r.FromBytes([]byte{192, 0, 2, 1}, "given.example"))
			Expect(id.DisplayName(ctx)).To(Equal("given.example"))
			Expect(lookup.nameCalls.Load()).To(BeZero())

			id = Successful(r.FromBytes([]byte{192, 0, 2, 1}, ""))
			Expect(id.DisplayName(ctx)).To(Equal("foo.example"))

			mapped := Successful(r.FromBytes([]byte{10: 0xff, 11: 0xff, 12: 192, 13: 0, 14: 2, 15: 1}, ""))
			Expect(mapped.Family()).To(Equal(types.V6))
		})

	})

	When("used concurrently", func() {

		BeforeEach(func() {
			goodgos := Goroutines()
			DeferCleanup(func() {
				Eventually(Goroutines).WithTimeout(2 * time.Second).WithPolling(100 * time.Millisecond).
					ShouldNot(HaveLeaked(goodgos))
			})
		})

		It("stops cache expiry when closed", func() {
			r := New(WithLookup(lookup), WithCache(10, time.Minute))
			_ = Successful(r.ResolveAll(ctx, "foo.example"))
			r.Close()
			r.Close()
			Expect(r.ResolveAll(ctx, "foo.example")).To(HaveLen(2))
			Expect(lookup.addrCalls.Load()).To(Equal(int32(2)))
		})

		It("closes without a cache", func() {
			r := New(WithCache(0, 0))
			Expect(r.Close).NotTo(Panic())
		})

		It("coalesces lookups of the same name", func() {
			lookup.gate = make(chan struct{})
			r := newResolver(WithLookup(lookup))
			const callers = 16
			var wg sync.WaitGroup
			for i := 0; i < callers; i++ {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					ids, err := r.ResolveAll(ctx, "foo.example")
					Expect(err).NotTo(HaveOccurred())
					Expect(ids).To(HaveLen(2))
				}()
			}
			Eventually(lookup.addrCalls.Load).Should(Equal(int32(1)))
			close(lookup.gate)
			wg.Wait()
			Expect(lookup.addrCalls.Load()).To(Equal(int32(1)))
		})

	})

})

var _ = Describe("loopback policies", func() {

	DescribeTable("parses",
		func(name string, expected LoopbackPolicy) {
			policy := Successful(ParseLoopbackPolicy(name))
			Expect(policy).To(Equal(expected))
		},
		Entry(nil, "", PreferSystem),
		Entry(nil, "system", PreferSystem),
		Entry(nil, "IPv4", PreferIPv4),
		Entry(nil, " ipv6 ", PreferIPv6),
	)

	It("rejects unknown policies", func() {
		Expect(ParseLoopbackPolicy("ipv5")).Error().To(HaveOccurred())
		Expect(LoopbackPolicy(42).String()).To(Equal("LoopbackPolicy(42)"))
		Expect(PreferIPv6.String()).To(Equal("ipv6"))
	})

})
