// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package canonical

import (
	"math/rand"

	"github.com/siemens/inetaddr/literal"
	"github.com/siemens/inetaddr/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

var _ = Describe("canonical formatting", func() {

	DescribeTable("renders addresses",
		func(s string, expected string) {
			Expect(Format(literal.MustParse(s))).To(Equal(expected))
		},
		Entry(nil, "127.0.0.1", "127.0.0.1"),
		Entry(nil, "0177.00.00.01", "177.0.0.1"),
		Entry(nil, "0.0.0.0", "0.0.0.0"),
		Entry(nil, "255.255.255.255", "255.255.255.255"),
		Entry(nil, "::", "::"),
		Entry(nil, "0:0:0:0:0:0:0.0.0.0", "::"),
		Entry(nil, "::1", "::1"),
		Entry(nil, "1::0", "1::"),
		Entry(nil, "1:0:0:0:0:0:0:1", "1::1"),
		Entry("no compression of single zero hextets", "1:0:2:3:4:5:6:7", "1:0:2:3:4:5:6:7"),
		Entry("leftmost of equal runs", "1:0:0:2:0:0:3:4", "1::2:0:0:3:4"),
		Entry("longest run wins", "1:0:0:2:0:0:0:3", "1:0:0:2::3"),
		Entry("leftmost longest run", "0:0:0:0:0:1:0:1", "::1:0:1"),
		Entry(nil, "0:0:1:0:0:1:0:0", "::1:0:0:1:0:0"),
		Entry("dotted tails render as hex", "::1.2.3.4", "::102:304"),
		Entry(nil, "FFFF:FFFF:FFFF:FFFF:FFFF:FFFF:255.255.255.255",
			"ffff:ffff:ffff:ffff:ffff:ffff:ffff:ffff"),
		Entry(nil, "fe80::211:25ff:fef8:7cb2", "fe80::211:25ff:fef8:7cb2"),
		Entry(nil, "1:203:405:607:809:a0b:c0d:e0f", "1:203:405:607:809:a0b:c0d:e0f"),
		Entry(nil, "10:2030:4050:6070:8090:a0b0:c0d0:e0f0", "10:2030:4050:6070:8090:a0b0:c0d0:e0f0"),
		Entry("strips leading zeros", "2001:0db8:0000:0000:0000:0000:0000:0001", "2001:db8::1"),
		Entry("mapped unwraps", "::ffff:192.0.2.1", "192.0.2.1"),
	)

	It("renders zones only when asked to", func() {
		v := literal.MustParse("fe80::1%eth0")
		Expect(Format(v)).To(Equal("fe80::1"))
		Expect(FormatZoned(v)).To(Equal("fe80::1%eth0"))
		Expect(FormatZoned(literal.MustParse("fe80::1"))).To(Equal("fe80::1"))
	})

	It("renders the zero value", func() {
		Expect(Format(types.Value{})).To(Equal("invalid IP"))
		Expect(Append([]byte("x"), types.Value{})).To(Equal([]byte("x")))
	})

	It("appends", func() {
		Expect(string(Append([]byte("addr="), types.Loopback6()))).To(Equal("addr=::1"))
	})

	It("round-trips random addresses", func() {
		rng := rand.New(rand.NewSource(42))
		for i := 0; i < 10000; i++ {
			var b [16]byte
			_, _ = rng.Read(b[:])
			// sprinkle zero hextets so that compression gets exercised.
			for h := 0; h < 8; h++ {
				if rng.Intn(2) == 0 {
					b[2*h], b[2*h+1] = 0, 0
				}
			}
			v := types.V6From(b)
			if v.IsV4Mapped() {
				continue
			}
			Expect(literal.Parse(Format(v))).To(Equal(v), "for %v", b)

			v4 := types.V4From(b[0], b[1], b[2], b[3])
			Expect(literal.Parse(Format(v4))).To(Equal(v4))
		}
	})

	DescribeTable("reverse names",
		func(s string, expected string) {
			Expect(Reverse(literal.MustParse(s))).To(Equal(expected))
		},
		Entry(nil, "192.0.2.1", "1.2.0.192.in-addr.arpa."),
		Entry(nil, "2001:db8::1",
			"1.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.0.8.b.d.0.1.0.0.2.ip6.arpa."),
	)

	It("has no reverse name for the zero value", func() {
		Expect(Reverse(types.Value{})).Error().To(HaveOccurred())
		_ = Successful(Reverse(types.Loopback4()))
	})

})
