// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"

	"github.com/siemens/inetaddr/literal"
	"github.com/siemens/inetaddr/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

func named(name, addr string) types.NamedAddress {
	na := &types.NamedAddressValue{Hostname: name}
	if addr != "" {
		na.Address = literal.MustParse(addr)
	}
	return na
}

var _ = Describe("address filter", func() {

	It("returns no filter for no specs", func() {
		Expect(newAddressFilter(nil)).To(BeNil())
		var f *addressFilter
		Expect(f.Allows(named("foo", "10.0.0.1"))).To(BeTrue())
	})

	DescribeTable("rejects invalid specs",
		func(spec string) {
			Expect(newAddressFilter([]string{spec})).Error().To(HaveOccurred())
		},
		Entry(nil, "10.0.0.0/33"),
		Entry(nil, "10.0.0.9-10.0.0.1"),
		Entry(nil, "010.0.0.1.2"),
		Entry(nil, "::g"),
	)

	DescribeTable("filters addresses",
		func(addr string, allowed bool) {
			f := Successful(newAddressFilter([]string{
				"10.1.2.3/8", "192.0.2.1-192.0.2.9", "2001:db8::1", " fe80::/10 ",
			}))
			Expect(f.Allows(named("foo", addr))).To(Equal(allowed))
		},
		Entry(nil, "10.255.0.1", true),
		Entry(nil, "11.0.0.1", false),
		Entry(nil, "192.0.2.5", true),
		Entry(nil, "192.0.2.10", false),
		Entry(nil, "2001:db8::1", true),
		Entry(nil, "2001:db8::2", false),
		Entry(nil, "fe80::1%eth0", true),
		Entry(nil, "", true),
	)

	It("filters a stream", func(ctx context.Context) {
		f := Successful(newAddressFilter([]string{"127.0.0.0/8"}))
		in := make(chan types.NamedAddress, 4)
		in <- named("localhost", "")
		in <- named("localhost", "127.0.0.1")
		in <- named("localhost", "::1")
		close(in)
		var names []string
		for na := range f.Filter(ctx, in) {
			names = append(names, na.Name()+"/"+na.Addr().Family().String())
		}
		Expect(names).To(HaveLen(2))
		Expect(names[1]).To(Equal("localhost/" + types.V4.String()))
	})

})
