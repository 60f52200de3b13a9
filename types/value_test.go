// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

var _ = Describe("address values", func() {

	It("constructs from bytes", func() {
		v4 := Successful(FromBytes([]byte{192, 0, 2, 1}))
		Expect(v4.Family()).To(Equal(V4))
		Expect(v4.Len()).To(Equal(4))
		Expect(v4.Bytes()).To(Equal([]byte{192, 0, 2, 1}))
		Expect(v4.Equal(V4From(192, 0, 2, 1))).To(BeTrue())

		b := make([]byte, 16)
		b[15] = 1
		v6 := Successful(FromBytes(b))
		Expect(v6.Family()).To(Equal(V6))
		Expect(v6.Equal(Loopback6())).To(BeTrue())
		b[15] = 2
		Expect(v6.At(15)).To(Equal(byte(1)), "must copy the bytes")
	})

	DescribeTable("rejects invalid byte lengths",
		func(n int) {
			_, err := FromBytes(make([]byte, n))
			Expect(err).To(MatchError(ErrInvalidLength))
			var lerr *LengthError
			Expect(err).To(BeAssignableToTypeOf(lerr))
		},
		Entry("nil", 0),
		Entry("3 bytes", 3),
		Entry("5 bytes", 5),
		Entry("15 bytes", 15),
		Entry("17 bytes", 17),
	)

	It("keeps IPv4-mapped bytes as IPv6", func() {
		v := Successful(FromBytes([]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff, 127, 0, 0, 1}))
		Expect(v.Is6()).To(BeTrue())
		Expect(v.IsV4Mapped()).To(BeTrue())
		Expect(v.Equal(Loopback4())).To(BeFalse())
		Expect(v.Unmap()).To(Equal(Loopback4()))
		Expect(Loopback6().Unmap()).To(Equal(Loopback6()))
	})

	It("hands out fresh byte copies", func() {
		v := V4From(10, 0, 0, 1)
		b := v.Bytes()
		b[0] = 42
		Expect(v.At(0)).To(Equal(byte(10)))
	})

	It("panics on out of range byte access", func() {
		Expect(func() { V4From(1, 2, 3, 4).At(4) }).To(Panic())
		Expect(func() { Loopback6().At(15) }).NotTo(Panic())
	})

	It("ignores zones for equality and hashing", func() {
		a := Loopback6().WithZone("eth0")
		b := Loopback6().WithZone("42")
		Expect(a.Equal(b)).To(BeTrue())
		Expect(a.Hash()).To(Equal(b.Hash()))
		Expect(a).NotTo(Equal(b))
		Expect(a.Unzoned()).To(Equal(b.Unzoned()))
	})

	It("distinguishes families", func() {
		Expect(V4From(0, 0, 0, 0).Equal(V6From([16]byte{}))).To(BeFalse())
		Expect(V4From(0, 0, 0, 0).Hash()).NotTo(Equal(V6From([16]byte{}).Hash()))
		Expect(V4From(1, 2, 3, 4).Hash()).NotTo(Equal(V4From(1, 2, 3, 5).Hash()))
	})

	It("supports zones on IPv6 only", func() {
		Expect(V4From(1, 2, 3, 4).WithZone("eth0").Zone()).To(BeEmpty())
		v := Loopback6().WithZone("7")
		Expect(v.Zone()).To(Equal("7"))
		id, ok := v.ScopeID()
		Expect(ok).To(BeTrue())
		Expect(id).To(Equal(uint32(7)))
		_, ok = Loopback6().WithZone("eth0").ScopeID()
		Expect(ok).To(BeFalse())
		_, ok = Loopback6().ScopeID()
		Expect(ok).To(BeFalse())
	})

	It("has an invalid zero value", func() {
		var v Value
		Expect(v.IsValid()).To(BeFalse())
		Expect(v.Family()).To(Equal(InvalidFamily))
		Expect(v.Bytes()).To(BeEmpty())
		Expect(InvalidFamily.String()).To(Equal("invalid"))
		Expect(V4.String()).To(Equal("IPv4"))
		Expect(V6.String()).To(Equal("IPv6"))
	})

	It("accesses hextets and fixed-size arrays", func() {
		v := V6From([16]byte{0x20, 0x01, 0x0d, 0xb8, 15: 1})
		Expect(v.Hextet(0)).To(Equal(uint16(0x2001)))
		Expect(v.Hextet(1)).To(Equal(uint16(0x0db8)))
		Expect(v.As4()).To(Equal([4]byte{}))
		Expect(V4From(1, 2, 3, 4).As4()).To(Equal([4]byte{1, 2, 3, 4}))
		Expect(V4From(1, 2, 3, 4).As16()).To(Equal([16]byte{}))
	})

})
