// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"net/netip"
	"strings"

	"github.com/siemens/inetaddr/literal"
	"github.com/siemens/inetaddr/types"

	"go4.org/netipx"
)

// addressFilter passes only addresses contained in its set. A nil
// addressFilter passes everything.
type addressFilter struct {
	set *netipx.IPSet
}

// newAddressFilter returns a filter for the specified prefixes ("10.0.0.0/8"),
// ranges ("192.0.2.1-192.0.2.9"), and single address literals. Single
// addresses must follow the strict literal grammar. It returns nil if no specs
// were given.
func newAddressFilter(specs []string) (*addressFilter, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	var b netipx.IPSetBuilder
	for _, spec := range specs {
		spec = strings.TrimSpace(spec)
		switch {
		case strings.Contains(spec, "/"):
			prefix, err := netip.ParsePrefix(spec)
			if err != nil {
				return nil, fmt.Errorf("invalid --only prefix %q: %w", spec, err)
			}
			b.AddPrefix(prefix.Masked())
		case strings.Contains(spec, "-"):
			r, err := netipx.ParseIPRange(spec)
			if err != nil {
				return nil, fmt.Errorf("invalid --only range %q: %w", spec, err)
			}
			b.AddRange(r)
		default:
			v, err := literal.Parse(spec)
			if err != nil {
				return nil, fmt.Errorf("invalid --only address: %w", err)
			}
			b.Add(netipAddr(v))
		}
	}
	set, err := b.IPSet()
	if err != nil {
		return nil, err
	}
	return &addressFilter{set: set}, nil
}

// netipAddr converts an address value into its unzoned netip.Addr form.
func netipAddr(v types.Value) netip.Addr {
	if v.Is4() {
		return netip.AddrFrom4(v.As4())
	}
	return netip.AddrFrom16(v.As16())
}

// Allows reports whether the specified named address passes the filter. Named
// addresses without address always pass, so that names show up even before
// they have been resolved.
func (f *addressFilter) Allows(na types.NamedAddress) bool {
	if f == nil || !na.Addr().IsValid() {
		return true
	}
	return f.set.Contains(netipAddr(na.Addr()))
}

// Filter passes the allowed named addresses from the in channel on to the
// returned channel, until the in channel gets closed or the context is done.
func (f *addressFilter) Filter(ctx context.Context, in <-chan types.NamedAddress) <-chan types.NamedAddress {
	out := make(chan types.NamedAddress, cap(in))
	go func() {
		defer close(out)
		for {
			select {
			case na, ok := <-in:
				if !ok {
					return
				}
				if !f.Allows(na) {
					continue
				}
				select {
				case out <- na:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
