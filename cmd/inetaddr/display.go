// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/siemens/inetaddr/canonical"
	"github.com/siemens/inetaddr/dig"
	"github.com/siemens/inetaddr/scope"
	"github.com/siemens/inetaddr/types"
)

// renderer renders the terminal display, based on named+qualified address
// information passed to its Render method.
type renderer struct {
	Indentation int
	w           io.Writer
	spinner     *spinner
	reverser    *reverser // optional
}

// newRenderer returns a renderer object rendering to the specified io.Writer,
// with its spinner spinning at the specified interval.
func newRenderer(w io.Writer, spinnerInterval time.Duration, rev *reverser) *renderer {
	sp := newSpinner()
	sp.Start(spinnerInterval)
	return &renderer{
		w:        w,
		spinner:  sp,
		reverser: rev,
	}
}

// Stop the renderer's background ticker.
func (r *renderer) Stop() {
	r.spinner.Stop()
}

// Render the given named+qualified addresses.
func (r *renderer) Render(na []dig.NamedAddressSet) {
	// If we don't have any name+addressing information yet, show a proxy
	// message.
	if len(na) == 0 {
		fmt.Fprintln(r.w, "resolving...")
		return
	}
	for _, set := range na {
		sortQualifiedAddresses(set.Addresses)
		r.renderName(set)
	}
}

// displayedName makes the empty name visible.
func displayedName(name string) string {
	if name == "" {
		return `""`
	}
	return name
}

// renderName renders a name, followed by its qualified addresses, one per
// line.
func (r *renderer) renderName(na dig.NamedAddressSet) {
	fmt.Fprintf(r.w, "%s\n", nameStyle.Styled(displayedName(na.Name)))
	if na.Err != nil {
		fmt.Fprintf(r.w, "%-*s%s\n", r.Indentation, "",
			invalidAddressStyle.Styled("× "+na.Err.Error()))
		return
	}
	if len(na.Addresses) == 0 {
		fmt.Fprintf(r.w, "%-*s%s\n", r.Indentation, "", r.spinner.Spinner())
		return
	}
	for _, addr := range na.Addresses {
		fmt.Fprintf(r.w, "%-*s", r.Indentation, "")
		text := canonical.FormatZoned(addr.Address)
		switch addr.Quality {
		case types.Unverified:
			fmt.Fprintf(r.w, "%s", text)
		case types.Verifying:
			fmt.Fprint(r.w, verifyingAddressStyle.Styled(r.spinner.Spinner()+text))
		case types.Verified:
			fmt.Fprint(r.w, validAddressStyle.Styled("✔ "+text))
		case types.Invalid:
			fmt.Fprint(r.w, invalidAddressStyle.Styled("× "+text))
		}
		fmt.Fprintf(r.w, " %s %s",
			familyStyle.Styled(addr.Address.Family().String()),
			scopeStyle.Styled(scope.Classify(addr.Address).String()))
		if r.reverser != nil {
			if name, ok := r.reverser.Name(addr.Address); ok {
				fmt.Fprintf(r.w, " → %s", name)
			} else {
				fmt.Fprintf(r.w, " → %s", r.spinner.Spinner())
			}
		}
		fmt.Fprintln(r.w)
	}
}

// sortQualifiedAddresses sorts a slice of qualified address in place.
// - IPv4 first, IPv6 ... (embarrassed slience) ... second.
// - sorts by address value.
func sortQualifiedAddresses(addrs []types.QualifiedAddressValue) {
	sort.Slice(addrs, func(a, b int) bool {
		addrA, addrB := addrs[a].Address, addrs[b].Address
		if addrA.Family() != addrB.Family() {
			return addrA.Family() < addrB.Family()
		}
		return bytes.Compare(addrA.Bytes(), addrB.Bytes()) < 0
	})
}
