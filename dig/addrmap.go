// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package dig

import (
	"context"
	"sort"
	"sync"

	"github.com/siemens/inetaddr/types"
)

// NamedAddressSet is a snapshot of a single name with its qualified
// addresses, or with the reason why the name could not be resolved.
type NamedAddressSet struct {
	Name      string                        `json:"name"`
	Addresses []types.QualifiedAddressValue `json:"addresses"`
	Err       error                         `json:"-"`
}

// namedAddresses is what NamedAddressesMap tracks per name.
type namedAddresses struct {
	addrs []types.QualifiedAddressValue // in the order dug up.
	err   error
}

// update merges the specified qualified address. Qualities only ever move
// forward: Unverified, Verifying, then a verdict.
func (na *namedAddresses) update(qa types.QualifiedAddressValue) {
	for idx := range na.addrs {
		if !na.addrs[idx].Address.Equal(qa.Address) {
			continue
		}
		if qa.Quality > na.addrs[idx].Quality {
			na.addrs[idx] = qa
		}
		return
	}
	na.addrs = append(na.addrs, qa)
}

// NamedAddressesMap consolidates a stream of named address updates into the
// latest state per name and address, ready for display. It is safe for
// concurrent use.
type NamedAddressesMap struct {
	mu sync.Mutex
	m  map[string]*namedAddresses
}

// NewNamedAddressesMap returns a new, empty NamedAddressesMap.
func NewNamedAddressesMap() *NamedAddressesMap {
	return &NamedAddressesMap{m: map[string]*namedAddresses{}}
}

// Get returns a snapshot of all names, sorted by name.
func (m *NamedAddressesMap) Get() []NamedAddressSet {
	m.mu.Lock()
	defer m.mu.Unlock()
	sets := make([]NamedAddressSet, 0, len(m.m))
	for name, na := range m.m {
		sets = append(sets, NamedAddressSet{
			Name:      name,
			Addresses: append([]types.QualifiedAddressValue{}, na.addrs...),
			Err:       na.err,
		})
	}
	sort.Slice(sets, func(a, b int) bool { return sets[a].Name < sets[b].Name })
	return sets
}

// Update merges a single named address. Names without address just get
// registered, or marked unresolvable when Invalid.
func (m *NamedAddressesMap) Update(namaddr types.NamedAddress) {
	if namaddr == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	na, ok := m.m[namaddr.Name()]
	if !ok {
		na = &namedAddresses{addrs: []types.QualifiedAddressValue{}}
		m.m[namaddr.Name()] = na
	}
	switch {
	case namaddr.Addr().IsValid():
		na.update(namaddr.QA())
	case namaddr.Qual() == types.Invalid:
		na.err = namaddr.Err()
	}
}

// Track merges the updates from news until news gets closed, returning nil, or
// until ctx is done, returning ctx's error.
func (m *NamedAddressesMap) Track(ctx context.Context, news <-chan types.NamedAddress) error {
	for {
		select {
		case namaddr, ok := <-news:
			if !ok {
				return nil
			}
			m.Update(namaddr)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
