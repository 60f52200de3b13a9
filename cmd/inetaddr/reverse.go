// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"sync"

	"github.com/siemens/inetaddr/identity"
	"github.com/siemens/inetaddr/types"
)

// reverser lazily reverse looks up the names of addresses in the background,
// with one address identity per distinct address.
type reverser struct {
	ctx    context.Context
	lookup identity.ReverseLookup
	mu     sync.Mutex
	ids    map[types.Value]*identity.Address
	wg     sync.WaitGroup
}

func newReverser(ctx context.Context, lookup identity.ReverseLookup) *reverser {
	return &reverser{
		ctx:    ctx,
		lookup: lookup,
		ids:    map[types.Value]*identity.Address{},
	}
}

// Name returns the reverse name of the specified address if already known,
// and true. Otherwise, it kicks off the reverse lookup in the background, if
// not already done so, and returns false.
func (r *reverser) Name(v types.Value) (string, bool) {
	key := v.Unzoned()
	r.mu.Lock()
	id, ok := r.ids[key]
	if !ok {
		id = identity.New(v, identity.WithReverseLookup(r.lookup))
		r.ids[key] = id
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			_ = id.DisplayName(r.ctx)
		}()
	}
	r.mu.Unlock()
	return id.CachedName()
}

// Wait for all background lookups to finish.
func (r *reverser) Wait() {
	r.wg.Wait()
}
