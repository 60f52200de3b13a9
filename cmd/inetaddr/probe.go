// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"time"

	"github.com/siemens/inetaddr/identity"
	"github.com/siemens/inetaddr/types"

	"github.com/gammazero/workerpool"
)

// quickProbe qualifies the addresses from in by a single reachability probe
// each, stopping at the first reply, using at most size concurrent probes.
// Unlike the verifier, it probes addresses shared by several names once per
// name. The returned channel gets closed after in has been closed and all
// probes are done.
func quickProbe(
	ctx context.Context, in <-chan types.NamedAddress, prober identity.Prober, timeout time.Duration, size int,
) <-chan types.NamedAddress {
	out := make(chan types.NamedAddress, size)
	send := func(na types.NamedAddress) bool {
		select {
		case out <- na:
			return true
		case <-ctx.Done():
			return false
		}
	}
	go func() {
		workers := workerpool.New(size)
		defer func() {
			workers.StopWait()
			close(out)
		}()
		for {
			select {
			case na, ok := <-in:
				if !ok {
					return
				}
				if !na.Addr().IsValid() {
					if !send(na) {
						return
					}
					continue
				}
				if !send(na.WithNewQuality(types.Verifying, nil).(types.NamedAddress)) {
					return
				}
				workers.Submit(func() {
					q := types.Invalid
					if identity.New(na.Addr()).IsReachable(ctx, prober, timeout) {
						q = types.Verified
					}
					send(na.WithNewQuality(q, nil).(types.NamedAddress))
				})
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
