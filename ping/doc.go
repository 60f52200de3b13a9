/*
Package ping probes the reachability of addresses using ICMP (or, when
unprivileged, UDP-based) echo requests.

A [Pinger] runs probes on a size-limited worker pool and streams its verdicts
on the channel returned by [New]. Each submitted address shows up twice on
this channel: first with quality [types.Verifying] as soon as it is accepted,
then with its final verdict, either [types.Verified] or [types.Invalid]. An
address is verified when at least the configured percentage of echo requests
got answered.

	             +---+
	types.Value->| P +-->ch QualifiedAddress
	             +---+

	                      +---+
	ch QualifiedAddress-->| P +-->ch QualifiedAddress
	                      +---+

Submitted [types.NamedAddress] items keep their names in the verdicts, so a
Pinger fits into pipelines of named addresses.

[Pinger.Reachable] instead probes a single address synchronously, stopping at
the first echo reply. This makes a Pinger the reachability prober of
[identity.Address] objects.

Pingers can operate from inside a different network namespace, see
[InNetworkNamespace].

[identity.Address]: https://pkg.go.dev/github.com/siemens/inetaddr/identity#Address
*/
package ping
