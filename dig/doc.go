/*
Package dig digs up the addresses of a list of host names and address
literals, streaming the results as named addresses.

	           +---+                     +---+
	[]string-->| D +-->ch NamedAddress-->| V +-->ch NamedAddress
	           +---+                     +---+

A [Digger] first announces every name without any address, then resolves the
names concurrently on a limited number of workers, using a
[resolver.Resolver]. Address literals thus need no lookup at all, and the
empty name digs up the loopback addresses. Names that fail to resolve show up
as a single [types.Invalid] named address without address, carrying the
error.

The digger's stream is typically fed through a [verifier.Verifier] for
reachability verdicts and finally into a [NamedAddressesMap], which keeps the
latest quality per name and address for display.

[verifier.Verifier]: https://pkg.go.dev/github.com/siemens/inetaddr/verifier#Verifier
*/
package dig
