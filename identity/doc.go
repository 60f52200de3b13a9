/*
Package identity implements address identities: an immutable binary address
together with a display name that is looked up lazily and then cached.

Identity (equality and hashing) depends only on the address family and bytes;
IPv6 zones and display names never take part. A 4 byte IPv4 address never
equals its 16 byte IPv4-mapped counterpart.

The display name cache of an [Address] is a single-assignment cell: empty at
first, populated either at creation time using [WithName], or by the first
[Address.DisplayName] call from the [ReverseLookup] collaborator's answer (or
the canonical address text in case the lookup fails). Callers that must avoid
network side effects use [Address.PeekDisplayName] instead.
*/
package identity
