/*
Package types defines inetaddr's information model: the binary address [Value]
tagged with its [Family], the error kinds shared by all other packages, and the
reachability [Quality] of addresses that are streamed through pingers and
verifiers.

# Values

A [Value] is either a 4 byte IPv4 or a 16 byte IPv6 address. Values are
created either by the literal parser (see package literal) or directly from raw
bytes using [FromBytes], which only checks the byte length. There is no
implicit family coercion: a 16 byte IPv4-mapped address built from bytes stays
an IPv6 value and never equals its 4 byte IPv4 counterpart. Only the literal
parser unwraps IPv4-mapped literals, following the textual convention that
"::ffff:127.0.0.1" denotes 127.0.0.1.

IPv6 values optionally carry a zone. The zone is a routing hint only, so
[Value.Equal] and [Value.Hash] ignore it.

# Errors

All error kinds are values returned to the caller:

  - [ParseError] (wraps [ErrParse]) for malformed literals,
  - [ResolutionError] (wraps [ErrResolution]) for failed name lookups,
  - [LengthError] (wraps [ErrInvalidLength]) for raw bytes of bad length.

# Qualified Addresses

The separation into a [QualifiedAddress] interface and a
[QualifiedAddressValue] struct type allows pingers and verifiers to pass along
application-specific address types, such as [NamedAddressValue], through their
channels without knowing the concrete type. Implementations embedding
QualifiedAddressValue must (re)implement [QualifiedAddressValue.WithNewQuality],
otherwise the embedded method returns a stock QualifiedAddressValue, losing the
additional information in the process.

The interfaces only offer getters, giving back value semantics and
immutability when passing interface pointers through channels between
concurrent stages.
*/
package types
