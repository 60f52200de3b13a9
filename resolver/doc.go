/*
Package resolver provides the resolving entry points: turning host names or
numeric address literals into [identity.Address] objects, as well as
constructing identities from raw address bytes.

Name lookups are delegated to a [Lookup] collaborator, such as
[github.com/siemens/inetaddr/dnsworker.Lookup]. A small static hosts table
always knows "localhost" (127.0.0.1) and "ip6-localhost" (::1), both ways.
Lookup results, including failures, are cached for a short time.

The empty name (and the empty literal) stand for the loopback address. Which
family wins when a single address is needed is decided by the configured
[LoopbackPolicy].
*/
package resolver
