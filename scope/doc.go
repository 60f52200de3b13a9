/*
Package scope classifies addresses by their network scope: loopback,
link-local, (deprecated) site-local, and the multicast scopes.

All predicates are pure functions over the address bytes, checking ranges by
masking. They are family-aware: for instance, [IsSiteLocal] checks the IPv4
private-use ranges for IPv4 addresses, but fec0::/10 for IPv6 addresses.
Classification never triggers any name lookups.
*/
package scope
