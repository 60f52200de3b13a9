/*
Package canonical renders binary addresses into their canonical textual form.

IPv4 addresses render as four decimal octets without leading zeros. IPv6
addresses render as eight lowercase hex hextets with leading zeros stripped,
where the longest run of two or more all-zero hextets collapses into "::". In
case of several equally long runs the leftmost run wins. A single zero hextet
never collapses.

	fe80:0:0:0:211:25ff:fef8:7cb2  → fe80::211:25ff:fef8:7cb2
	1:0:0:1:0:0:1:1                → 1::1:0:0:1:1
	0:0:0:0:0:0:0:0                → ::

Parsing the canonical form of any value gives back an equal value, with the
notable exception of IPv4-mapped IPv6 values built from raw bytes, as the
literal parser unwraps these.
*/
package canonical
