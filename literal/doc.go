/*
Package literal parses numeric IPv4 and IPv6 address literals into binary
[types.Value]s.

The grammar is deliberately strict: IPv4 literals must be in the four-group
dotted decimal form. The legacy shorthand forms "1.2.3", "1.2", and "1234",
hex groups such as "0x7f", as well as octal reinterpretation of groups with
leading zeros are all rejected or, in case of leading zeros, read as plain
decimal. Permissive parsers accepting these forms have been the source of
numeric-address confusion bugs where different components disagree on the
address a literal denotes.

	"0177.00.00.01"      → 177.0.0.1
	"00001.2.3.4"        → error, groups have at most four digits
	"::ffff:127.0.0.1"   → 127.0.0.1 (IPv4-mapped literals are unwrapped)
	"[2001:db8::68]"     → 2001:db8::68
	"fe80::1%eth0"       → fe80::1 with zone "eth0"
	"[127.0.0.1]"        → error, brackets are for IPv6 only
	"1.2.3.4."           → error

Parsing runs in two stages: a lexer that only splits the literal into tokens
by character class (brackets, zone, hextets, "::", dotted groups), followed by
a parser that interprets the tokens numerically.
*/
package literal
