/*
Package verifier verifies the addresses of a named address stream by pinging
them, probing every distinct address only once.

Several host names often resolve to the same address. The [Verifier] hands
each distinct address to a [ping.Pinger] only the first time it shows up, and
fans out the verdicts to all host names resolving to that address.

	                  +---+
	ch NamedAddress-->| V +-->ch NamedAddress
	                  +---+
*/
package verifier
