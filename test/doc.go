/*
Package test provides shared test harness helpers, such as an in-process DNS
server answering from a fixed set of resource records.
*/
package test
