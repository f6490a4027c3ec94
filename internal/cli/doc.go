/*
Package cli implements the kitedsl commands on top of the runtime packages. It turns command
line arguments into a call chain, prints the folded request and writes call results.

Nothing in here is meant to be imported by generated clients.
*/
package cli
