/*
Package echoServer provides a fasthttp server that answers the way a small pet store api would and
echoes everything else back. It is used to try the kitedsl binary and the client transports
against a live server.

The server is used for testing, and should not be used in a production environment.

Usage

	go run ./cmd/echoServer -p 14000-14002
	go run ./cmd/kitedsl call http://localhost:14000/api GET 'pets/{id}' -p id=7
*/
package main
