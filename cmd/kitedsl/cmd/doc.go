/*
Package cmd provides the commands of the kitedsl binary.

Each command lives in its own file. call sends a single request through the runtime the same way a
generated client would, fold prints the request a chain folds into without sending it and
transports lists the registered client backends.

Client options come from the client section of $HOME/.kitedsl.yaml, KITEDSL_ prefixed environment
variables and the global flags, the flags winning

	client:
	  transport: nethttp
	  timeout: 10s
	  max_redirects: 3

Usage

	go run ./cmd/kitedsl call https://petstore.io/v2 GET 'pet/{id}' -p id=7 -H 'Accept: application/json'
	go run ./cmd/kitedsl fold POST pets -q limit=10 -d '{"name":"rex"}' --format yaml
*/
package cmd
