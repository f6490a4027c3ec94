/*
Package kitedsl provides the runtime that generated API clients are built on.

There are no exports in the root package. The runtime lives in pkg/:
	- dsl - segments and method segments that generated resources wrap
	- http - request builder, header map, parameters, client config and the transports
	- json - the JSON bridge between transfer objects and request and response bodies
	- errors, log, context - shared error types, logging and the interrupt aware context

CLI tools part of `cmd/` include:
	- kitedsl - sends or folds a single request through the runtime from the command line
	- echoServer - a fasthttp server answering like a small pet store api for trying the transports

*/
package kitedsl
