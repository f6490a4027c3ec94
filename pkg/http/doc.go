/*
Package http provides the request builder and the clients that execute it.

A generated api is a chain of RequestBuilder nodes. Every node only records what it adds to
its parent: a path element, a parameter, a deferred header op. Nodes never write to their
parent, so a partially built chain can be shared and extended in different directions.
RequestBuilder.Fold flattens a chain into the one builder a Client executes.

Clients are created by a transport backend registered by name, much like database/sql
drivers. The fasthttp and nethttp transports are registered by this package.

	client, err := http.NewClient("", "petstore.example", 443, "https", "/v2", nil, map[string]string{
		"Authorization": "Bearer token",
	})
	if err != nil {
		// *errors.ConfigError, e.g. the transport is unknown
	}
	b := http.NewRequestBuilder(client).Child()
	b.AppendPathElement("pets").SetMethod(http.GET)
	resp, err := http.CallToTypeResponse[[]Pet](ctx, b.Fold(), nil, "")

There are a few quirks to be aware of

  - Headers set on the builder replace client default headers of the same name
  - Non 2xx responses are returned as responses, not errors. Only 2xx bodies are parsed
  - A Target is not modified once a client has been created from it
*/
package http
