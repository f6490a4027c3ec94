/*
Package context wraps the standard context package with a process wide context that is
cancelled by the first interrupt signal. A second interrupt exits immediately.

CLI commands pass it to every call so that ctrl-c aborts requests that are still in flight

	import "github.com/assetnote/kitedsl/pkg/context"

	...

	ctx, cancel := context.WithTimeout(timeout)
	defer cancel()
	resp, err := builder.CallToStringResponse(ctx, body)
	if err != nil {
		log.Fatal().Err(err).Msg("call failed")
	}
*/
package context
