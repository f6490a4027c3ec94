/*
The errors package provides the error taxonomy of the runtime.

	- ConfigError: a client could not be constructed. Either the config holds invalid values,
	  or the requested transport backend was never registered
	- SerializationError: a JSON encode/decode failure inside the codec. The underlying error is wrapped

Absent values are not errors anywhere in the runtime: nil parameters are dropped before a
request is built.

Usage

	import errors2 "github.com/assetnote/kitedsl/pkg/errors"

	...

	if err := cfg.Validate(); err != nil {
		var merr *multierror.Error
		if errors.As(err, &merr) {
			for _, v := range merr.Errors {
				errors2.PrintError(v, 0)
			}
		}
		return fmt.Errorf("invalid client config: %w", err)
	}

*/
package errors
