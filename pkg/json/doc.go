/*
Package json is the JSON bridge used by the request runtime.

It provides three conversions on top of encoding/json:

 - Codec.WriteBodyToString: request body -> string, honouring the canonical type of the body
 - Codec.ParseBodyToObject and ParseBody: response body -> value
 - Codec.ToFormURLEncoded: object -> flat form values

Canonical types are fully qualified type names (see CanonicalName). Generated code registers its
transfer objects in a TypeRegistry during init and builds one Codec from it:

	var types = json.NewTypeRegistry().Register(pets.Dog{}, []pets.Animal{})
	var codec = json.NewCodec(json.WithTypes(types))

The codec is immutable once built and is shared through the client, there is no package level codec.
Types implementing the gojay object interfaces skip reflection entirely.
*/
package json
