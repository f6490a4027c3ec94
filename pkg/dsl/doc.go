/*
Package dsl holds the small surface generated API clients are built from.

Every resource in a generated client wraps a Segment. Path elements, path parameters and
headers each add one immutable step below their parent, so a partially built chain can be kept
and reused for any number of calls. The chain is turned into a request by one of the method
segments, which fold the chain, apply the method defaults and render the body.

	type Api struct{ dsl.Segment }

	func New(client http.Client) *Api { return &Api{dsl.NewRoot(client)} }

	type PetResource struct{ dsl.Segment }

	func (a *Api) Pet(id int64) PetResource {
		return PetResource{dsl.Param(dsl.Plain(a.Segment, "pet"), id)}
	}

	func (p PetResource) Get() *dsl.TypeMethodSegment[dsl.NoBody, Pet] {
		return dsl.NewTypeMethodSegment[dsl.NoBody, Pet](p.Segment, http.GET, dsl.NoBody{}, dsl.MethodOptions{
			Accept: "application/json",
		})
	}

	func (p PetResource) Update(body Pet) *dsl.TypeMethodSegment[Pet, Pet] {
		return dsl.NewTypeMethodSegment[Pet, Pet](p.Segment, http.PUT, body, dsl.MethodOptions{
			Accept:      "application/json",
			ContentType: "application/json",
		})
	}

	...

	resp, err := api.Pet(7).Get().Call(ctx)

A method segment never fails on creation. Problems preparing the request, such as a missing
client or a body that cannot be encoded, are returned by Call and nothing is sent.
*/
package dsl
