package http

import (
	"context"
	"testing"
)

func BenchmarkFold(b *testing.B) {
	tests := []struct {
		name  string
		depth int
	}{
		{"shallow", 2},
		{"deep", 16},
	}
	for _, tt := range tests {
		b.Run(tt.name, func(b *testing.B) {
			chain := chain(tt.depth)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				chain.Fold()
			}
		})
	}
}

func BenchmarkMemoryCall(b *testing.B) {
	ln := memoryServer(b)
	defer ln.Close()
	c := memoryClient(b, ln, NewDefaultConfig())

	builder := NewRequestBuilder(c).AppendPathElement("echo").
		AddQueryParameter("limit", NewSimpleParam(10))
	builder.AddHeader("X-Trace", "bench")
	body := `{"name":"rex"}`

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		resp, err := builder.CallToStringResponse(context.Background(), &body)
		if err != nil {
			b.Fatal(err)
		}
		if resp.Status != 200 {
			b.Fatalf("unexpected status %d", resp.Status)
		}
	}
}
