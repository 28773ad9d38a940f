// Package modeladapter defines the interface and types for LLM completion adapters.
//
// It contains:
//   - [Completer] interface and embeddable [ModelAdapter] base struct with HTTP helpers, auth, and custom headers
//   - [Sampling], the vendor-neutral bundle of generation parameters
//   - [StatusError] and [RateLimitError], the transport error taxonomy
//   - [github.com/germanamz/humanizer/pkg/modeladapter/usage]: thread-safe token usage tracker
//
// This package contains no provider-specific code. Concrete adapters live in
// separate packages that import modeladapter.
package modeladapter
