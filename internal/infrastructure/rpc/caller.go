// Package rpc abstracts the XML-RPC channel to the Trac endpoint. The
// client code only depends on Caller, so the in-memory fake endpoint
// can stand in for a live connection.
package rpc

import "context"

// Caller invokes a named remote method with positional arguments and
// decodes the result into reply. Implementations surface remote faults
// as fault errors carrying the reported code and message; transport
// failures are passed through unchanged. Every call is a single
// synchronous round trip; cancellation and timeouts are the channel's
// concern, not the caller's.
type Caller interface {
	Call(ctx context.Context, method string, args []any, reply any) error
}
