package ports

import "context"

// Transport posts one request body and returns the raw response body. It is
// the only network boundary of this layer; timeouts, TLS and proxies belong
// to its implementation. A Transport must be safe for concurrent use for the
// adapters to be.
type Transport interface {
	Post(ctx context.Context, url string, body []byte) ([]byte, error)
}

// RequestRecorder receives every request/response pair an adapter exchanges,
// for file logging or audit. Nil recorders are allowed everywhere.
type RequestRecorder interface {
	Record(operation string, request, response []byte)
}
