package adapter

import (
	"context"
	"net/http"
)

// CallResponse is the raw provider answer; status codes are not interpreted.
type CallResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// CallbackDialer is the hex port for telephony providers that ring the
// caller first and bridge them to a destination.
type CallbackDialer interface {
	// RequestCallback asks the provider to connect from with to.
	// Transport failures are returned as errors; HTTP statuses are not.
	RequestCallback(ctx context.Context, from, to string) (*CallResponse, error)
}
