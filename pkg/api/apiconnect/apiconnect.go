// Package apiconnect wires the basket.v1 services to connect-go.
//
// It follows the layout protoc-gen-connect-go produces: procedure constants,
// a client and a handler interface per service, and Unimplemented handlers
// for embedding. Every client and handler speaks api.JSONCodec.
package apiconnect

import (
	"connectrpc.com/connect"

	"github.com/mmynk/basket/pkg/api"
)

// This is a compile-time assertion to ensure this package is compatible with
// the version of connect it is built against.
const _ = connect.IsAtLeastVersion1_13_0

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(api.JSONCodec{})}, opts...)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(api.JSONCodec{})}, opts...)
}
