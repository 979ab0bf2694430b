// Package api defines the basket.v1 wire messages exchanged over Connect.
//
// Messages are plain structs carried by JSONCodec; field names follow the
// lowerCamelCase JSON mapping browsers already speak.
package api
