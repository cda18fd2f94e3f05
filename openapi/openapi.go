// Package openapi embeds the OpenAPI document for the vocabulary API.
// The server serves it verbatim at /openapi.yaml.
package openapi

import _ "embed"

// Document contains the raw bytes of openapi.yaml, embedded at compile time.
//
//go:embed openapi.yaml
var Document []byte
