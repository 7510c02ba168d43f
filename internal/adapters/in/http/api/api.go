// Package api embeds the OpenAPI document of the order desk HTTP surface.
package api

import (
	_ "embed"
)

//go:embed openapi.yaml
var document []byte

// Document returns the raw OpenAPI 3 document.
func Document() []byte {
	return document
}
