// Package schema provides JSON Schema generation for the configuration
// shapes ccport reads and writes.
package schema

import (
	"encoding/json"

	"github.com/invopop/jsonschema"

	"github.com/ccport/ccport/convert"
	"github.com/ccport/ccport/plugin"
)

// Reflector inlines all definitions to avoid $ref, which keeps the
// schemas usable as standalone documents.
var Reflector = &jsonschema.Reflector{
	DoNotReference: true,
}

// Generate creates a JSON Schema from a Go type.
// The type should be a struct with json and jsonschema tags.
func Generate[T any]() (json.RawMessage, error) {
	var zero T
	s := Reflector.Reflect(&zero)
	return json.Marshal(s)
}

// MustGenerate is like Generate but panics on error.
// Useful for package-level schema definitions.
func MustGenerate[T any]() json.RawMessage {
	s, err := Generate[T]()
	if err != nil {
		panic(err)
	}
	return s
}

// Manifest returns the schema for a plugin.json manifest.
func Manifest() (json.RawMessage, error) {
	return Generate[plugin.Manifest]()
}

// ServerEntry returns the schema for one converted server-config entry.
func ServerEntry() (json.RawMessage, error) {
	return Generate[convert.ServerEntry]()
}
