package server

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	dberrors "github.com/mlenz/drawbridge/pkg/errors"
)

//go:embed schema/diagram.schema.json
var diagramSchema []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func loadSchema() {
	const url = "https://drawbridge.dev/schema/diagram.schema.json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, bytes.NewReader(diagramSchema)); err != nil {
		schemaErr = err
		return
	}
	schema, schemaErr = c.Compile(url)
}

// validateRequest checks raw request bytes against the diagram schema before
// they are bound to the graph types. Schema failures surface as
// INVALID_FORMAT; structural checks beyond the schema's reach happen later
// in graph.Build.
func validateRequest(raw []byte) error {
	schemaOnce.Do(loadSchema)
	if schemaErr != nil {
		return dberrors.Wrap(dberrors.ErrCodeInternal, schemaErr, "compile request schema")
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return dberrors.Wrap(dberrors.ErrCodeInvalidFormat, err, "request is not valid JSON")
	}
	if err := schema.Validate(v); err != nil {
		return dberrors.Wrap(dberrors.ErrCodeInvalidFormat, err, "request does not match the diagram schema")
	}
	return nil
}
