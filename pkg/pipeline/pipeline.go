// Package pipeline provides the core diagram pipeline for Drawbridge.
//
// This package implements the complete build → layout → emit → encode chain
// that can be used by CLI and server components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Build: Validate the request and assemble the node hierarchy
//  2. Layout: Derive a bounding box for every node
//  3. Emit: Serialize the laid-out model into the mxGraphModel document
//  4. Encode: Compress the document into the viewer URL token
//
// Stages always run together; intermediate artifacts are exposed on the
// Result for callers that want the raw document or token.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(resolver, logger)
//	result, err := runner.Execute(ctx, req)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.URL)
package pipeline

import (
	"time"

	dberrors "github.com/mlenz/drawbridge/pkg/errors"
	"github.com/mlenz/drawbridge/pkg/layout"
	"github.com/mlenz/drawbridge/pkg/styles"
)

var errNegativeMargin = dberrors.New(dberrors.ErrCodeMalformedInput, "margin must be non-negative")

// Options controls a single pipeline execution.
type Options struct {
	// Margin is the padding added around container children, in diagram
	// units. Nil selects layout.DefaultMargin; an explicit zero is honored
	// and packs containers tightly around their children.
	Margin *float64
}

// ValidateAndSetDefaults checks option values and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Margin == nil {
		m := float64(layout.DefaultMargin)
		o.Margin = &m
	}
	if *o.Margin < 0 {
		return errNegativeMargin
	}
	return nil
}

// Stats captures per-stage timing and graph size for a pipeline run.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	BuildTime  time.Duration
	LayoutTime time.Duration
	EmitTime   time.Duration
	EncodeTime time.Duration
}

// Result holds every artifact of a pipeline run.
type Result struct {
	// URL is the complete viewer hyperlink.
	URL string
	// Token is the compressed fragment embedded in URL.
	Token string
	// Document is the serialized mxGraphModel XML.
	Document []byte
	// Boxes maps node identifiers to their resolved geometry.
	Boxes map[string]layout.Box
	Stats Stats
}

// defaultResolver is used when a Runner is constructed without one.
func defaultResolver() styles.Resolver {
	return styles.Builtin()
}
