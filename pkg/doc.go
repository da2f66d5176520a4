// Package pkg provides the core libraries for Drawbridge diagram generation.
//
// # Overview
//
// Drawbridge turns a JSON description of typed, nested nodes and edges into
// a draw.io diagram link. The pkg directory is organized into these areas:
//
//  1. [graph] - Request validation and the in-memory diagram model
//  2. [layout] - Geometry derivation (boxes from declared centers)
//  3. [styles] - Type-to-style resolution and the remote icon catalog
//  4. [mxgraph] - mxGraphModel XML serialization
//  5. [encode] - Compression, base64, percent-encoding, viewer URLs
//  6. [pipeline] - Orchestration (build → layout → emit → encode)
//
// Supporting packages: [cache] (bundle storage backends), [httputil]
// (retrying fetches), [errors] (structured error codes), [preview]
// (Graphviz sketches), [observability] (instrumentation hooks), and
// [buildinfo] (version stamping).
//
// # Architecture
//
// The typical data flow through Drawbridge:
//
//	JSON request
//	         ↓
//	    [graph] package (validate, link parents, resolve edges)
//	         ↓
//	    [layout] package (derive a box per node)
//	         ↓
//	    [mxgraph] package (serialize the document)
//	         ↓
//	    [encode] package (deflate, base64, percent-encode)
//	         ↓
//	    draw.io viewer URL
//
// # Quick Start
//
//	runner := pipeline.NewRunner(styles.Builtin(), nil)
//	result, err := runner.Execute(ctx, req, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.URL)
package pkg
