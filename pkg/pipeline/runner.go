package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mlenz/drawbridge/pkg/encode"
	"github.com/mlenz/drawbridge/pkg/graph"
	"github.com/mlenz/drawbridge/pkg/layout"
	"github.com/mlenz/drawbridge/pkg/mxgraph"
	"github.com/mlenz/drawbridge/pkg/observability"
	"github.com/mlenz/drawbridge/pkg/styles"
)

// Runner encapsulates pipeline execution with a shared style resolver.
// Both CLI and server use this to avoid duplicating stage wiring.
//
// The Runner is stateless except for the resolver and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different requests.
type Runner struct {
	Resolver styles.Resolver
	Logger   *log.Logger
}

// NewRunner creates a runner with the given style resolver.
// If resolver is nil, the builtin style table is used.
// If logger is nil, the default logger is used.
func NewRunner(resolver styles.Resolver, logger *log.Logger) *Runner {
	if resolver == nil {
		resolver = defaultResolver()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Resolver: resolver,
		Logger:   logger,
	}
}

// Execute runs the complete build → layout → emit → encode pipeline.
func (r *Runner) Execute(ctx context.Context, req graph.Request, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Build
	buildStart := time.Now()
	observability.Stages().OnStageStart(ctx, observability.StageBuild)
	m, err := graph.Build(req)
	observability.Stages().OnStageComplete(ctx, observability.StageBuild, time.Since(buildStart), err)
	if err != nil {
		return nil, err
	}
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = m.NodeCount()
	result.Stats.EdgeCount = m.EdgeCount()

	r.Logger.Info("built model",
		"nodes", m.NodeCount(),
		"edges", m.EdgeCount(),
		"duration", result.Stats.BuildTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	observability.Stages().OnStageStart(ctx, observability.StageLayout)
	engine := layout.New(r.Resolver, layout.WithMargin(*opts.Margin))
	boxes, err := engine.Solve(m)
	observability.Stages().OnStageComplete(ctx, observability.StageLayout, time.Since(layoutStart), err)
	if err != nil {
		return nil, err
	}
	result.Boxes = boxes
	result.Stats.LayoutTime = time.Since(layoutStart)

	r.Logger.Info("computed layout",
		"boxes", len(boxes),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Emit
	emitStart := time.Now()
	observability.Stages().OnStageStart(ctx, observability.StageEmit)
	doc, err := mxgraph.Marshal(m, boxes, r.Resolver)
	observability.Stages().OnStageComplete(ctx, observability.StageEmit, time.Since(emitStart), err)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.Stats.EmitTime = time.Since(emitStart)

	r.Logger.Info("serialized document",
		"bytes", len(doc),
		"duration", result.Stats.EmitTime)

	// Stage 4: Encode
	encodeStart := time.Now()
	observability.Stages().OnStageStart(ctx, observability.StageEncode)
	token, err := encode.Token(doc)
	observability.Stages().OnStageComplete(ctx, observability.StageEncode, time.Since(encodeStart), err)
	if err != nil {
		return nil, err
	}
	result.Token = token
	result.URL = encode.ViewerURL(token)
	result.Stats.EncodeTime = time.Since(encodeStart)

	r.Logger.Info("encoded token",
		"length", len(token),
		"duration", result.Stats.EncodeTime)

	return result, nil
}
