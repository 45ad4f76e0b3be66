package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"

	errx "github.com/cartsense-poc-v1/server/internal/core/error"
	"github.com/cartsense-poc-v1/server/internal/metrics"
	"github.com/cartsense-poc-v1/server/internal/predictor/graph/classifiers"
	"github.com/cartsense-poc-v1/server/internal/predictor/graph/nodes"
	"github.com/cartsense-poc-v1/server/internal/predictor/graph/observers"
	"github.com/cartsense-poc-v1/server/internal/predictor/graph/padding"
	"github.com/cartsense-poc-v1/server/internal/predictor/model"
	logx "github.com/cartsense-poc-v1/server/pkg/logger"
)

// Runner executes the compiled inference graph for one request.
// Every failure comes back as an errx error carrying the generic prediction message.
type Runner interface {
	Infer(ctx context.Context, in model.PartialInput) (*model.InferenceResult, error)
}

// Config holds everything needed to compose the inference graph.
type Config struct {
	Bundle *classifiers.Bundle
	Padder *padding.Padder
}

// GraphBuilder handles the construction of the inference graph.
type GraphBuilder struct {
	config *Config
	graph  *compose.Graph[model.PartialInput, *model.InferenceResult]
}

type graphRunner struct {
	runnable compose.Runnable[model.PartialInput, *model.InferenceResult]
}

func (r *graphRunner) Infer(ctx context.Context, in model.PartialInput) (res *model.InferenceResult, err error) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			res, err = nil, fmt.Errorf("panic in inference graph: %v", p)
		}
		metrics.InferenceDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.InferenceFailures.Inc()
			logx.Error().Err(err).Msg("Inference failed")
			res, err = nil, errx.WrapInference(err)
		}
	}()

	out, err := r.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks()))
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("inference graph returned no result")
	}

	out.ID = uuid.NewString()
	out.CreatedAt = time.Now().UTC()

	band := "complete"
	if out.Abandon {
		band = "abandon"
	}
	metrics.RecordAssessment(metrics.EngineClassify, band)
	return out, nil
}

// BuildInferenceGraph builds and compiles the graph and returns a Runner.
func BuildInferenceGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.Bundle == nil {
		return nil, fmt.Errorf("classifier bundle is nil")
	}
	b := cfg.Bundle
	if b.Abandonment == nil || b.Reason == nil || b.Conversion == nil || b.Intervention == nil || b.ReasonDecoder == nil {
		return nil, fmt.Errorf("classifier bundle is incomplete")
	}
	if cfg.Padder == nil {
		return nil, fmt.Errorf("padder is nil")
	}

	builder := &GraphBuilder{
		config: &cfg,
		graph: compose.NewGraph[model.PartialInput, *model.InferenceResult](
			compose.WithGenLocalState(func(ctx context.Context) *model.PipelineState {
				return &model.PipelineState{}
			}),
		),
	}

	if err := builder.addNodes(); err != nil {
		return nil, err
	}
	if err := builder.addEdges(); err != nil {
		return nil, err
	}
	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	runnable, err := builder.compile(ctx)
	if err != nil {
		return nil, err
	}
	logx.Debug().Str("padding", string(cfg.Padder.Strategy())).Msg("Inference graph built successfully")
	return &graphRunner{runnable: runnable}, nil
}

// addNodes registers every lambda with its state handlers.
func (b *GraphBuilder) addNodes() error {
	type node struct {
		key    string
		lambda *compose.Lambda
		opts   []compose.GraphAddNodeOpt
	}
	list := []node{
		{nodes.NodeFeaturePadder, nodes.NewFeaturePadderNode(b.config.Padder), []compose.GraphAddNodeOpt{
			compose.WithStatePreHandler(nodes.NewFeaturePadderPreHandler()),
			compose.WithStatePostHandler(nodes.NewFeaturePadderPostHandler(b.config.Padder)),
		}},
		{nodes.NodeClassifiers, nodes.NewClassifiersNode(b.config.Bundle), nil},
		{nodes.NodeReasonDecoder, nodes.NewReasonDecoderNode(b.config.Bundle.ReasonDecoder), []compose.GraphAddNodeOpt{
			compose.WithStatePostHandler(nodes.NewReasonDecoderPostHandler()),
		}},
		{nodes.NodeNoIntervention, nodes.NewNoInterventionNode(), nil},
		{nodes.NodeSuggestionMapper, nodes.NewSuggestionMapperNode(), nil},
	}

	for _, n := range list {
		opts := append([]compose.GraphAddNodeOpt{compose.WithNodeName(n.key)}, n.opts...)
		if err := b.graph.AddLambdaNode(n.key, n.lambda, opts...); err != nil {
			logx.Error().Err(err).Str("node", n.key).Msg("Error adding node")
			return fmt.Errorf("error adding node %s: %w", n.key, err)
		}
	}
	return nil
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() error {
	edges := [][2]string{
		{compose.START, nodes.NodeFeaturePadder},
		{nodes.NodeFeaturePadder, nodes.NodeClassifiers},
		{nodes.NodeClassifiers, nodes.NodeReasonDecoder},
		{nodes.NodeNoIntervention, compose.END},
		{nodes.NodeSuggestionMapper, compose.END},
	}

	for _, edge := range edges {
		if err := b.graph.AddEdge(edge[0], edge[1]); err != nil {
			return fmt.Errorf("error adding edge %s -> %s: %w", edge[0], edge[1], err)
		}
	}
	return nil
}

// addBranches routes on the decoded abandon flag
func (b *GraphBuilder) addBranches() error {
	abandonBranch := compose.NewGraphBranch(
		nodes.NewAbandonCondition(),
		map[string]bool{
			nodes.NodeNoIntervention:   true,
			nodes.NodeSuggestionMapper: true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeReasonDecoder, abandonBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding abandon branch")
		return fmt.Errorf("error adding abandon branch: %w", err)
	}
	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.PartialInput, *model.InferenceResult], error) {
	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(10))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
