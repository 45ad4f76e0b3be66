package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	"github.com/cartsense-poc-v1/server/internal/predictor/graph/classifiers"
	"github.com/cartsense-poc-v1/server/internal/predictor/graph/padding"
	"github.com/cartsense-poc-v1/server/internal/predictor/model"
	"github.com/cartsense-poc-v1/server/internal/predictor/suggest"
	logx "github.com/cartsense-poc-v1/server/pkg/logger"
)

const (
	NodeFeaturePadder    = "FeaturePadder"
	NodeClassifiers      = "Classifiers"
	NodeReasonDecoder    = "ReasonDecoder"
	NodeNoIntervention   = "NoIntervention"
	NodeSuggestionMapper = "SuggestionMapper"
)

// NewFeaturePadderPreHandler remembers the request input in state.
func NewFeaturePadderPreHandler() func(context.Context, model.PartialInput, *model.PipelineState) (model.PartialInput, error) {
	return func(ctx context.Context, in model.PartialInput, s *model.PipelineState) (model.PartialInput, error) {
		s.Input = in
		return in, nil
	}
}

// NewFeaturePadderNode pads the four observed columns to the full schema.
func NewFeaturePadderNode(p *padding.Padder) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.PartialInput) (*model.FeatureRecord, error) {
		rec, err := p.Pad(in)
		if err != nil {
			return nil, fmt.Errorf("pad features: %w", err)
		}
		return rec, nil
	})
}

// NewFeaturePadderPostHandler records which columns were imputed and how.
func NewFeaturePadderPostHandler(p *padding.Padder) func(context.Context, *model.FeatureRecord, *model.PipelineState) (*model.FeatureRecord, error) {
	return func(ctx context.Context, rec *model.FeatureRecord, s *model.PipelineState) (*model.FeatureRecord, error) {
		s.ImputedFeatures = rec.Imputed()
		s.Reproducible = p.Reproducible()
		s.Strategy = string(p.Strategy())
		logx.Debug().
			Str("strategy", s.Strategy).
			Int("imputed", len(s.ImputedFeatures)).
			Msg("Feature record padded")
		return rec, nil
	}
}

// NewClassifiersNode runs the four classifiers one after another on the same record.
func NewClassifiersNode(b *classifiers.Bundle) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, rec *model.FeatureRecord) (model.RawPrediction, error) {
		var raw model.RawPrediction
		steps := []struct {
			name string
			c    classifiers.Classifier
			dst  *int
		}{
			{"abandonment", b.Abandonment, &raw.Abandon},
			{"reason", b.Reason, &raw.Reason},
			{"conversion", b.Conversion, &raw.Conversion},
			{"intervention", b.Intervention, &raw.Intervention},
		}
		for _, step := range steps {
			label, err := step.c.Predict(ctx, rec)
			if err != nil {
				return model.RawPrediction{}, fmt.Errorf("classifier %s: %w", step.name, err)
			}
			*step.dst = label
		}
		return raw, nil
	})
}

// NewReasonDecoderNode decodes the reason label and turns binary labels into flags.
func NewReasonDecoderNode(dec classifiers.LabelDecoder) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, raw model.RawPrediction) (model.Prediction, error) {
		reason, err := dec.InverseTransform(raw.Reason)
		if err != nil {
			return model.Prediction{}, fmt.Errorf("decode reason: %w", err)
		}
		return model.Prediction{
			Abandon:               raw.Abandon == 1,
			Reason:                reason,
			Conversion:            raw.Conversion == 1,
			InterventionEffective: raw.Intervention == 1,
		}, nil
	})
}

// NewReasonDecoderPostHandler saves the decoded prediction to state.
func NewReasonDecoderPostHandler() func(context.Context, model.Prediction, *model.PipelineState) (model.Prediction, error) {
	return func(ctx context.Context, out model.Prediction, s *model.PipelineState) (model.Prediction, error) {
		p := out
		s.Prediction = &p
		return out, nil
	}
}

// NewAbandonCondition routes abandoning shoppers to the suggestion mapper.
func NewAbandonCondition() func(context.Context, model.Prediction) (string, error) {
	return func(ctx context.Context, p model.Prediction) (string, error) {
		if p.Abandon {
			logx.Debug().Str("reason", p.Reason).Msg("Routing to suggestion mapper")
			return NodeSuggestionMapper, nil
		}
		logx.Debug().Msg("Routing to no intervention")
		return NodeNoIntervention, nil
	}
}

// NewNoInterventionNode answers shoppers predicted to complete the purchase.
func NewNoInterventionNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, p model.Prediction) (*model.InferenceResult, error) {
		return finalize(ctx, p, suggest.NoIntervention)
	})
}

// NewSuggestionMapperNode maps the decoded reason to a suggestion.
func NewSuggestionMapperNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, p model.Prediction) (*model.InferenceResult, error) {
		return finalize(ctx, p, suggest.Suggest(p.Abandon, p.Reason))
	})
}

func finalize(ctx context.Context, p model.Prediction, suggestion string) (*model.InferenceResult, error) {
	res := &model.InferenceResult{
		Prediction: p,
		Suggestion: suggestion,
	}
	err := compose.ProcessState(ctx, func(_ context.Context, s *model.PipelineState) error {
		res.PaddingStrategy = s.Strategy
		res.ImputedFeatures = append([]string(nil), s.ImputedFeatures...)
		res.Reproducible = s.Reproducible
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to access state: %w", err)
	}
	return res, nil
}
