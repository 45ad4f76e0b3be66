package model

import "time"

// PartialInput holds the four columns the model form collects.
type PartialInput struct {
	SessionDuration float64 `json:"session_duration" validate:"min=10,max=2000"`
	CartValue       float64 `json:"cart_value" validate:"min=10,max=10000"`
	NumItems        float64 `json:"num_items" validate:"min=1,max=20"`
	DiscountApplied float64 `json:"discount_applied" validate:"min=0,max=100"`
}

// DefaultPartialInput returns the values the model form is pre-filled with.
func DefaultPartialInput() PartialInput {
	return PartialInput{SessionDuration: 300, CartValue: 200, NumItems: 3, DiscountApplied: 10}
}

// RawPrediction is the encoded output of the four classifiers.
type RawPrediction struct {
	Abandon      int
	Reason       int
	Conversion   int
	Intervention int
}

// Prediction is the decoded classifier output.
type Prediction struct {
	Abandon               bool   `json:"abandon"`
	Reason                string `json:"reason"`
	Conversion            bool   `json:"conversion"`
	InterventionEffective bool   `json:"intervention_effective"`
}

// InferenceResult is the full pipeline answer for one request.
type InferenceResult struct {
	ID string `json:"id"`
	Prediction
	Suggestion      string    `json:"suggestion"`
	PaddingStrategy string    `json:"padding_strategy"`
	ImputedFeatures []string  `json:"imputed_features"`
	Reproducible    bool      `json:"reproducible"`
	CreatedAt       time.Time `json:"created_at"`
}

// PipelineState stores per-invocation state for the inference graph.
// It is registered as graph local state and only touched inside state
// handlers or compose.ProcessState.
type PipelineState struct {
	Input           PartialInput
	ImputedFeatures []string
	Reproducible    bool
	Strategy        string
	Prediction      *Prediction
}
