// Package classifiers loads the pre-trained model artifacts the inference
// graph calls into. The graph only sees the Classifier and LabelDecoder
// interfaces; LinearClassifier and LabelEncoder are the artifact formats
// this service ships with.
package classifiers

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/cartsense-poc-v1/server/internal/predictor/model"
)

// Classifier predicts an encoded class label for a full feature record.
type Classifier interface {
	Predict(ctx context.Context, rec *model.FeatureRecord) (int, error)
}

// LabelDecoder turns an encoded class label back into its name.
type LabelDecoder interface {
	InverseTransform(label int) (string, error)
}

// ErrShapeMismatch is returned when a record lacks a column the artifact was trained on.
var ErrShapeMismatch = errors.New("feature record does not match artifact")

// LinearArtifact is the YAML form of a multinomial linear classifier.
// Every weight vector has one entry per class.
type LinearArtifact struct {
	Name        string                          `yaml:"name"`
	Classes     []int                           `yaml:"classes"`
	Intercept   []float64                       `yaml:"intercept"`
	Numeric     map[string][]float64            `yaml:"numeric"`
	Categorical map[string]map[string][]float64 `yaml:"categorical"`
}

// LinearClassifier scores each class as intercept plus weighted columns and
// returns the arg-max class. Ties go to the earlier class.
type LinearClassifier struct {
	a LinearArtifact
	// sorted column names so score sums are order-stable
	numericCols     []string
	categoricalCols []string
}

// NewLinearClassifier validates the artifact against the feature schema.
func NewLinearClassifier(a LinearArtifact) (*LinearClassifier, error) {
	n := len(a.Classes)
	if n < 2 {
		return nil, fmt.Errorf("%s: need at least two classes, got %d", a.Name, n)
	}
	if len(a.Intercept) != n {
		return nil, fmt.Errorf("%s: intercept has %d entries for %d classes", a.Name, len(a.Intercept), n)
	}
	for col, w := range a.Numeric {
		def, ok := model.LookupFeature(col)
		if !ok {
			return nil, fmt.Errorf("%s: unknown column %q", a.Name, col)
		}
		if def.Kind != model.Numeric {
			return nil, fmt.Errorf("%s: column %q is not numeric", a.Name, col)
		}
		if len(w) != n {
			return nil, fmt.Errorf("%s: column %q has %d weights for %d classes", a.Name, col, len(w), n)
		}
	}
	for col, cats := range a.Categorical {
		def, ok := model.LookupFeature(col)
		if !ok {
			return nil, fmt.Errorf("%s: unknown column %q", a.Name, col)
		}
		if def.Kind != model.Categorical {
			return nil, fmt.Errorf("%s: column %q is not categorical", a.Name, col)
		}
		for cat, w := range cats {
			if !def.HasCategory(cat) {
				return nil, fmt.Errorf("%s: column %q has no category %q", a.Name, col, cat)
			}
			if len(w) != n {
				return nil, fmt.Errorf("%s: %s=%s has %d weights for %d classes", a.Name, col, cat, len(w), n)
			}
		}
	}
	return &LinearClassifier{
		a:               a,
		numericCols:     sortedKeys(a.Numeric),
		categoricalCols: sortedKeys(a.Categorical),
	}, nil
}

func (c *LinearClassifier) Name() string { return c.a.Name }

// Classes returns the labels the classifier can emit.
func (c *LinearClassifier) Classes() []int {
	out := make([]int, len(c.a.Classes))
	copy(out, c.a.Classes)
	return out
}

func (c *LinearClassifier) Predict(ctx context.Context, rec *model.FeatureRecord) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if rec == nil {
		return 0, fmt.Errorf("%s: %w: nil record", c.a.Name, ErrShapeMismatch)
	}

	scores := make([]float64, len(c.a.Classes))
	copy(scores, c.a.Intercept)

	for _, col := range c.numericCols {
		w := c.a.Numeric[col]
		v, ok := rec.Get(col)
		if !ok {
			return 0, fmt.Errorf("%s: %w: missing %q", c.a.Name, ErrShapeMismatch, col)
		}
		for k := range scores {
			scores[k] += w[k] * v.Number
		}
	}
	for _, col := range c.categoricalCols {
		cats := c.a.Categorical[col]
		v, ok := rec.Get(col)
		if !ok {
			return 0, fmt.Errorf("%s: %w: missing %q", c.a.Name, ErrShapeMismatch, col)
		}
		// categories without weights contribute nothing
		if w, ok := cats[v.Category]; ok {
			for k := range scores {
				scores[k] += w[k]
			}
		}
	}

	best := 0
	for k := 1; k < len(scores); k++ {
		if scores[k] > scores[best] {
			best = k
		}
	}
	return c.a.Classes[best], nil
}

// LabelEncoderArtifact is the YAML form of a label encoder: label i decodes to Labels[i].
type LabelEncoderArtifact struct {
	Name   string   `yaml:"name"`
	Labels []string `yaml:"labels"`
}

type LabelEncoder struct {
	a LabelEncoderArtifact
}

func NewLabelEncoder(a LabelEncoderArtifact) (*LabelEncoder, error) {
	if len(a.Labels) == 0 {
		return nil, fmt.Errorf("%s: no labels", a.Name)
	}
	seen := make(map[string]bool, len(a.Labels))
	for _, l := range a.Labels {
		if seen[l] {
			return nil, fmt.Errorf("%s: duplicate label %q", a.Name, l)
		}
		seen[l] = true
	}
	return &LabelEncoder{a: a}, nil
}

func (e *LabelEncoder) InverseTransform(label int) (string, error) {
	if label < 0 || label >= len(e.a.Labels) {
		return "", fmt.Errorf("%s: label %d out of range [0,%d)", e.a.Name, label, len(e.a.Labels))
	}
	return e.a.Labels[label], nil
}

func (e *LabelEncoder) Len() int { return len(e.a.Labels) }

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var (
	_ Classifier   = (*LinearClassifier)(nil)
	_ LabelDecoder = (*LabelEncoder)(nil)
)
