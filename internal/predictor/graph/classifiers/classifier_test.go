package classifiers

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/cartsense-poc-v1/server/internal/core/error"
	"github.com/cartsense-poc-v1/server/internal/predictor/graph/padding"
	"github.com/cartsense-poc-v1/server/internal/predictor/model"
)

func baselineRecord(t *testing.T, in model.PartialInput) *model.FeatureRecord {
	t.Helper()
	rec, err := padding.New(padding.StrategyBaseline, 0).Pad(in)
	require.NoError(t, err)
	return rec
}

func TestLinearClassifierArgMax(t *testing.T) {
	c, err := NewLinearClassifier(LinearArtifact{
		Name:      "toy",
		Classes:   []int{0, 1},
		Intercept: []float64{0, -1},
		Numeric:   map[string][]float64{model.FeatureCartValue: {0, 0.01}},
		Categorical: map[string]map[string][]float64{
			"device_type": {"Desktop": {0, -5}},
		},
	})
	require.NoError(t, err)

	rec := baselineRecord(t, model.PartialInput{SessionDuration: 100, CartValue: 50, NumItems: 1})
	got, err := c.Predict(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, 0, got, "-1 + 0.5 < 0")

	rec = baselineRecord(t, model.PartialInput{SessionDuration: 100, CartValue: 500, NumItems: 1})
	got, err = c.Predict(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, 1, got, "-1 + 5 > 0")

	require.NoError(t, rec.Set("device_type", model.FeatureValue{Category: "Desktop"}))
	got, err = c.Predict(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, 0, got, "desktop penalty wins")
}

func TestLinearClassifierTiesGoToFirstClass(t *testing.T) {
	c, err := NewLinearClassifier(LinearArtifact{Classes: []int{3, 7}, Intercept: []float64{1, 1}})
	require.NoError(t, err)
	got, err := c.Predict(context.Background(), model.NewFeatureRecord())
	require.NoError(t, err)
	assert.Equal(t, 3, got)
}

func TestLinearClassifierShapeMismatch(t *testing.T) {
	c, err := NewLinearClassifier(LinearArtifact{
		Name:      "toy",
		Classes:   []int{0, 1},
		Intercept: []float64{0, 0},
		Numeric:   map[string][]float64{"page_views": {0, 1}},
	})
	require.NoError(t, err)

	_, err = c.Predict(context.Background(), model.NewFeatureRecord())
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = c.Predict(context.Background(), nil)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestLinearClassifierHonoursContext(t *testing.T) {
	c, err := NewLinearClassifier(LinearArtifact{Classes: []int{0, 1}, Intercept: []float64{0, 0}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Predict(ctx, model.NewFeatureRecord())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewLinearClassifierRejects(t *testing.T) {
	tests := []struct {
		name string
		a    LinearArtifact
		msg  string
	}{
		{"one class", LinearArtifact{Classes: []int{0}, Intercept: []float64{0}}, "at least two classes"},
		{"short intercept", LinearArtifact{Classes: []int{0, 1}, Intercept: []float64{0}}, "intercept"},
		{"unknown column", LinearArtifact{
			Classes: []int{0, 1}, Intercept: []float64{0, 0},
			Numeric: map[string][]float64{"shoe_size": {0, 1}},
		}, "unknown column"},
		{"numeric as categorical", LinearArtifact{
			Classes: []int{0, 1}, Intercept: []float64{0, 0},
			Categorical: map[string]map[string][]float64{"cart_value": {"big": {0, 1}}},
		}, "not categorical"},
		{"categorical as numeric", LinearArtifact{
			Classes: []int{0, 1}, Intercept: []float64{0, 0},
			Numeric: map[string][]float64{"browser": {0, 1}},
		}, "not numeric"},
		{"unknown category", LinearArtifact{
			Classes: []int{0, 1}, Intercept: []float64{0, 0},
			Categorical: map[string]map[string][]float64{"browser": {"Netscape": {0, 1}}},
		}, "no category"},
		{"weight length", LinearArtifact{
			Classes: []int{0, 1}, Intercept: []float64{0, 0},
			Numeric: map[string][]float64{"page_views": {1}},
		}, "weights"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLinearClassifier(tt.a)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLabelEncoder(t *testing.T) {
	_, err := NewLabelEncoder(LabelEncoderArtifact{})
	assert.Error(t, err)
	_, err = NewLabelEncoder(LabelEncoderArtifact{Labels: []string{"a", "a"}})
	assert.Error(t, err)

	e, err := NewLabelEncoder(LabelEncoderArtifact{Labels: []string{"a", "b"}})
	require.NoError(t, err)
	got, err := e.InverseTransform(1)
	require.NoError(t, err)
	assert.Equal(t, "b", got)

	_, err = e.InverseTransform(2)
	assert.Error(t, err)
	_, err = e.InverseTransform(-1)
	assert.Error(t, err)
}

func TestLoadEmbeddedDefaults(t *testing.T) {
	b, err := Load("")
	require.NoError(t, err)

	ctx := context.Background()
	predict := func(c Classifier, in model.PartialInput) int {
		got, err := c.Predict(ctx, baselineRecord(t, in))
		require.NoError(t, err)
		return got
	}

	hesitant := model.PartialInput{SessionDuration: 20, CartValue: 8000, NumItems: 1, DiscountApplied: 0}
	assert.Equal(t, 1, predict(b.Abandonment, hesitant))
	assert.Equal(t, 0, predict(b.Conversion, hesitant))
	assert.Equal(t, 1, predict(b.Intervention, hesitant))

	reason, err := b.ReasonDecoder.InverseTransform(predict(b.Reason, hesitant))
	require.NoError(t, err)
	assert.Equal(t, "High Price", reason)

	typical := model.DefaultPartialInput()
	assert.Equal(t, 0, predict(b.Abandonment, typical))
	assert.Equal(t, 1, predict(b.Conversion, typical))
}

func loadFiles(t *testing.T) fstest.MapFS {
	t.Helper()
	fsys := fstest.MapFS{}
	for _, name := range []string{FileAbandonment, FileReason, FileConversion, FileIntervention, FileReasonEncoder} {
		b, err := embedded.ReadFile("artifacts/" + name)
		require.NoError(t, err)
		fsys[name] = &fstest.MapFile{Data: b}
	}
	return fsys
}

func TestLoadFSFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(fstest.MapFS)
		msg    string
	}{
		{"missing file", func(f fstest.MapFS) { delete(f, FileConversion) }, FileConversion},
		{"bad yaml", func(f fstest.MapFS) {
			f[FileIntervention] = &fstest.MapFile{Data: []byte("classes: [0, 1\n")}
		}, FileIntervention},
		{"non binary class", func(f fstest.MapFS) {
			f[FileAbandonment] = &fstest.MapFile{Data: []byte("classes: [0, 2]\nintercept: [0, 0]\n")}
		}, "binary classifier"},
		{"undecodable reason", func(f fstest.MapFS) {
			f[FileReasonEncoder] = &fstest.MapFile{Data: []byte("labels: [High Price, Shipping Cost]\n")}
		}, "cannot be decoded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := loadFiles(t)
			tt.mutate(fsys)
			_, err := LoadFS(fsys)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
			assert.Equal(t, errx.ArtifactErrorMessage, errx.PublicMessage(err))
		})
	}
}

func TestLoadDirMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}
