package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartsense-poc-v1/server/internal/core"
	errx "github.com/cartsense-poc-v1/server/internal/core/error"
	"github.com/cartsense-poc-v1/server/internal/predictor/graph"
	"github.com/cartsense-poc-v1/server/internal/predictor/graph/classifiers"
	"github.com/cartsense-poc-v1/server/internal/predictor/graph/padding"
	"github.com/cartsense-poc-v1/server/internal/predictor/model"
	"github.com/cartsense-poc-v1/server/internal/predictor/rules"
	"github.com/cartsense-poc-v1/server/internal/predictor/suggest"
)

type stubRunner struct {
	res *model.InferenceResult
	err error
	got model.PartialInput
}

func (s *stubRunner) Infer(ctx context.Context, in model.PartialInput) (*model.InferenceResult, error) {
	s.got = in
	return s.res, s.err
}

func newServer(t *testing.T, runner graph.Runner) http.Handler {
	t.Helper()
	h, err := NewHandler(runner, core.Testing)
	require.NoError(t, err)
	return h.Routes()
}

func realRunner(t *testing.T) graph.Runner {
	t.Helper()
	b, err := classifiers.Load("")
	require.NoError(t, err)
	r, err := graph.BuildInferenceGraph(context.Background(), graph.Config{
		Bundle: b,
		Padder: padding.New(padding.StrategyBaseline, 0),
	})
	require.NoError(t, err)
	return r
}

func postForm(srv http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func postJSON(srv http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestRulesFormShowsDefaults(t *testing.T) {
	srv := newServer(t, &stubRunner{})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `name="session_time" min="10" max="2000" value="300"`)
	assert.Contains(t, body, "<option selected>Mobile</option>")
	assert.Contains(t, body, "click 'Predict Now'")
}

func TestRulesSubmitRendersAssessment(t *testing.T) {
	srv := newServer(t, &stubRunner{})
	rec := postForm(srv, "/", url.Values{
		"session_time":          {"300"},
		"items_in_cart":         {"3"},
		"cart_value":            {"200"},
		"discount_offered":      {"10"},
		"device_type":           {"Desktop"},
		"payment_attempts":      {"1"},
		"email_open_rate":       {"40"},
		"previous_abandon_rate": {"30"},
		"engagement_score":      {"60"},
		"price_change":          {"No Change"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<strong>Abandonment probability:</strong> 0.0%")
	assert.Contains(t, body, "Celebrate loyalty with a thank-you banner.")
	assert.Contains(t, body, "<option selected>Desktop</option>")
}

func TestRulesSubmitRejectsOutOfRange(t *testing.T) {
	srv := newServer(t, &stubRunner{})
	rec := postForm(srv, "/", url.Values{
		"cart_value":  {"5"},
		"device_type": {"Watch"},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "cart_value must be at least 10")
	assert.Contains(t, body, "device_type must be one of: Mobile, Desktop, Tablet")
	assert.NotContains(t, body, "Prediction summary")
}

func TestRulesSubmitRejectsNonNumbers(t *testing.T) {
	srv := newServer(t, &stubRunner{})
	rec := postForm(srv, "/", url.Values{"session_time": {"ten"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "session_time must be a whole number")
}

func TestModelSubmitRendersResult(t *testing.T) {
	srv := newServer(t, realRunner(t))
	rec := postForm(srv, "/model", url.Values{
		"session_duration": {"20"},
		"cart_value":       {"8000"},
		"num_items":        {"1"},
		"discount_applied": {"0"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<strong>Will abandon:</strong> Yes")
	assert.Contains(t, body, "<strong>Likely reason:</strong> High Price")
	assert.Contains(t, body, suggest.Suggest(true, suggest.ReasonHighPrice))
	assert.Contains(t, body, "16 of the model's inputs")
}

func TestModelSubmitShowsGenericFailure(t *testing.T) {
	srv := newServer(t, &stubRunner{err: errx.WrapInference(errors.New("reason.yaml: shape mismatch"))})
	rec := postForm(srv, "/model", url.Values{"cart_value": {"500"}})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "An error occurred during prediction. Please try again.")
	assert.NotContains(t, body, "shape mismatch")
}

func TestCreateAssessmentJSON(t *testing.T) {
	srv := newServer(t, &stubRunner{})
	rec := postJSON(srv, "/api/v1/assessments", `{"session_time": 50, "items_in_cart": 4, "cart_value": 500,
		"discount_offered": 0, "device_type": "Mobile", "email_open_rate": 10,
		"previous_abandon_rate": 80, "engagement_score": 10, "price_change": "Increased"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var got model.Assessment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 100, got.Probability)
	assert.Equal(t, model.BandCritical, got.Recommendation.Band)
	assert.Equal(t, rules.EntryRushedCheckout, got.Recommendation.EntryID)
	assert.NotEmpty(t, got.ID)
}

func TestCreateAssessmentUsesDefaultsForOmittedFields(t *testing.T) {
	srv := newServer(t, &stubRunner{})
	rec := postJSON(srv, "/api/v1/assessments", `{}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var got model.Assessment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, model.DefaultBehaviorInput(), got.Input)
	assert.Equal(t, rules.Score(model.DefaultBehaviorInput()), got.Probability)
}

func TestCreateAssessmentRejects(t *testing.T) {
	srv := newServer(t, &stubRunner{})

	rec := postJSON(srv, "/api/v1/assessments", `{"engagement_score": 101}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, errx.ValidationErrorMessage, body.Error)
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "engagement_score", body.Fields[0].Field)

	rec = postJSON(srv, "/api/v1/assessments", `{"loyalty_tier": "gold"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(srv, "/api/v1/assessments", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateInferenceJSON(t *testing.T) {
	stub := &stubRunner{res: &model.InferenceResult{
		ID:         "abc",
		Prediction: model.Prediction{Abandon: true, Reason: "Shipping Cost"},
		Suggestion: suggest.Suggest(true, "Shipping Cost"),
	}}
	srv := newServer(t, stub)
	rec := postJSON(srv, "/api/v1/inferences", `{"cart_value": 900, "num_items": 2}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.PartialInput{SessionDuration: 300, CartValue: 900, NumItems: 2, DiscountApplied: 10}, stub.got)

	var got model.InferenceResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Abandon)
	assert.Equal(t, "Shipping Cost", got.Reason)
}

func TestCreateInferenceFailure(t *testing.T) {
	srv := newServer(t, &stubRunner{err: errx.WrapInference(errors.New("boom"))})
	rec := postJSON(srv, "/api/v1/inferences", `{}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, errx.InferenceErrorMessage, body.Error)
	assert.Empty(t, body.Fields)
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newServer(t, &stubRunner{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"environment":"testing"`)

	postJSON(srv, "/api/v1/assessments", `{}`)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cartsense_assessments_total")
}
