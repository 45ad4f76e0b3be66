// Package web serves the prediction forms and the JSON API.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cartsense-poc-v1/server/internal/core"
	errx "github.com/cartsense-poc-v1/server/internal/core/error"
	"github.com/cartsense-poc-v1/server/internal/core/validation"
	"github.com/cartsense-poc-v1/server/internal/metrics"
	"github.com/cartsense-poc-v1/server/internal/predictor/graph"
	"github.com/cartsense-poc-v1/server/internal/predictor/model"
	"github.com/cartsense-poc-v1/server/internal/predictor/rules"
	logx "github.com/cartsense-poc-v1/server/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

type Handler struct {
	runner graph.Runner
	env    core.Environment
	pages  *template.Template
}

func NewHandler(runner graph.Runner, env core.Environment) (*Handler, error) {
	pages, err := template.New("pages").Funcs(template.FuncMap{
		"pct": func(v int) string { return fmt.Sprintf("%.1f%%", float64(v)) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Handler{runner: runner, env: env, pages: pages}, nil
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", h.RulesForm)
	r.Post("/", h.RulesSubmit)
	r.Get("/model", h.ModelForm)
	r.Post("/model", h.ModelSubmit)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/assessments", h.CreateAssessment)
		r.Post("/inferences", h.CreateInference)
	})

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

type rulesPage struct {
	Input        model.BehaviorInput
	Devices      []string
	PriceChanges []string
	Assessment   *model.Assessment
	Errors       map[string]string
}

type modelPage struct {
	Input   model.PartialInput
	Result  *model.InferenceResult
	Errors  map[string]string
	Failure string
}

func newRulesPage(in model.BehaviorInput) rulesPage {
	return rulesPage{
		Input:        in,
		Devices:      model.DeviceMobile.Values(),
		PriceChanges: model.PriceIncreased.Values(),
	}
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.pages.ExecuteTemplate(w, name, data); err != nil {
		logx.Error().Err(err).Str("template", name).Msg("failed to render page")
	}
}

func (h *Handler) RulesForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "rules", newRulesPage(model.DefaultBehaviorInput()))
}

func (h *Handler) RulesSubmit(w http.ResponseWriter, r *http.Request) {
	in, err := parseBehaviorForm(r)
	page := newRulesPage(in)
	if err != nil {
		page.Errors = fieldMap(err)
		h.render(w, errx.StatusOf(err), "rules", page)
		return
	}

	a := h.assess(in)
	page.Assessment = &a
	h.render(w, http.StatusOK, "rules", page)
}

func (h *Handler) ModelForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "model", modelPage{Input: model.DefaultPartialInput()})
}

func (h *Handler) ModelSubmit(w http.ResponseWriter, r *http.Request) {
	in, err := parsePartialForm(r)
	page := modelPage{Input: in}
	if err != nil {
		page.Errors = fieldMap(err)
		h.render(w, errx.StatusOf(err), "model", page)
		return
	}

	res, err := h.runner.Infer(r.Context(), in)
	if err != nil {
		page.Failure = errx.PublicMessage(err)
		h.render(w, errx.StatusOf(err), "model", page)
		return
	}
	page.Result = res
	h.render(w, http.StatusOK, "model", page)
}

// CreateAssessment scores a JSON body. Omitted fields take the form defaults.
func (h *Handler) CreateAssessment(w http.ResponseWriter, r *http.Request) {
	in := model.DefaultBehaviorInput()
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if err := validation.ValidateStruct(&in); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.assess(in))
}

// CreateInference runs the classifier pipeline on a JSON body.
func (h *Handler) CreateInference(w http.ResponseWriter, r *http.Request) {
	in := model.DefaultPartialInput()
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if err := validation.ValidateStruct(&in); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.runner.Infer(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":      "ok",
		"service":     "cartsense",
		"environment": h.env.String(),
	})
}

func (h *Handler) assess(in model.BehaviorInput) model.Assessment {
	a := rules.Assess(in)
	metrics.RecordAssessment(metrics.EngineRules, string(a.Recommendation.Band))
	return a
}
