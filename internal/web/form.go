package web

import (
	"net/http"
	"strconv"
	"strings"

	errx "github.com/cartsense-poc-v1/server/internal/core/error"
	"github.com/cartsense-poc-v1/server/internal/core/validation"
	"github.com/cartsense-poc-v1/server/internal/predictor/model"
)

// formReader collects parse failures so every bad field is reported at once.
type formReader struct {
	r      *http.Request
	errors []errx.FieldError
}

func (f *formReader) number(name string, dst *float64) {
	v := strings.TrimSpace(f.r.PostFormValue(name))
	if v == "" {
		return
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		f.errors = append(f.errors, errx.FieldError{Field: name, Message: name + " must be a number"})
		return
	}
	*dst = n
}

func (f *formReader) integer(name string, dst *int) {
	v := strings.TrimSpace(f.r.PostFormValue(name))
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		f.errors = append(f.errors, errx.FieldError{Field: name, Message: name + " must be a whole number"})
		return
	}
	*dst = n
}

func (f *formReader) text(name string) (string, bool) {
	v := strings.TrimSpace(f.r.PostFormValue(name))
	return v, v != ""
}

// parseBehaviorForm reads the rule-engine form. Blank fields keep their defaults.
func parseBehaviorForm(r *http.Request) (model.BehaviorInput, error) {
	in := model.DefaultBehaviorInput()
	if err := r.ParseForm(); err != nil {
		return in, errx.WrapValidation([]errx.FieldError{{Field: "form", Message: "malformed form body"}})
	}

	f := &formReader{r: r}
	f.integer("session_time", &in.SessionTime)
	f.integer("items_in_cart", &in.ItemsInCart)
	f.number("cart_value", &in.CartValue)
	f.number("discount_offered", &in.DiscountOffered)
	f.integer("payment_attempts", &in.PaymentAttempts)
	f.number("email_open_rate", &in.EmailOpenRate)
	f.number("previous_abandon_rate", &in.PreviousAbandonRate)
	f.number("engagement_score", &in.EngagementScore)
	if v, ok := f.text("device_type"); ok {
		in.DeviceType = model.DeviceType(v)
	}
	if v, ok := f.text("price_change"); ok {
		in.PriceChange = model.PriceChange(v)
	}

	if len(f.errors) > 0 {
		return in, errx.WrapValidation(f.errors)
	}
	return in, validation.ValidateStruct(&in)
}

// parsePartialForm reads the model-pipeline form.
func parsePartialForm(r *http.Request) (model.PartialInput, error) {
	in := model.DefaultPartialInput()
	if err := r.ParseForm(); err != nil {
		return in, errx.WrapValidation([]errx.FieldError{{Field: "form", Message: "malformed form body"}})
	}

	f := &formReader{r: r}
	f.number("session_duration", &in.SessionDuration)
	f.number("cart_value", &in.CartValue)
	f.number("num_items", &in.NumItems)
	f.number("discount_applied", &in.DiscountApplied)

	if len(f.errors) > 0 {
		return in, errx.WrapValidation(f.errors)
	}
	return in, validation.ValidateStruct(&in)
}

func fieldMap(err error) map[string]string {
	fields := errx.FieldErrors(err)
	if len(fields) == 0 {
		return nil
	}
	m := make(map[string]string, len(fields))
	for _, fe := range fields {
		m[fe.Field] = fe.Message
	}
	return m
}
