package model

import "fmt"

// FeatureKind tells numeric columns from categorical ones.
type FeatureKind string

const (
	Numeric     FeatureKind = "numeric"
	Categorical FeatureKind = "categorical"
)

// Names of the four columns a shopper actually supplies.
const (
	FeatureSessionDuration = "session_duration"
	FeatureCartValue       = "cart_value"
	FeatureNumItems        = "num_items"
	FeatureDiscountApplied = "discount_applied"
)

// FeatureColumn describes one classifier input column.
// Min/Max bound numeric columns; Categories lists categorical ones.
// Baseline is the fill used by the baseline padding strategy.
type FeatureColumn struct {
	Name       string
	Kind       FeatureKind
	Observed   bool
	Min, Max   float64
	Categories []string
	Baseline   any
}

// FeatureSchema is the fixed 20-column shape every classifier consumes.
var FeatureSchema = []FeatureColumn{
	{Name: FeatureSessionDuration, Kind: Numeric, Observed: true, Min: 10, Max: 2000, Baseline: 300.0},
	{Name: FeatureCartValue, Kind: Numeric, Observed: true, Min: 10, Max: 10000, Baseline: 200.0},
	{Name: FeatureNumItems, Kind: Numeric, Observed: true, Min: 1, Max: 20, Baseline: 3.0},
	{Name: FeatureDiscountApplied, Kind: Numeric, Observed: true, Min: 0, Max: 100, Baseline: 10.0},

	{Name: "page_views", Kind: Numeric, Min: 1, Max: 50, Baseline: 8.0},
	{Name: "time_on_checkout", Kind: Numeric, Min: 0, Max: 600, Baseline: 90.0},
	{Name: "previous_purchases", Kind: Numeric, Min: 0, Max: 20, Baseline: 2.0},
	{Name: "previous_abandonments", Kind: Numeric, Min: 0, Max: 10, Baseline: 1.0},
	{Name: "email_open_rate", Kind: Numeric, Min: 0, Max: 100, Baseline: 40.0},
	{Name: "engagement_score", Kind: Numeric, Min: 0, Max: 100, Baseline: 60.0},
	{Name: "payment_attempts", Kind: Numeric, Min: 0, Max: 5, Baseline: 1.0},
	{Name: "customer_age", Kind: Numeric, Min: 18, Max: 75, Baseline: 35.0},

	{Name: "device_type", Kind: Categorical, Categories: []string{"Mobile", "Desktop", "Tablet"}, Baseline: "Mobile"},
	{Name: "browser", Kind: Categorical, Categories: []string{"Chrome", "Safari", "Firefox", "Edge"}, Baseline: "Chrome"},
	{Name: "traffic_source", Kind: Categorical, Categories: []string{"Organic", "Paid", "Social", "Email", "Direct"}, Baseline: "Organic"},
	{Name: "customer_type", Kind: Categorical, Categories: []string{"New", "Returning"}, Baseline: "Returning"},
	{Name: "payment_method", Kind: Categorical, Categories: []string{"Card", "PayPal", "UPI", "Wallet", "COD"}, Baseline: "Card"},
	{Name: "shipping_option", Kind: Categorical, Categories: []string{"Standard", "Express", "Free"}, Baseline: "Standard"},
	{Name: "price_change", Kind: Categorical, Categories: []string{"Increased", "Decreased", "No Change"}, Baseline: "No Change"},
	{Name: "day_of_week", Kind: Categorical, Categories: []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}, Baseline: "Wed"},
}

var schemaIndex = func() map[string]int {
	idx := make(map[string]int, len(FeatureSchema))
	for i, s := range FeatureSchema {
		idx[s.Name] = i
	}
	return idx
}()

// LookupFeature returns the column definition for a name.
func LookupFeature(name string) (FeatureColumn, bool) {
	i, ok := schemaIndex[name]
	if !ok {
		return FeatureColumn{}, false
	}
	return FeatureSchema[i], true
}

// HasCategory reports whether v is one of the column's categories.
func (s FeatureColumn) HasCategory(v string) bool {
	for _, c := range s.Categories {
		if c == v {
			return true
		}
	}
	return false
}

// FeatureValue is one filled column. Exactly one of Number/Category is meaningful,
// depending on the column kind.
type FeatureValue struct {
	Number   float64
	Category string
	Imputed  bool
}

// FeatureRecord is a padded classifier input keyed by column name.
type FeatureRecord struct {
	values map[string]FeatureValue
}

func NewFeatureRecord() *FeatureRecord {
	return &FeatureRecord{values: make(map[string]FeatureValue, len(FeatureSchema))}
}

// Set stores a column value. Unknown column names are rejected.
func (r *FeatureRecord) Set(name string, v FeatureValue) error {
	if _, ok := schemaIndex[name]; !ok {
		return fmt.Errorf("unknown feature %q", name)
	}
	r.values[name] = v
	return nil
}

func (r *FeatureRecord) Get(name string) (FeatureValue, bool) {
	v, ok := r.values[name]
	return v, ok
}

func (r *FeatureRecord) Len() int {
	return len(r.values)
}

// Missing lists schema columns that have no value, in schema order.
func (r *FeatureRecord) Missing() []string {
	var out []string
	for _, s := range FeatureSchema {
		if _, ok := r.values[s.Name]; !ok {
			out = append(out, s.Name)
		}
	}
	return out
}

// Imputed lists columns filled by padding, in schema order.
func (r *FeatureRecord) Imputed() []string {
	var out []string
	for _, s := range FeatureSchema {
		if v, ok := r.values[s.Name]; ok && v.Imputed {
			out = append(out, s.Name)
		}
	}
	return out
}
