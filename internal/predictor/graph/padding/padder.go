// Package padding fills the classifier columns the model form does not collect.
//
// The random strategy is the legacy behavior: unobserved columns become
// uniform noise, which makes reason/conversion/intervention predictions
// non-reproducible and unrelated to the shopper. The baseline strategy fills
// them with fixed schema baselines instead and is the default.
package padding

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/cartsense-poc-v1/server/internal/predictor/model"
)

type Strategy string

const (
	StrategyBaseline Strategy = "baseline"
	StrategyRandom   Strategy = "random"
)

// ParseStrategy accepts the PADDING_STRATEGY values.
func ParseStrategy(v string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(v))) {
	case StrategyBaseline, "":
		return StrategyBaseline, nil
	case StrategyRandom:
		return StrategyRandom, nil
	default:
		return "", fmt.Errorf("unknown padding strategy %q", v)
	}
}

// Padder turns a PartialInput into a full 20-column FeatureRecord.
// It is safe for concurrent use.
type Padder struct {
	strategy Strategy

	mu  sync.Mutex
	rng *rand.Rand
}

// New builds a Padder. A zero seed gives an unseeded random source.
func New(strategy Strategy, seed uint64) *Padder {
	var src rand.Source
	if seed == 0 {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	} else {
		src = rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	}
	return &Padder{strategy: strategy, rng: rand.New(src)}
}

func (p *Padder) Strategy() Strategy {
	return p.strategy
}

// Reproducible reports whether the same input always pads to the same record.
func (p *Padder) Reproducible() bool {
	return p.strategy == StrategyBaseline
}

// Pad returns a record holding every schema column.
func (p *Padder) Pad(in model.PartialInput) (*model.FeatureRecord, error) {
	observed := map[string]float64{
		model.FeatureSessionDuration: in.SessionDuration,
		model.FeatureCartValue:       in.CartValue,
		model.FeatureNumItems:        in.NumItems,
		model.FeatureDiscountApplied: in.DiscountApplied,
	}

	rec := model.NewFeatureRecord()
	for _, def := range model.FeatureSchema {
		var v model.FeatureValue
		if n, ok := observed[def.Name]; ok && def.Observed {
			v = model.FeatureValue{Number: n}
		} else {
			v = p.fill(def)
			v.Imputed = true
		}
		if err := rec.Set(def.Name, v); err != nil {
			return nil, err
		}
	}

	if missing := rec.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("padded record is missing columns: %s", strings.Join(missing, ", "))
	}
	return rec, nil
}

func (p *Padder) fill(def model.FeatureColumn) model.FeatureValue {
	if p.strategy == StrategyBaseline {
		switch b := def.Baseline.(type) {
		case float64:
			return model.FeatureValue{Number: b}
		case string:
			return model.FeatureValue{Category: b}
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if def.Kind == model.Categorical {
		return model.FeatureValue{Category: def.Categories[p.rng.IntN(len(def.Categories))]}
	}
	lo, hi := int(def.Min), int(def.Max)
	return model.FeatureValue{Number: float64(lo + p.rng.IntN(hi-lo+1))}
}
