// Package rules is the hand-written abandonment scorer and the
// recommendation table that goes with it.
package rules

import "github.com/cartsense-poc-v1/server/internal/predictor/model"

const (
	MinScore = 0
	MaxScore = 100
)

// Score returns the heuristic abandonment probability for in, in [0,100].
// Adjustments are applied in a fixed order and the sum is clamped once at the end.
func Score(in model.BehaviorInput) int {
	score := 0

	switch {
	case in.SessionTime < 120:
		score += 25
	case in.SessionTime < 300:
		score += 15
	default:
		score += 5
	}

	switch {
	case in.CartValue > 1000:
		score += 15
	case in.CartValue < 100:
		score -= 10
	}

	switch {
	case in.DiscountOffered >= 30:
		score -= 20
	case in.DiscountOffered < 5:
		score += 10
	}

	if in.EmailOpenRate < 20 {
		score += 15
	} else {
		score -= 10
	}

	switch in.DeviceType {
	case model.DeviceMobile:
		score += 10
	case model.DeviceDesktop:
		score -= 5
	}

	if in.PreviousAbandonRate > 50 {
		score += 20
	}

	if in.EngagementScore < 40 {
		score += 20
	} else {
		score -= 10
	}

	switch in.PriceChange {
	case model.PriceIncreased:
		score += 15
	case model.PriceDecreased:
		score -= 10
	}

	return clamp(score, MinScore, MaxScore)
}

// BandFor maps a score to its probability band. Every integer maps to exactly one band.
func BandFor(score int) model.Band {
	switch {
	case score > 75:
		return model.BandCritical
	case score > 50:
		return model.BandHigh
	case score > 30:
		return model.BandModerate
	default:
		return model.BandLow
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
