package rules

import (
	"time"

	"github.com/google/uuid"

	"github.com/cartsense-poc-v1/server/internal/predictor/model"
	logx "github.com/cartsense-poc-v1/server/pkg/logger"
)

// SelectEntry picks the catalog entry for a score. Within a band the first
// matching condition wins, so the choice is always unique.
func SelectEntry(score int, in model.BehaviorInput) string {
	switch BandFor(score) {
	case model.BandCritical:
		switch {
		case in.DiscountOffered < 5 && in.CartValue > 2000:
			return EntryCostHesitation
		case in.SessionTime < 60 && in.ItemsInCart >= 3:
			return EntryRushedCheckout
		default:
			return EntryMultiFactor
		}
	case model.BandHigh:
		switch {
		case in.PaymentAttempts == 1:
			return EntryPaymentFriction
		case in.DiscountOffered >= 10:
			return EntryDiscountUrgency
		default:
			return EntryTrustBuilding
		}
	case model.BandModerate:
		if in.SessionTime > 200 && in.ItemsInCart < 2 {
			return EntryExploratory
		}
		return EntryGentleNudge
	default:
		if in.ItemsInCart >= 3 && in.DiscountOffered >= 10 {
			return EntryLoyalBuyer
		}
		return EntryStableCheckout
	}
}

// Select returns the recommendation and explanation for a score.
func Select(score int, in model.BehaviorInput) model.Recommendation {
	e := catalog[SelectEntry(score, in)]

	explanation, err := e.explanation.RenderString(map[string]any{"score": float64(score)})
	if err != nil {
		// templates are parsed at init, so this only trips on a broken filter
		logx.Error().Err(err).Str("entry", e.id).Msg("failed to render explanation")
	}

	actions := make([]string, len(e.actions))
	copy(actions, e.actions)

	return model.Recommendation{
		Band:        e.band,
		EntryID:     e.id,
		Actions:     actions,
		Explanation: explanation,
	}
}

// Assess scores in and attaches the matching recommendation.
func Assess(in model.BehaviorInput) model.Assessment {
	score := Score(in)
	rec := Select(score, in)

	logx.Debug().
		Int("score", score).
		Str("band", string(rec.Band)).
		Str("entry", rec.EntryID).
		Msg("rule assessment")

	return model.Assessment{
		ID:             uuid.NewString(),
		Probability:    score,
		Recommendation: rec,
		Input:          in,
		CreatedAt:      time.Now().UTC(),
	}
}
