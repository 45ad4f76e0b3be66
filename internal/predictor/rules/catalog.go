package rules

import (
	"fmt"

	"github.com/osteele/liquid"

	"github.com/cartsense-poc-v1/server/internal/predictor/model"
)

// Catalog entry IDs.
const (
	EntryCostHesitation  = "critical-cost-hesitation"
	EntryRushedCheckout  = "critical-rushed-checkout"
	EntryMultiFactor     = "critical-multi-factor"
	EntryPaymentFriction = "high-payment-friction"
	EntryDiscountUrgency = "high-discount-urgency"
	EntryTrustBuilding   = "high-trust-building"
	EntryExploratory     = "moderate-exploratory"
	EntryGentleNudge     = "moderate-gentle-nudge"
	EntryLoyalBuyer      = "low-loyal-buyer"
	EntryStableCheckout  = "low-stable-checkout"
)

type entry struct {
	id          string
	band        model.Band
	actions     []string
	explanation *liquid.Template
}

var (
	engine  = newEngine()
	catalog = map[string]entry{}
)

func newEngine() *liquid.Engine {
	e := liquid.NewEngine()
	// {{ score | pct }} renders 42 as "42.0%"
	e.RegisterFilter("pct", func(v float64) string {
		return fmt.Sprintf("%.1f%%", v)
	})
	return e
}

func register(id string, band model.Band, explanation string, actions ...string) {
	tpl, err := engine.ParseString(explanation)
	if err != nil {
		panic(fmt.Sprintf("rules: parse explanation %s: %v", id, err))
	}
	catalog[id] = entry{id: id, band: band, actions: actions, explanation: tpl}
}

func init() {
	register(EntryCostHesitation, model.BandCritical,
		"The predicted abandonment is very high ({{ score | pct }}). "+
			"High cart value with a low discount suggests cost hesitation. "+
			"Boosting perceived deal value and giving real-time support can recover this sale.",
		"Offer a higher discount (10-15%) or free shipping to incentivize completion.",
		"Use exit-intent popups highlighting savings on their high-value cart.",
		"Provide a limited-time countdown to encourage urgency.",
		"Add live chat to address premium product concerns instantly.",
	)
	register(EntryRushedCheckout, model.BandCritical,
		"The abandonment is very high ({{ score | pct }}), but behavior suggests rush or impatience. "+
			"These users abandon due to a complex process. Simplify and make checkout faster.",
		"Simplify checkout by combining review and payment steps.",
		"Add a progress bar to show how close they are to finishing.",
		"Offer 'Save Cart' or 'Checkout Later' options for convenience.",
		"Send an instant reminder email with their cart summary.",
	)
	register(EntryMultiFactor, model.BandCritical,
		"The abandonment rate is critical ({{ score | pct }}). "+
			"The combination of your inputs shows strong hesitation across multiple factors. "+
			"Multi-channel recovery and trust reassurance are essential.",
		"Trigger personalized offers through SMS or email.",
		"Highlight security badges and payment reliability.",
		"Introduce a 'Buy Now, Pay Later' option for flexibility.",
		"Capture feedback to identify checkout pain points.",
	)

	register(EntryPaymentFriction, model.BandHigh,
		"The abandonment probability is moderately high ({{ score | pct }}). "+
			"Few payment attempts and moderate time suggest friction during checkout. "+
			"Offering reassurance and quick retries can convert these users.",
		"Remind users that multiple secure payment methods are available.",
		"Highlight fast payment options like UPI or wallets.",
		"Offer small incentive like cashback on successful payment.",
		"Send a 'Payment Failed?' assistance email.",
	)
	register(EntryDiscountUrgency, model.BandHigh,
		"The abandonment probability is moderate-high ({{ score | pct }}). "+
			"Users have incentive but may be overwhelmed or distracted. "+
			"Streamlining and reinforcing urgency helps complete the sale.",
		"Emphasize the time-limited nature of the ongoing discount.",
		"Use notification bars like 'Only 2 hours left for this offer!'.",
		"Simplify cart steps to ensure discount clarity.",
		"Avoid overloading with too many upsell prompts.",
	)
	register(EntryTrustBuilding, model.BandHigh,
		"The model predicts a medium-high risk ({{ score | pct }}). "+
			"Behavior suggests hesitation due to perceived risk or indecision. "+
			"Trust-building and gentle incentives are ideal here.",
		"Add testimonials or product ratings to build trust.",
		"Offer small loyalty rewards to complete checkout.",
		"Re-engage via personalized remarketing emails.",
	)

	register(EntryExploratory, model.BandModerate,
		"The predicted abandonment is moderate ({{ score | pct }}). "+
			"Users seem to browse longer with fewer items, indicating exploratory behavior. "+
			"Encouraging cart expansion and value offers may drive completion.",
		"Suggest related or complementary products.",
		"Highlight benefits like free delivery above a minimum order value.",
		"Offer a cart completion bonus like extra loyalty points.",
	)
	register(EntryGentleNudge, model.BandModerate,
		"The abandonment probability is moderate ({{ score | pct }}). "+
			"Users likely distracted or unsure about small details. "+
			"Timely, non-intrusive nudges can re-engage them.",
		"Send a friendly follow-up email after a few hours.",
		"Simplify address or payment steps.",
		"Offer chat support for any checkout questions.",
	)

	register(EntryLoyalBuyer, model.BandLow,
		"Abandonment risk is low ({{ score | pct }}). "+
			"High engagement and discounts show strong purchase intent. "+
			"Focus on rewarding and retaining these users for repeat sales.",
		"Celebrate loyalty with a thank-you banner.",
		"Offer early access to upcoming deals.",
		"Encourage sharing purchase on social media for extra rewards.",
	)
	register(EntryStableCheckout, model.BandLow,
		"The predicted abandonment probability is low ({{ score | pct }}). "+
			"Everything looks stable. Maintain the good flow and encourage satisfaction-driven retention.",
		"Maintain consistent experience and fast checkout.",
		"Reinforce trust with 'Your order is secure' messages.",
		"Encourage feedback for UX improvement.",
	)
}

// EntryIDs lists every catalog entry.
func EntryIDs() []string {
	ids := make([]string, 0, len(catalog))
	for id := range catalog {
		ids = append(ids, id)
	}
	return ids
}
