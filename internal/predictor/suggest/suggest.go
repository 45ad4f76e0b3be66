package suggest

import "strings"

// Reason labels the reason classifier is trained on.
const (
	ReasonHighPrice       = "High Price"
	ReasonShippingCost    = "Shipping Cost"
	ReasonComplexCheckout = "Complex Checkout"
	ReasonPaymentIssues   = "Payment Issues"
	ReasonJustBrowsing    = "Just Browsing"
)

const (
	NoIntervention = "No intervention needed. The customer is likely to complete the purchase."
	Generic        = "Send a personalized follow-up message to re-engage the customer."
)

var byReason = map[string]string{
	strings.ToLower(ReasonHighPrice):       "Offer a limited-time discount or coupon code to offset price concerns.",
	strings.ToLower(ReasonShippingCost):    "Offer free or discounted shipping on this order.",
	strings.ToLower(ReasonComplexCheckout): "Simplify the checkout flow and enable one-page or guest checkout.",
	strings.ToLower(ReasonPaymentIssues):   "Offer alternative payment methods and reassure the customer about payment security.",
	strings.ToLower(ReasonJustBrowsing):    "Send a reminder email with the saved cart and related product recommendations.",
}

// Suggest maps a decoded prediction to a suggestion. Reason matching ignores case
// and surrounding whitespace; non-abandoning shoppers always get NoIntervention.
func Suggest(abandon bool, reason string) string {
	if !abandon {
		return NoIntervention
	}
	if s, ok := byReason[strings.ToLower(strings.TrimSpace(reason))]; ok {
		return s
	}
	return Generic
}

// Reasons lists the known reason labels.
func Reasons() []string {
	return []string{ReasonHighPrice, ReasonShippingCost, ReasonComplexCheckout, ReasonPaymentIssues, ReasonJustBrowsing}
}
