package model

// DeviceType is the shopper's device class.
type DeviceType string

const (
	DeviceMobile  DeviceType = "Mobile"
	DeviceDesktop DeviceType = "Desktop"
	DeviceTablet  DeviceType = "Tablet"
)

var deviceTypes = []string{string(DeviceMobile), string(DeviceDesktop), string(DeviceTablet)}

func (d DeviceType) IsValid() bool {
	return d == DeviceMobile || d == DeviceDesktop || d == DeviceTablet
}

func (d DeviceType) Values() []string { return deviceTypes }

// PriceChange is the price movement since the shopper's last visit.
type PriceChange string

const (
	PriceIncreased PriceChange = "Increased"
	PriceDecreased PriceChange = "Decreased"
	PriceNoChange  PriceChange = "No Change"
)

var priceChanges = []string{string(PriceIncreased), string(PriceDecreased), string(PriceNoChange)}

func (p PriceChange) IsValid() bool {
	return p == PriceIncreased || p == PriceDecreased || p == PriceNoChange
}

func (p PriceChange) Values() []string { return priceChanges }

// BehaviorInput is one rule-engine request. It lives for a single request.
type BehaviorInput struct {
	SessionTime         int         `json:"session_time" validate:"min=10,max=2000"`
	ItemsInCart         int         `json:"items_in_cart" validate:"min=1,max=20"`
	CartValue           float64     `json:"cart_value" validate:"min=10,max=10000"`
	DiscountOffered     float64     `json:"discount_offered" validate:"min=0,max=100"`
	DeviceType          DeviceType  `json:"device_type" validate:"enum"`
	PaymentAttempts     int         `json:"payment_attempts" validate:"min=0,max=5"`
	EmailOpenRate       float64     `json:"email_open_rate" validate:"min=0,max=100"`
	PreviousAbandonRate float64     `json:"previous_abandon_rate" validate:"min=0,max=100"`
	EngagementScore     float64     `json:"engagement_score" validate:"min=0,max=100"`
	PriceChange         PriceChange `json:"price_change" validate:"enum"`
}

// DefaultBehaviorInput returns the values the form is pre-filled with.
func DefaultBehaviorInput() BehaviorInput {
	return BehaviorInput{
		SessionTime:         300,
		ItemsInCart:         3,
		CartValue:           200,
		DiscountOffered:     10,
		DeviceType:          DeviceMobile,
		PaymentAttempts:     1,
		EmailOpenRate:       40,
		PreviousAbandonRate: 30,
		EngagementScore:     60,
		PriceChange:         PriceIncreased,
	}
}
