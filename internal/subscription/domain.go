// Package subscription holds the subscription domain: plan snapshot, billing
// state, metered usage, and the gateway to the remote API.
package subscription

import (
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/subtrackhq/subtrack-go/internal/plan"
	"github.com/subtrackhq/subtrack-go/pkg/enums"
	"github.com/subtrackhq/subtrack-go/pkg/validate"
)

// PlanInfo is the snapshot of the plan taken when the subscription was
// created. It does not follow later plan edits.
type PlanInfo struct {
	ID          uuid.UUID `json:"id" validate:"required"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description,omitempty"`
	Level       int       `json:"level" validate:"required,gt=0"`
	Features    string    `json:"features"`
}

// BillingInfo is the billing state of one subscription.
type BillingInfo struct {
	Price        decimal.Decimal `json:"price" validate:"gte=0"`
	Currency     enums.Currency  `json:"currency" validate:"required,currencycode"`
	BillingCycle enums.Period    `json:"billingCycle" validate:"required,period"`
	LastBilling  time.Time       `json:"lastBilling" validate:"required"`
	SavedDays    int             `json:"savedDays" validate:"gte=0"`
}

// Usage is a plan usage rate plus the subscriber's consumption against it.
type Usage struct {
	Title          string          `json:"title" validate:"required,min=2"`
	Code           string          `json:"code" validate:"required,min=2"`
	Unit           string          `json:"unit" validate:"required"`
	AvailableUnits decimal.Decimal `json:"availableUnits" validate:"gt=0"`
	RenewCycle     enums.Period    `json:"renewCycle" validate:"required,period"`
	UsedUnits      decimal.Decimal `json:"usedUnits" validate:"gte=0"`
	LastRenew      time.Time       `json:"lastRenew" validate:"required"`
}

// Rate is the plan usage rate this usage tracks consumption against.
func (u Usage) Rate() plan.UsageRate {
	return plan.UsageRate{
		Title:          u.Title,
		Code:           u.Code,
		Unit:           u.Unit,
		AvailableUnits: u.AvailableUnits,
		RenewCycle:     u.RenewCycle,
	}
}

// Remaining is how many units are left in the current window, floored at
// zero.
func (u Usage) Remaining() decimal.Decimal {
	remaining := u.AvailableUnits.Sub(u.UsedUnits)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// Subscription is the canonical entity as owned by the remote API.
type Subscription struct {
	ID           uuid.UUID                `json:"id" validate:"required"`
	SubscriberID string                   `json:"subscriberId" validate:"required"`
	PlanInfo     PlanInfo                 `json:"planInfo"`
	BillingInfo  BillingInfo              `json:"billingInfo"`
	Status       enums.SubscriptionStatus `json:"status" validate:"required,substatus"`
	PausedFrom   *time.Time               `json:"pausedFrom,omitempty"`
	Autorenew    bool                     `json:"autorenew"`
	Usages       []Usage                  `json:"usages" validate:"dive"`
	Discounts    []plan.Discount          `json:"discounts" validate:"dive"`
	Fields       map[string]any           `json:"fields"`
	CreatedAt    time.Time                `json:"createdAt" validate:"required"`
	UpdatedAt    time.Time                `json:"updatedAt" validate:"required"`
}

// Create is the projection submitted to create a subscription.
type Create struct {
	SubscriberID string                   `json:"subscriberId" validate:"required"`
	PlanInfo     PlanInfo                 `json:"planInfo"`
	BillingInfo  BillingInfo              `json:"billingInfo"`
	Status       enums.SubscriptionStatus `json:"status" validate:"required,substatus"`
	PausedFrom   *time.Time               `json:"pausedFrom,omitempty"`
	Autorenew    bool                     `json:"autorenew"`
	Usages       []Usage                  `json:"usages" validate:"dive"`
	Discounts    []plan.Discount          `json:"discounts" validate:"dive"`
	Fields       map[string]any           `json:"fields"`
}

// Update is the create projection plus the target id.
type Update struct {
	ID uuid.UUID `json:"id" validate:"required"`
	Create
}

// CU builds the update projection from a canonical subscription.
func CU(s Subscription) Update {
	return Update{
		ID: s.ID,
		Create: Create{
			SubscriberID: s.SubscriberID,
			PlanInfo:     s.PlanInfo,
			BillingInfo:  s.BillingInfo,
			Status:       s.Status,
			PausedFrom:   clonePausedFrom(s.PausedFrom),
			Autorenew:    s.Autorenew,
			Usages:       append([]Usage(nil), s.Usages...),
			Discounts:    append([]plan.Discount(nil), s.Discounts...),
			Fields:       cloneFields(s.Fields),
		},
	}
}

// Sby scopes list and batch delete operations.
type Sby struct {
	IDs          []uuid.UUID
	SubscriberID string
	Skip         int
	Limit        int
}

// QueryValues renders the criteria as query parameters, with ids repeated in
// the order given.
func (s Sby) QueryValues() url.Values {
	values := url.Values{}
	for _, id := range s.IDs {
		values.Add("ids", id.String())
	}
	if s.SubscriberID != "" {
		values.Set("subscriber_id", s.SubscriberID)
	}
	if s.Skip > 0 {
		values.Set("skip", strconv.Itoa(s.Skip))
	}
	if s.Limit > 0 {
		values.Set("limit", strconv.Itoa(s.Limit))
	}
	return values
}

func clonePausedFrom(pausedFrom *time.Time) *time.Time {
	if pausedFrom == nil {
		return nil
	}
	v := *pausedFrom
	return &v
}

func cloneFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func init() {
	validate.RegisterStructValidation(pausedFromRule(func(v any) (enums.SubscriptionStatus, *time.Time) {
		s := v.(Subscription)
		return s.Status, s.PausedFrom
	}), Subscription{})
	validate.RegisterStructValidation(pausedFromRule(func(v any) (enums.SubscriptionStatus, *time.Time) {
		c := v.(Create)
		return c.Status, c.PausedFrom
	}), Create{})
}
