// Package plan holds the pricing plan domain: the canonical entity, its
// create/update projection, form input with its validation rules, and the
// gateway to the remote API.
package plan

import (
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/subtrackhq/subtrack-go/pkg/enums"
)

// UsageRate describes a metered resource included in a plan. Codes are
// unique within one plan.
type UsageRate struct {
	Title          string          `json:"title" validate:"required,min=2"`
	Code           string          `json:"code" validate:"required,min=2"`
	Unit           string          `json:"unit" validate:"required"`
	AvailableUnits decimal.Decimal `json:"availableUnits" validate:"gt=0"`
	RenewCycle     enums.Period    `json:"renewCycle" validate:"required,period"`
}

// Discount is a price reduction attached to a plan. Size is the canonical
// fraction representation (0..1); forms work in percent and the mapper
// converts.
type Discount struct {
	Title       string          `json:"title" validate:"required,min=2"`
	Code        string          `json:"code" validate:"required,min=2"`
	Description string          `json:"description,omitempty"`
	Size        decimal.Decimal `json:"size" validate:"gte=0,lte=1"`
	ValidUntil  time.Time       `json:"validUntil" validate:"required"`
}

// Plan is the canonical entity as owned by the remote API.
type Plan struct {
	ID           uuid.UUID       `json:"id" validate:"required"`
	Title        string          `json:"title" validate:"required"`
	Price        decimal.Decimal `json:"price" validate:"gte=0"`
	Currency     enums.Currency  `json:"currency" validate:"required,currencycode"`
	BillingCycle enums.Period    `json:"billingCycle" validate:"required,period"`
	Description  string          `json:"description,omitempty"`
	Level        int             `json:"level" validate:"required,gt=0"`
	Features     string          `json:"features"`
	UsageRates   []UsageRate     `json:"usageRates" validate:"dive"`
	Discounts    []Discount      `json:"discounts" validate:"dive"`
	Fields       map[string]any  `json:"fields"`
	CreatedAt    time.Time       `json:"createdAt" validate:"required"`
	UpdatedAt    time.Time       `json:"updatedAt" validate:"required"`
}

// Create is the projection submitted to create a plan. The API assigns id
// and timestamps.
type Create struct {
	Title        string          `json:"title" validate:"required,min=5"`
	Price        decimal.Decimal `json:"price" validate:"gte=0"`
	Currency     enums.Currency  `json:"currency" validate:"required,currencycode"`
	BillingCycle enums.Period    `json:"billingCycle" validate:"required,period"`
	Description  string          `json:"description,omitempty"`
	Level        int             `json:"level" validate:"required,gt=0"`
	Features     string          `json:"features"`
	UsageRates   []UsageRate     `json:"usageRates" validate:"dive"`
	Discounts    []Discount      `json:"discounts" validate:"dive"`
	Fields       map[string]any  `json:"fields"`
}

// Update is the create projection plus the target id.
type Update struct {
	ID uuid.UUID `json:"id" validate:"required"`
	Create
}

// CU builds the update projection from a canonical plan.
func CU(p Plan) Update {
	return Update{
		ID: p.ID,
		Create: Create{
			Title:        p.Title,
			Price:        p.Price,
			Currency:     p.Currency,
			BillingCycle: p.BillingCycle,
			Description:  p.Description,
			Level:        p.Level,
			Features:     p.Features,
			UsageRates:   append([]UsageRate(nil), p.UsageRates...),
			Discounts:    append([]Discount(nil), p.Discounts...),
			Fields:       cloneFields(p.Fields),
		},
	}
}

// Sby scopes list and batch delete operations.
type Sby struct {
	IDs   []uuid.UUID
	Skip  int
	Limit int
}

// QueryValues renders the criteria as query parameters, with ids repeated in
// the order given.
func (s Sby) QueryValues() url.Values {
	values := url.Values{}
	for _, id := range s.IDs {
		values.Add("ids", id.String())
	}
	if s.Skip > 0 {
		values.Set("skip", strconv.Itoa(s.Skip))
	}
	if s.Limit > 0 {
		values.Set("limit", strconv.Itoa(s.Limit))
	}
	return values
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
