package plan

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/subtrackhq/subtrack-go/pkg/enums"
	"github.com/subtrackhq/subtrack-go/pkg/errors"
)

var hundred = decimal.NewFromInt(100)

// DiscountForm mirrors Discount but carries the size in percent (0..100),
// which is what people type.
type DiscountForm struct {
	Title       string          `json:"title" validate:"required,min=2"`
	Code        string          `json:"code" validate:"required,min=2"`
	Description string          `json:"description,omitempty"`
	Size        decimal.Decimal `json:"size" validate:"gte=0,lte=100"`
	ValidUntil  string          `json:"validUntil" validate:"required,datetime=2006-01-02"`
}

// Form is the editable representation of a plan. Fields is kept as a raw
// JSON object string so free-form metadata survives the editor untouched.
type Form struct {
	Title        string          `json:"title" validate:"required,min=5"`
	Price        decimal.Decimal `json:"price" validate:"gte=0"`
	Currency     enums.Currency  `json:"currency" validate:"required,currencycode"`
	BillingCycle enums.Period    `json:"billingCycle" validate:"required,period"`
	Description  string          `json:"description,omitempty"`
	Level        int             `json:"level" validate:"required,gt=0"`
	Features     string          `json:"features"`
	UsageRates   []UsageRate     `json:"usageRates" validate:"dive"`
	Discounts    []DiscountForm  `json:"discounts" validate:"dive"`
	Fields       string          `json:"fields"`
}

// BlankForm returns a form pre-filled with usable defaults.
func BlankForm() Form {
	return Form{
		Currency:     enums.CurrencyUSD,
		BillingCycle: enums.PeriodMonthly,
		Level:        1,
		Fields:       "{}",
	}
}

// ToCreate converts the form into the create projection. Discount sizes go
// from percent to fraction and the fields string is parsed into an object.
func (f Form) ToCreate() (Create, error) {
	fields, err := parseFields(f.Fields)
	if err != nil {
		return Create{}, err
	}
	discounts := make([]Discount, 0, len(f.Discounts))
	for _, d := range f.Discounts {
		discount, err := d.ToDomain()
		if err != nil {
			return Create{}, err
		}
		discounts = append(discounts, discount)
	}
	return Create{
		Title:        strings.TrimSpace(f.Title),
		Price:        f.Price,
		Currency:     f.Currency,
		BillingCycle: f.BillingCycle,
		Description:  strings.TrimSpace(f.Description),
		Level:        f.Level,
		Features:     f.Features,
		UsageRates:   append([]UsageRate(nil), f.UsageRates...),
		Discounts:    discounts,
		Fields:       fields,
	}, nil
}

// DiscountFormFrom renders a canonical discount as its percent-sized form row.
func DiscountFormFrom(d Discount) DiscountForm {
	return DiscountForm{
		Title:       d.Title,
		Code:        d.Code,
		Description: d.Description,
		Size:        d.Size.Mul(hundred),
		ValidUntil:  d.ValidUntil.Format(dateLayout),
	}
}

// ToDomain converts the percent-sized form row into the canonical fraction
// representation.
func (d DiscountForm) ToDomain() (Discount, error) {
	validUntil, err := parseDate(d.ValidUntil)
	if err != nil {
		return Discount{}, errors.Wrap(errors.CodeValidation, err, "discount valid until")
	}
	return Discount{
		Title:       strings.TrimSpace(d.Title),
		Code:        strings.TrimSpace(d.Code),
		Description: strings.TrimSpace(d.Description),
		Size:        d.Size.Div(hundred),
		ValidUntil:  validUntil,
	}, nil
}

// FormFromPlan builds the editable form from a canonical plan. Discount
// sizes go from fraction to percent.
func FormFromPlan(p Plan) (Form, error) {
	fields, err := renderFields(p.Fields)
	if err != nil {
		return Form{}, err
	}
	discounts := make([]DiscountForm, 0, len(p.Discounts))
	for _, d := range p.Discounts {
		discounts = append(discounts, DiscountFormFrom(d))
	}
	return Form{
		Title:        p.Title,
		Price:        p.Price,
		Currency:     p.Currency,
		BillingCycle: p.BillingCycle,
		Description:  p.Description,
		Level:        p.Level,
		Features:     p.Features,
		UsageRates:   append([]UsageRate(nil), p.UsageRates...),
		Discounts:    discounts,
		Fields:       fields,
	}, nil
}

func parseFields(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]any{}, nil
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, errors.Wrap(errors.CodeValidation, err, "fields must be a JSON object")
	}
	return fields, nil
}

func renderFields(fields map[string]any) (string, error) {
	if len(fields) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return "", errors.Wrap(errors.CodeInternal, err, "render plan fields")
	}
	return string(data), nil
}
