package subscription

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/subtrackhq/subtrack-go/internal/plan"
	"github.com/subtrackhq/subtrack-go/pkg/enums"
	"github.com/subtrackhq/subtrack-go/pkg/errors"
	"github.com/subtrackhq/subtrack-go/pkg/selection"
)

// Form is the editable representation of a subscription. Plan and status are
// carried as selected options so the editor can render the choice lists it was
// built from.
type Form struct {
	SubscriberID string                                   `json:"subscriberId" validate:"required"`
	Plan         selection.Item[plan.Plan]                `json:"plan" validate:"-"`
	Status       selection.Item[enums.SubscriptionStatus] `json:"status" validate:"-"`
	PausedFrom   string                                   `json:"pausedFrom,omitempty"`
	Autorenew    bool                                     `json:"autorenew"`
	Usages       []Usage                                  `json:"usages" validate:"dive"`
	Discounts    []plan.DiscountForm                      `json:"discounts" validate:"dive"`
	Fields       string                                   `json:"fields"`
}

// BlankForm returns a form pre-filled with usable defaults.
func BlankForm() Form {
	status, _ := StatusOptions().ByKey(enums.SubscriptionStatusActive.String())
	return Form{
		Status:    status,
		Autorenew: true,
		Fields:    "{}",
	}
}

// ToCreate converts the form into the create projection. The billing window
// opens at now for a newly selected plan.
func (f Form) ToCreate(now time.Time) (Create, error) {
	if f.Plan.Key == "" {
		return Create{}, errors.New(errors.CodeValidation, "a plan must be selected")
	}
	create := NewFromPlan(strings.TrimSpace(f.SubscriberID), f.Plan.Value, now)
	create.Status = f.Status.Value
	create.Autorenew = f.Autorenew

	if strings.TrimSpace(f.PausedFrom) != "" {
		pausedFrom, err := time.Parse(dateLayout, strings.TrimSpace(f.PausedFrom))
		if err != nil {
			return Create{}, errors.Wrap(errors.CodeValidation, err, "paused from")
		}
		create.PausedFrom = &pausedFrom
	}

	if len(f.Usages) > 0 {
		create.Usages = append([]Usage(nil), f.Usages...)
	}
	if len(f.Discounts) > 0 {
		discounts := make([]plan.Discount, 0, len(f.Discounts))
		for _, d := range f.Discounts {
			discount, err := d.ToDomain()
			if err != nil {
				return Create{}, err
			}
			discounts = append(discounts, discount)
		}
		create.Discounts = discounts
	}

	fields, err := parseFields(f.Fields)
	if err != nil {
		return Create{}, err
	}
	create.Fields = fields
	return create, nil
}

// FormFromSubscription builds the editable form. The subscription's plan
// snapshot is upserted into the offered plans so the current choice stays
// selectable even when the plan was edited or retired since.
func FormFromSubscription(s Subscription, plans []plan.Plan) (Form, error) {
	options := PlanOptions(plans)
	snapshot := planFromSnapshot(s)
	options = selection.Upsert(options, selection.Item[plan.Plan]{
		Label: snapshot.Title,
		Key:   snapshot.ID.String(),
		Value: snapshot,
	})
	selected, _ := options.ByKey(s.PlanInfo.ID.String())

	status, _ := StatusOptions().ByKey(s.Status.String())

	pausedFrom := ""
	if s.PausedFrom != nil {
		pausedFrom = s.PausedFrom.Format(dateLayout)
	}

	fields, err := renderFields(s.Fields)
	if err != nil {
		return Form{}, err
	}

	discounts := make([]plan.DiscountForm, 0, len(s.Discounts))
	for _, d := range s.Discounts {
		discounts = append(discounts, plan.DiscountFormFrom(d))
	}

	return Form{
		SubscriberID: s.SubscriberID,
		Plan:         selected,
		Status:       status,
		PausedFrom:   pausedFrom,
		Autorenew:    s.Autorenew,
		Usages:       append([]Usage(nil), s.Usages...),
		Discounts:    discounts,
		Fields:       fields,
	}, nil
}

// planFromSnapshot reconstructs a plan value from the subscription's stored
// snapshot and billing state.
func planFromSnapshot(s Subscription) plan.Plan {
	rates := make([]plan.UsageRate, 0, len(s.Usages))
	for _, usage := range s.Usages {
		rates = append(rates, usage.Rate())
	}
	return plan.Plan{
		ID:           s.PlanInfo.ID,
		Title:        s.PlanInfo.Title,
		Description:  s.PlanInfo.Description,
		Level:        s.PlanInfo.Level,
		Features:     s.PlanInfo.Features,
		Price:        s.BillingInfo.Price,
		Currency:     s.BillingInfo.Currency,
		BillingCycle: s.BillingInfo.BillingCycle,
		UsageRates:   rates,
		Discounts:    append([]plan.Discount(nil), s.Discounts...),
	}
}

// PlanOptions renders plans as selectable options keyed by id.
func PlanOptions(plans []plan.Plan) selection.List[plan.Plan] {
	options := make(selection.List[plan.Plan], 0, len(plans))
	for _, p := range plans {
		options = append(options, selection.Item[plan.Plan]{
			Label: p.Title,
			Key:   p.ID.String(),
			Value: p,
		})
	}
	return options
}

// StatusOptions lists the selectable subscription statuses.
func StatusOptions() selection.List[enums.SubscriptionStatus] {
	statuses := enums.AllSubscriptionStatuses()
	options := make(selection.List[enums.SubscriptionStatus], 0, len(statuses))
	for _, status := range statuses {
		options = append(options, selection.Item[enums.SubscriptionStatus]{
			Label: strings.ToUpper(status.String()[:1]) + status.String()[1:],
			Key:   status.String(),
			Value: status,
		})
	}
	return options
}

// PeriodOptions lists the selectable billing periods.
func PeriodOptions() selection.List[enums.Period] {
	periods := enums.AllPeriods()
	options := make(selection.List[enums.Period], 0, len(periods))
	for _, period := range periods {
		options = append(options, selection.Item[enums.Period]{
			Label: strings.ToUpper(period.String()[:1]) + period.String()[1:],
			Key:   period.String(),
			Value: period,
		})
	}
	return options
}

// UsagesByPlan groups fresh usage objects by plan id, one group per offered
// plan, so the editor can swap the usage rows when another plan is picked.
func UsagesByPlan(plans []plan.Plan, now time.Time) map[uuid.UUID][]Usage {
	grouped := make(map[uuid.UUID][]Usage, len(plans))
	for _, p := range plans {
		usages := make([]Usage, 0, len(p.UsageRates))
		for _, rate := range p.UsageRates {
			usages = append(usages, UsageFromUsageRate(rate, now))
		}
		grouped[p.ID] = usages
	}
	return grouped
}

// DiscountsByPlan groups each plan's discounts as form rows by plan id.
func DiscountsByPlan(plans []plan.Plan) map[uuid.UUID][]plan.DiscountForm {
	grouped := make(map[uuid.UUID][]plan.DiscountForm, len(plans))
	for _, p := range plans {
		forms := make([]plan.DiscountForm, 0, len(p.Discounts))
		for _, d := range p.Discounts {
			forms = append(forms, plan.DiscountFormFrom(d))
		}
		grouped[p.ID] = forms
	}
	return grouped
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
		return "", errors.Wrap(errors.CodeInternal, err, "render subscription fields")
	}
	return string(data), nil
}
