package subscription

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/subtrackhq/subtrack-go/pkg/enums"
	"github.com/subtrackhq/subtrack-go/pkg/validate"
)

const dateLayout = "2006-01-02"

// pausedFromRule enforces that pausedFrom is set exactly when the status is
// paused.
func pausedFromRule(extract func(any) (enums.SubscriptionStatus, *time.Time)) validator.StructLevelFunc {
	return func(sl validator.StructLevel) {
		status, pausedFrom := extract(sl.Current().Interface())
		paused := status == enums.SubscriptionStatusPaused
		if paused && pausedFrom == nil {
			sl.ReportError(pausedFrom, "pausedFrom", "PausedFrom", "required_if_paused", "")
		}
		if !paused && pausedFrom != nil {
			sl.ReportError(pausedFrom, "pausedFrom", "PausedFrom", "excluded_unless_paused", "")
		}
	}
}

// ValidationResult attaches messages to the form's own fields and keys the
// nested collections by their code.
type ValidationResult struct {
	Fields    validate.FieldErrors            `json:"fields"`
	Usages    map[string]validate.FieldErrors `json:"usages"`
	Discounts map[string]validate.FieldErrors `json:"discounts"`
	Valid     bool                            `json:"valid"`
}

// ValidateForm checks the whole form at once and reports every problem it
// finds.
func ValidateForm(f Form) ValidationResult {
	result := ValidationResult{
		Fields:    validate.FieldErrors{},
		Usages:    map[string]validate.FieldErrors{},
		Discounts: map[string]validate.FieldErrors{},
	}

	top := f
	top.Usages = nil
	top.Discounts = nil
	result.Fields = validate.Collect(top)

	if f.Plan.Key == "" {
		result.Fields.Add("plan", "a plan must be selected")
	}
	if !f.Status.Value.IsValid() {
		result.Fields.Add("status", "must be a known subscription status")
	}

	paused := f.Status.Value == enums.SubscriptionStatusPaused
	trimmedPausedFrom := strings.TrimSpace(f.PausedFrom)
	if paused && trimmedPausedFrom == "" {
		result.Fields.Add("pausedFrom", "required while paused")
	}
	if !paused && trimmedPausedFrom != "" {
		result.Fields.Add("pausedFrom", "only allowed while paused")
	}
	if trimmedPausedFrom != "" {
		if _, err := time.Parse(dateLayout, trimmedPausedFrom); err != nil {
			result.Fields.Add("pausedFrom", "must be a date in 2006-01-02 form")
		}
	}

	if strings.TrimSpace(f.Fields) != "" {
		var obj map[string]any
		if err := json.Unmarshal([]byte(f.Fields), &obj); err != nil {
			result.Fields.Add("fields", "must be a JSON object")
		}
	}

	seenUsages := map[string]bool{}
	for _, usage := range f.Usages {
		errs := validate.Collect(usage)
		if seenUsages[usage.Code] {
			errs.Add("code", "duplicate code")
		}
		seenUsages[usage.Code] = true
		if !errs.Empty() {
			result.Usages[usage.Code] = errs
		}
	}

	seenDiscounts := map[string]bool{}
	for _, discount := range f.Discounts {
		errs := validate.Collect(discount)
		if seenDiscounts[discount.Code] {
			errs.Add("code", "duplicate code")
		}
		seenDiscounts[discount.Code] = true
		if !errs.Empty() {
			result.Discounts[discount.Code] = errs
		}
	}

	result.Valid = result.Fields.Empty() &&
		len(result.Usages) == 0 &&
		len(result.Discounts) == 0
	return result
}
