package plan

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/subtrackhq/subtrack-go/pkg/validate"
)

const dateLayout = "2006-01-02"

func parseDate(raw string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(raw))
}

// ValidationResult attaches messages to the form's own fields and keys the
// nested collections by their code so the editor can place errors next to
// the row that caused them.
type ValidationResult struct {
	Fields     validate.FieldErrors            `json:"fields"`
	UsageRates map[string]validate.FieldErrors `json:"usageRates"`
	Discounts  map[string]validate.FieldErrors `json:"discounts"`
	Valid      bool                            `json:"valid"`
}

// ValidateForm checks the whole form at once and reports every problem it
// finds rather than stopping at the first.
func ValidateForm(f Form) ValidationResult {
	result := ValidationResult{
		Fields:     validate.FieldErrors{},
		UsageRates: map[string]validate.FieldErrors{},
		Discounts:  map[string]validate.FieldErrors{},
	}

	top := f
	top.UsageRates = nil
	top.Discounts = nil
	result.Fields = validate.Collect(top)

	if strings.TrimSpace(f.Fields) != "" {
		var obj map[string]any
		if err := json.Unmarshal([]byte(f.Fields), &obj); err != nil {
			result.Fields.Add("fields", "must be a JSON object")
		}
	}

	seenRates := map[string]bool{}
	for _, rate := range f.UsageRates {
		errs := validate.Collect(rate)
		if seenRates[rate.Code] {
			errs.Add("code", "duplicate code")
		}
		seenRates[rate.Code] = true
		if !errs.Empty() {
			result.UsageRates[rate.Code] = errs
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
		len(result.UsageRates) == 0 &&
		len(result.Discounts) == 0
	return result
}
