package webhook

import (
	"strconv"
	"strings"

	"github.com/subtrackhq/subtrack-go/pkg/enums"
	"github.com/subtrackhq/subtrack-go/pkg/errors"
	"github.com/subtrackhq/subtrack-go/pkg/selection"
	"github.com/subtrackhq/subtrack-go/pkg/validate"
)

// Form is the editable representation of a webhook. Delays are typed as a
// comma-separated list of seconds.
type Form struct {
	EventCode selection.Item[enums.EventCode] `json:"eventCode" validate:"-"`
	TargetURL string                          `json:"targetUrl" validate:"required,url"`
	Delays    string                          `json:"delays"`
}

// BlankForm returns a form with a sensible default backoff.
func BlankForm() Form {
	return Form{Delays: "0, 60, 300"}
}

// EventCodeOptions lists the selectable event codes.
func EventCodeOptions() selection.List[enums.EventCode] {
	codes := enums.AllEventCodes()
	options := make(selection.List[enums.EventCode], 0, len(codes))
	for _, code := range codes {
		options = append(options, selection.Item[enums.EventCode]{
			Label: strings.ReplaceAll(code.String(), "_", " "),
			Key:   code.String(),
			Value: code,
		})
	}
	return options
}

// ToCreate converts the form into the create projection.
func (f Form) ToCreate() (Create, error) {
	delays, err := parseDelays(f.Delays)
	if err != nil {
		return Create{}, err
	}
	return Create{
		EventCode: f.EventCode.Value,
		TargetURL: strings.TrimSpace(f.TargetURL),
		Delays:    delays,
	}, nil
}

// FormFromWebhook builds the editable form from a canonical webhook.
func FormFromWebhook(w Webhook) Form {
	option, _ := EventCodeOptions().ByKey(w.EventCode.String())
	rendered := make([]string, 0, len(w.Delays))
	for _, delay := range w.Delays {
		rendered = append(rendered, strconv.Itoa(delay))
	}
	return Form{
		EventCode: option,
		TargetURL: w.TargetURL,
		Delays:    strings.Join(rendered, ", "),
	}
}

func parseDelays(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	delays := make([]int, 0, len(parts))
	for _, part := range parts {
		delay, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || delay < 0 {
			return nil, errors.New(errors.CodeValidation, "delays must be non-negative seconds")
		}
		delays = append(delays, delay)
	}
	return delays, nil
}

// ValidationResult carries the per-field form errors.
type ValidationResult struct {
	Fields validate.FieldErrors `json:"fields"`
	Valid  bool                 `json:"valid"`
}

// ValidateForm checks the whole form at once.
func ValidateForm(f Form) ValidationResult {
	fields := validate.Collect(f)
	if !f.EventCode.Value.IsValid() {
		fields.Add("eventCode", "must be a known event code")
	}
	if _, err := parseDelays(f.Delays); err != nil {
		fields.Add("delays", "must be non-negative seconds separated by commas")
	}
	return ValidationResult{Fields: fields, Valid: fields.Empty()}
}
