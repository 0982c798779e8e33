package subscription

import (
	"testing"
	"time"

	"github.com/subtrackhq/subtrack-go/internal/plan"
	"github.com/subtrackhq/subtrack-go/pkg/enums"
	"github.com/subtrackhq/subtrack-go/pkg/errors"
	"github.com/subtrackhq/subtrack-go/pkg/selection"
	"github.com/subtrackhq/subtrack-go/pkg/validate"
)

func pausedOption() selection.Item[enums.SubscriptionStatus] {
	item, _ := StatusOptions().ByKey("paused")
	return item
}

func completeForm(t *testing.T) Form {
	t.Helper()
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	form, err := FormFromSubscription(activeSubscription(now), []plan.Plan{growthPlan()})
	if err != nil {
		t.Fatalf("FormFromSubscription: %v", err)
	}
	return form
}

func TestValidateFormAcceptsCompleteForm(t *testing.T) {
	result := ValidateForm(completeForm(t))
	if !result.Valid {
		t.Fatalf("expected valid form, got %+v", result)
	}
}

func TestValidateFormPausedNeedsPausedFrom(t *testing.T) {
	form := completeForm(t)
	form.Status = pausedOption()
	form.PausedFrom = ""

	result := ValidateForm(form)
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if len(result.Fields["pausedFrom"]) == 0 {
		t.Fatalf("expected pausedFrom error, got %v", result.Fields)
	}
}

func TestValidateFormPausedFromOnlyWhilePaused(t *testing.T) {
	form := completeForm(t)
	form.PausedFrom = "2026-10-01"

	result := ValidateForm(form)
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if len(result.Fields["pausedFrom"]) == 0 {
		t.Fatalf("expected pausedFrom error, got %v", result.Fields)
	}
}

func TestValidateFormKeysUsageErrorsByCode(t *testing.T) {
	form := completeForm(t)
	form.Usages[0].Unit = ""

	result := ValidateForm(form)
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	errs, ok := result.Usages["seats"]
	if !ok {
		t.Fatalf("expected errors keyed by \"seats\", got %v", result.Usages)
	}
	if len(errs["unit"]) == 0 {
		t.Fatalf("expected unit error, got %v", errs)
	}
}

func TestCreateProjectionPausedFromRule(t *testing.T) {
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

	create := NewFromPlan("user-1", growthPlan(), now)
	create.Status = enums.SubscriptionStatusPaused
	if err := validate.Struct(create); !errors.HasCode(err, errors.CodeValidation) {
		t.Fatalf("paused without pausedFrom should fail, got %v", err)
	}

	pausedFrom := now.AddDate(0, 0, 3)
	create.PausedFrom = &pausedFrom
	if err := validate.Struct(create); err != nil {
		t.Fatalf("paused with pausedFrom should pass, got %v", err)
	}

	create.Status = enums.SubscriptionStatusActive
	if err := validate.Struct(create); !errors.HasCode(err, errors.CodeValidation) {
		t.Fatalf("active with pausedFrom should fail, got %v", err)
	}
}
