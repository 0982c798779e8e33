package auth

import (
	"github.com/subtrackhq/subtrack-go/pkg/validate"
)

// PasswordUpdate is the change-password form. The repeat must match the new
// password; the mismatch attaches to repeatPassword.
type PasswordUpdate struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
	RepeatPassword  string `json:"repeatPassword" validate:"required,eqfield=NewPassword"`
}

// EmailUpdate is the change-email form.
type EmailUpdate struct {
	Email string `json:"email" validate:"required,email"`
}

// ValidatePasswordUpdate checks the form, accumulating every field error.
func ValidatePasswordUpdate(form PasswordUpdate) error {
	return validate.Struct(form)
}

// CollectPasswordUpdate reports the per-field problems for form rendering.
func CollectPasswordUpdate(form PasswordUpdate) validate.FieldErrors {
	return validate.Collect(form)
}

// ValidateEmailUpdate checks the form.
func ValidateEmailUpdate(form EmailUpdate) error {
	return validate.Struct(form)
}
