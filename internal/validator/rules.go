package validator

import (
	"log"

	"itad_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules wires the domain-specific validation tags.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Registration failure is a startup bug, not a runtime condition.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-job-status", validateJobStatus)
	mustRegister("is-discount-type", validateDiscountType)
	mustRegister("is-quote-response-action", validateQuoteResponseAction)
}

func validateJobStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // empty is handled by 'required'
	}
	switch value {
	case models.JobStatusPickupScheduled,
		models.JobStatusPickupComplete,
		models.JobStatusProcessing,
		models.JobStatusPendingCOD,
		models.JobStatusComplete:
		return true
	}
	return false
}

func validateDiscountType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return value == models.DiscountTypeAmount || value == models.DiscountTypePercentage
}

func validateQuoteResponseAction(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch value {
	case models.QuoteStatusAccepted, models.QuoteStatusDeclined, models.QuoteStatusRevisionRequested:
		return true
	}
	return false
}
