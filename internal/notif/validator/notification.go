// Package validator rejects normalized reservations that are missing the
// fields reconciliation cannot proceed without. Non-blocking absences
// (email, phone, amount) are the handler's warning concern, not ours.
package validator

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	apperrors "otabridge/pkg/errors"
	"otabridge/pkg/logger"
	"otabridge/pkg/model"
)

// customerMessages maps struct fields to the exact wire messages channel
// managers already match on.
var customerMessages = map[string]string{
	"Name":         "Missing customer name in data",
	"SiteminderID": "Missing siteminder_id in reservation data",
}

var stayMessages = map[string]string{
	"CheckIn":  "Missing check-in date in room stay",
	"CheckOut": "Missing check-out date in room stay",
	"Adults":   "Guest count must include at least one adult",
}

type NotificationValidator struct {
	validate *validator.Validate
	log      *logger.Logger
}

func NewNotificationValidator(log *logger.Logger) *NotificationValidator {
	return &NotificationValidator{
		validate: validator.New(),
		log:      log,
	}
}

// ValidateCustomer returns a validation_error for the first mandatory
// customer field that is missing.
func (v *NotificationValidator) ValidateCustomer(customer *model.Customer) error {
	return v.translate(v.validate.Struct(customer), customerMessages)
}

// ValidateStay returns a validation_error for the first mandatory stay
// field that is missing or out of range.
func (v *NotificationValidator) ValidateStay(stay *model.Stay) error {
	return v.translate(v.validate.Struct(stay), stayMessages)
}

func (v *NotificationValidator) translate(err error, messages map[string]string) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		first := validationErrs[0]
		if msg, ok := messages[first.Field()]; ok {
			return apperrors.Validation(msg)
		}
		return apperrors.Validation(fmt.Sprintf("Invalid %s in reservation data", first.Field()))
	}

	v.log.Warn("Notification validation failed with non-field error", "error", err)
	return apperrors.Validation("Invalid reservation data")
}
