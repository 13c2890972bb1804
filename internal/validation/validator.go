package validation

import (
	"errors"
	"regexp"

	validatorv10 "github.com/go-playground/validator/v10"
)

// emailPattern is the basic local@domain.tld shape accepted by the contact form.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Tag names of the custom rules registered by New.
const (
	TagEmail  = "leademail"
	TagStatus = "leadstatus"
)

// messages maps a failed rule to the message shown to the caller.
var messages = map[string]string{
	"required": "All fields are required",
	TagEmail:   "Invalid email format",
	TagStatus:  "Invalid status",
}

// New returns a configured validator with the lead email rule registered.
// Callers that validate statuses register TagStatus themselves via RegisterStatus.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// registration only fails for an empty tag or nil func
	_ = v.RegisterValidation(TagEmail, func(fl validatorv10.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	})

	return v
}

// RegisterStatus installs the status rule using the caller's notion of a valid status.
// An empty value means "not provided" and passes; omitempty only skips nil pointers.
func RegisterStatus(v *validatorv10.Validate, valid func(string) bool) {
	_ = v.RegisterValidation(TagStatus, func(fl validatorv10.FieldLevel) bool {
		raw := fl.Field().String()
		return raw == "" || valid(raw)
	})
}

// ValidEmail reports whether s has the local@domain.tld shape.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Message turns a validator error into a single human-readable message.
// A missing field wins over any other failure so the caller fixes those first.
func Message(err error) string {
	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return err.Error()
	}
	for _, fe := range ve {
		if fe.Tag() == "required" {
			return messages["required"]
		}
	}
	if msg, ok := messages[ve[0].Tag()]; ok {
		return msg
	}
	return ve[0].Error()
}
